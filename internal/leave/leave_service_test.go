package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/leave"
	leaveerrors "github.com/WEBX2024/HRMS/internal/leave/errors"
	"github.com/WEBX2024/HRMS/internal/messaging/kafka"
)

type fakeLeaveRepository struct {
	types    map[string]*leave.LeaveType
	balance  *leave.LeaveBalance
	requests map[string]*leave.LeaveRequest

	overlap        bool
	requestedYear  int
	createdRequest *leave.LeaveRequest
	updatedBalance *leave.LeaveBalance
	updatedRequest *leave.LeaveRequest
}

func newFakeLeaveRepository() *fakeLeaveRepository {
	return &fakeLeaveRepository{
		types:    map[string]*leave.LeaveType{},
		requests: map[string]*leave.LeaveRequest{},
	}
}

func (f *fakeLeaveRepository) WithTx(tx *gorm.DB) leave.Repository { return f }

func (f *fakeLeaveRepository) CreateType(ctx context.Context, t *leave.LeaveType) error {
	f.types[t.ID.String()] = t
	return nil
}

func (f *fakeLeaveRepository) UpdateType(ctx context.Context, t *leave.LeaveType) error {
	f.types[t.ID.String()] = t
	return nil
}

func (f *fakeLeaveRepository) FindTypeByID(ctx context.Context, tenantID, id string) (*leave.LeaveType, error) {
	if t, ok := f.types[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) ListTypes(ctx context.Context, tenantID string) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, t := range f.types {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeLeaveRepository) GetBalanceForUpdate(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	f.requestedYear = year
	if f.balance == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.balance, nil
}

func (f *fakeLeaveRepository) CreateBalance(ctx context.Context, b *leave.LeaveBalance) error {
	f.balance = b
	return nil
}

func (f *fakeLeaveRepository) UpdateBalance(ctx context.Context, b *leave.LeaveBalance) error {
	f.balance = b
	f.updatedBalance = b
	return nil
}

func (f *fakeLeaveRepository) ListBalances(ctx context.Context, tenantID, employeeID string, year int) ([]leave.LeaveBalance, error) {
	if f.balance == nil {
		return nil, nil
	}
	return []leave.LeaveBalance{*f.balance}, nil
}

func (f *fakeLeaveRepository) CreateRequest(ctx context.Context, r *leave.LeaveRequest) error {
	f.requests[r.ID.String()] = r
	f.createdRequest = r
	return nil
}

func (f *fakeLeaveRepository) UpdateRequest(ctx context.Context, r *leave.LeaveRequest) error {
	f.requests[r.ID.String()] = r
	f.updatedRequest = r
	return nil
}

func (f *fakeLeaveRepository) FindRequestByID(ctx context.Context, tenantID, id string, forUpdate bool) (*leave.LeaveRequest, error) {
	if r, ok := f.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) ListRequests(ctx context.Context, tenantID string, employeeID, status string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeLeaveRepository) HasOverlappingRequest(ctx context.Context, tenantID, employeeID string, start, end time.Time, excludeID *string) (bool, error) {
	return f.overlap, nil
}

func (f *fakeLeaveRepository) HasApprovedLeaveOn(ctx context.Context, tenantID, employeeID string, date time.Time) (bool, error) {
	for _, r := range f.requests {
		if r.Status == leave.StatusApproved && !date.Before(r.StartDate) && !date.After(r.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error   { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, r string) error { return nil }

type fakeDirectory struct {
	profile leave.EmployeeProfile
}

func (f *fakeDirectory) FindProfile(ctx context.Context, tenantID, employeeID string) (*leave.EmployeeProfile, error) {
	return &f.profile, nil
}

type leaveServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *fakeLeaveRepository
	outbox  *fakeOutbox
	service leave.Service
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	repo := newFakeLeaveRepository()
	outbox := &fakeOutbox{}
	dir := &fakeDirectory{profile: leave.EmployeeProfile{
		Gender:      leave.GenderFemale,
		JoiningDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	svc := leave.NewService(gdb, repo, outbox, dir)

	return &leaveServiceDeps{sqlMock: sqlMock, repo: repo, outbox: outbox, service: svc}
}

func seedType(deps *leaveServiceDeps, tenantID uuid.UUID) *leave.LeaveType {
	t := &leave.LeaveType{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        "Annual Leave",
		Code:        "ANNUAL",
		DaysPerYear:     12,
		IsPaid:          true,
		ExcludeWeekends: true,
		IsActive:        true,
	}
	deps.repo.types[t.ID.String()] = t
	return t
}

func seedBalance(deps *leaveServiceDeps, tenantID, employeeID uuid.UUID, leaveType *leave.LeaveType, total, used, pending float64) *leave.LeaveBalance {
	b := &leave.LeaveBalance{
		ID:          uuid.New(),
		TenantID:    tenantID,
		EmployeeID:  employeeID,
		LeaveTypeID: leaveType.ID,
		Year:        2026,
		TotalDays:   total,
		UsedDays:    used,
		PendingDays: pending,
	}
	deps.repo.balance = b
	return b
}

func createRequest(employeeID, typeID uuid.UUID) leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{
		EmployeeID:  employeeID.String(),
		LeaveTypeID: typeID.String(),
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-05",
		Reason:      "family trip",
	}
}

func TestLeaveService_CreateRequest(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	employeeID := uuid.New()
	actorID := uuid.New().String()

	t.Run("reserves pending days", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		seedBalance(deps, tenantID, employeeID, lt, 12, 0, 0)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.CreateRequest(ctx, tenantID.String(), actorID, createRequest(employeeID, lt.ID))

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 5.0, resp.Days)
		assert.Equal(t, 5.0, deps.repo.balance.PendingDays)
		assert.Equal(t, 7.0, deps.repo.balance.AvailableDays())
		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "hr.leave.lifecycle.v1", deps.outbox.events[0].Topic)
	})

	t.Run("second request beyond available fails", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		// 5 days already reserved; available = 7 < 8 weekdays.
		seedBalance(deps, tenantID, employeeID, lt, 12, 0, 5)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		req := createRequest(employeeID, lt.ID)
		req.StartDate = "2026-07-01"
		req.EndDate = "2026-07-10"
		_, err := deps.service.CreateRequest(ctx, tenantID.String(), actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
		assert.Equal(t, 5.0, deps.repo.balance.PendingDays)
	})

	t.Run("overlapping pending request is rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		seedBalance(deps, tenantID, employeeID, lt, 12, 0, 0)
		deps.repo.overlap = true

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.CreateRequest(ctx, tenantID.String(), actorID, createRequest(employeeID, lt.ID))
		assert.ErrorIs(t, err, leaveerrors.ErrOverlappingRequest)
		assert.Nil(t, deps.repo.createdRequest)
	})

	t.Run("creates missing balance from yearly entitlement", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.CreateRequest(ctx, tenantID.String(), actorID, createRequest(employeeID, lt.ID))
		assert.NoError(t, err)
		assert.NotNil(t, deps.repo.balance)
		assert.Equal(t, 12.0, deps.repo.balance.TotalDays)
		assert.Equal(t, 5.0, deps.repo.balance.PendingDays)
	})

	t.Run("weekends are excluded by type policy", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		seedBalance(deps, tenantID, employeeID, lt, 12, 0, 0)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		req := createRequest(employeeID, lt.ID)
		// Mon 2026-06-01 .. Sun 2026-06-07: 5 weekdays.
		req.StartDate = "2026-06-01"
		req.EndDate = "2026-06-07"
		resp, err := deps.service.CreateRequest(ctx, tenantID.String(), actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, 5.0, resp.Days)
		assert.Equal(t, 5.0, deps.repo.balance.PendingDays)
	})

	t.Run("type can opt back into counting weekends", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		lt.ExcludeWeekends = false
		seedBalance(deps, tenantID, employeeID, lt, 12, 0, 0)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		req := createRequest(employeeID, lt.ID)
		req.StartDate = "2026-06-01"
		req.EndDate = "2026-06-07"
		resp, err := deps.service.CreateRequest(ctx, tenantID.String(), actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, 7.0, resp.Days)
	})

	t.Run("february request books against the prior financial year", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		req := createRequest(employeeID, lt.ID)
		// Mon 2026-02-09 .. Fri 2026-02-13 sits in FY 2025 (Apr-Mar).
		req.StartDate = "2026-02-09"
		req.EndDate = "2026-02-13"
		_, err := deps.service.CreateRequest(ctx, tenantID.String(), actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, 2025, deps.repo.requestedYear)
		assert.Equal(t, 2025, deps.repo.balance.Year)
		assert.Equal(t, 5.0, deps.repo.balance.PendingDays)
	})

	t.Run("notice period enforced", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		lt.MinDaysNotice = 90000 // effectively never satisfiable
		seedBalance(deps, tenantID, employeeID, lt, 12, 0, 0)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.CreateRequest(ctx, tenantID.String(), actorID, createRequest(employeeID, lt.ID))
		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientNotice)
	})

	t.Run("inverted range fails before any transaction", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)

		req := createRequest(employeeID, lt.ID)
		req.StartDate = "2026-06-05"
		req.EndDate = "2026-06-01"
		_, err := deps.service.CreateRequest(ctx, tenantID.String(), actorID, req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})
}

func TestLeaveService_Transitions(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	employeeID := uuid.New()
	actorID := uuid.New().String()

	seedPending := func(deps *leaveServiceDeps, lt *leave.LeaveType, days float64) *leave.LeaveRequest {
		r := &leave.LeaveRequest{
			ID:          uuid.New(),
			TenantID:    tenantID,
			EmployeeID:  employeeID,
			LeaveTypeID: lt.ID,
			StartDate:   day(2026, 6, 1),
			EndDate:     day(2026, 6, 5),
			Days:        days,
			Reason:      "family trip",
			Status:      leave.StatusPending,
			CreatedBy:   employeeID,
		}
		deps.repo.requests[r.ID.String()] = r
		return r
	}

	t.Run("approve moves pending to used", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		seedBalance(deps, tenantID, employeeID, lt, 12, 0, 5)
		r := seedPending(deps, lt, 5)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Approve(ctx, tenantID.String(), actorID, r.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, 0.0, deps.repo.balance.PendingDays)
		assert.Equal(t, 5.0, deps.repo.balance.UsedDays)
		assert.Len(t, deps.outbox.events, 1)
	})

	t.Run("reject releases the reservation", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		seedBalance(deps, tenantID, employeeID, lt, 12, 0, 5)
		r := seedPending(deps, lt, 5)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Reject(ctx, tenantID.String(), actorID, r.ID.String(), "understaffed week")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, 0.0, deps.repo.balance.PendingDays)
		assert.Equal(t, 0.0, deps.repo.balance.UsedDays)
		assert.NotNil(t, resp.RejectReason)
	})

	t.Run("cancel pending releases the reservation", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		seedBalance(deps, tenantID, employeeID, lt, 12, 0, 5)
		r := seedPending(deps, lt, 5)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Cancel(ctx, tenantID.String(), actorID, r.ID.String(), "plans changed")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
		assert.Equal(t, 0.0, deps.repo.balance.PendingDays)
		assert.Equal(t, 0.0, deps.repo.balance.UsedDays)
	})

	t.Run("cancel approved returns days to the pool", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		seedBalance(deps, tenantID, employeeID, lt, 12, 5, 0)
		r := seedPending(deps, lt, 5)
		r.Status = leave.StatusApproved

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Cancel(ctx, tenantID.String(), actorID, r.ID.String(), "plans changed")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
		assert.Equal(t, 0.0, deps.repo.balance.UsedDays)
		assert.Equal(t, 0.0, deps.repo.balance.PendingDays)
	})

	t.Run("full create-approve-cancel cycle restores the balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		seedBalance(deps, tenantID, employeeID, lt, 12, 0, 0)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		created, err := deps.service.CreateRequest(ctx, tenantID.String(), actorID, createRequest(employeeID, lt.ID))
		assert.NoError(t, err)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		_, err = deps.service.Approve(ctx, tenantID.String(), actorID, created.ID)
		assert.NoError(t, err)
		assert.Equal(t, 5.0, deps.repo.balance.UsedDays)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		_, err = deps.service.Cancel(ctx, tenantID.String(), actorID, created.ID, "plans changed")
		assert.NoError(t, err)

		assert.Equal(t, 0.0, deps.repo.balance.UsedDays)
		assert.Equal(t, 0.0, deps.repo.balance.PendingDays)
		assert.Equal(t, 12.0, deps.repo.balance.AvailableDays())
	})

	t.Run("approve on approved request fails", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		lt := seedType(deps, tenantID)
		seedBalance(deps, tenantID, employeeID, lt, 12, 5, 0)
		r := seedPending(deps, lt, 5)
		r.Status = leave.StatusApproved

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Approve(ctx, tenantID.String(), actorID, r.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		_, err := deps.service.Reject(ctx, tenantID.String(), actorID, uuid.NewString(), "")
		assert.ErrorIs(t, err, leaveerrors.ErrReasonRequired)
	})
}

func TestLeaveService_HasApprovedLeave(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	employeeID := uuid.New()

	deps := setupLeaveServiceTest(t)
	lt := seedType(deps, tenantID)
	r := &leave.LeaveRequest{
		ID:          uuid.New(),
		TenantID:    tenantID,
		EmployeeID:  employeeID,
		LeaveTypeID: lt.ID,
		StartDate:   day(2026, 6, 1),
		EndDate:     day(2026, 6, 5),
		Days:        5,
		Status:      leave.StatusApproved,
	}
	deps.repo.requests[r.ID.String()] = r

	covered, err := deps.service.HasApprovedLeave(ctx, tenantID.String(), employeeID.String(), day(2026, 6, 3))
	assert.NoError(t, err)
	assert.True(t, covered)

	covered, err = deps.service.HasApprovedLeave(ctx, tenantID.String(), employeeID.String(), day(2026, 6, 8))
	assert.NoError(t, err)
	assert.False(t, covered)
}
