package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/attendance"
	attendanceerrors "github.com/WEBX2024/HRMS/internal/attendance/errors"
)

type fakeAttendanceRepository struct {
	getDefaultPolicyFn      func(ctx context.Context, tenantID string) (*attendance.AttendancePolicy, error)
	listPoliciesFn          func(ctx context.Context, tenantID string) ([]attendance.AttendancePolicy, error)
	createPolicyFn          func(ctx context.Context, p *attendance.AttendancePolicy) error
	updatePolicyFn          func(ctx context.Context, p *attendance.AttendancePolicy) error
	clearDefaultFn          func(ctx context.Context, tenantID string) error
	createRecordFn          func(ctx context.Context, rec *attendance.AttendanceRecord) error
	findByEmployeeAndDateFn func(ctx context.Context, tenantID, employeeID string, date time.Time, forUpdate bool) (*attendance.AttendanceRecord, error)
	listByEmployeeFn        func(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]attendance.AttendanceRecord, error)
	listByTenantAndDateFn   func(ctx context.Context, tenantID string, date time.Time) ([]attendance.AttendanceRecord, error)
	updateRecordFn          func(ctx context.Context, rec *attendance.AttendanceRecord) error
	isHolidayFn             func(ctx context.Context, tenantID string, date time.Time) (bool, error)
	createHolidayFn         func(ctx context.Context, h *attendance.Holiday) error
	listHolidaysFn          func(ctx context.Context, tenantID string, year int) ([]attendance.Holiday, error)
}

func (f *fakeAttendanceRepository) WithTx(tx *gorm.DB) attendance.Repository { return f }

func (f *fakeAttendanceRepository) GetDefaultPolicy(ctx context.Context, tenantID string) (*attendance.AttendancePolicy, error) {
	if f.getDefaultPolicyFn != nil {
		return f.getDefaultPolicyFn(ctx, tenantID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) ListPolicies(ctx context.Context, tenantID string) ([]attendance.AttendancePolicy, error) {
	if f.listPoliciesFn != nil {
		return f.listPoliciesFn(ctx, tenantID)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) CreatePolicy(ctx context.Context, p *attendance.AttendancePolicy) error {
	if f.createPolicyFn != nil {
		return f.createPolicyFn(ctx, p)
	}
	return nil
}

func (f *fakeAttendanceRepository) UpdatePolicy(ctx context.Context, p *attendance.AttendancePolicy) error {
	if f.updatePolicyFn != nil {
		return f.updatePolicyFn(ctx, p)
	}
	return nil
}

func (f *fakeAttendanceRepository) ClearDefault(ctx context.Context, tenantID string) error {
	if f.clearDefaultFn != nil {
		return f.clearDefaultFn(ctx, tenantID)
	}
	return nil
}

func (f *fakeAttendanceRepository) CreateRecord(ctx context.Context, rec *attendance.AttendanceRecord) error {
	if f.createRecordFn != nil {
		return f.createRecordFn(ctx, rec)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, tenantID, employeeID string, date time.Time, forUpdate bool) (*attendance.AttendanceRecord, error) {
	if f.findByEmployeeAndDateFn != nil {
		return f.findByEmployeeAndDateFn(ctx, tenantID, employeeID, date, forUpdate)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) ListByEmployee(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	if f.listByEmployeeFn != nil {
		return f.listByEmployeeFn(ctx, tenantID, employeeID, from, to)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) ListByTenantAndDate(ctx context.Context, tenantID string, date time.Time) ([]attendance.AttendanceRecord, error) {
	if f.listByTenantAndDateFn != nil {
		return f.listByTenantAndDateFn(ctx, tenantID, date)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) UpdateRecord(ctx context.Context, rec *attendance.AttendanceRecord) error {
	if f.updateRecordFn != nil {
		return f.updateRecordFn(ctx, rec)
	}
	return nil
}

func (f *fakeAttendanceRepository) IsHoliday(ctx context.Context, tenantID string, date time.Time) (bool, error) {
	if f.isHolidayFn != nil {
		return f.isHolidayFn(ctx, tenantID, date)
	}
	return false, nil
}

func (f *fakeAttendanceRepository) CreateHoliday(ctx context.Context, h *attendance.Holiday) error {
	if f.createHolidayFn != nil {
		return f.createHolidayFn(ctx, h)
	}
	return nil
}

func (f *fakeAttendanceRepository) ListHolidays(ctx context.Context, tenantID string, year int) ([]attendance.Holiday, error) {
	if f.listHolidaysFn != nil {
		return f.listHolidaysFn(ctx, tenantID, year)
	}
	return nil, nil
}

type staticLeaveLookup struct {
	onLeave bool
}

func (s staticLeaveLookup) HasApprovedLeave(ctx context.Context, tenantID, employeeID string, date time.Time) (bool, error) {
	return s.onLeave, nil
}

type attendanceServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *fakeAttendanceRepository
	service attendance.Service
}

func setupAttendanceServiceTest(t *testing.T, onLeave bool) *attendanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	repo := &fakeAttendanceRepository{}
	svc := attendance.NewService(gdb, repo, staticLeaveLookup{onLeave: onLeave})

	return &attendanceServiceDeps{sqlMock: sqlMock, repo: repo, service: svc}
}

func defaultTestPolicy(tenantID uuid.UUID) *attendance.AttendancePolicy {
	return &attendance.AttendancePolicy{
		ID:               uuid.New(),
		TenantID:         tenantID,
		Name:             "Standard",
		IsDefault:        true,
		StandardCheckIn:  "09:00",
		StandardCheckOut: "17:00",
		GraceMinutes:     15,
		WorkHoursPerDay:  8,
		HalfDayHours:     4,
		AllowOvertime:    true,
	}
}

func TestAttendanceService_CheckIn(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	employeeID := uuid.New()

	t.Run("creates record with derived status", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, false)
		deps.repo.getDefaultPolicyFn = func(ctx context.Context, id string) (*attendance.AttendancePolicy, error) {
			return defaultTestPolicy(tenantID), nil
		}
		var created *attendance.AttendanceRecord
		deps.repo.createRecordFn = func(ctx context.Context, rec *attendance.AttendanceRecord) error {
			created = rec
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		// Monday 09:20 UTC with a 09:00 + 15m policy.
		at := time.Date(2026, 3, 9, 9, 20, 0, 0, time.UTC)
		resp, err := deps.service.CheckIn(ctx, tenantID.String(), employeeID.String(), at, attendance.CheckInRequest{})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, attendance.StatusLate, resp.Status)
		assert.Equal(t, "2026-03-09", resp.Date)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects second check-in for the same date", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, false)
		deps.repo.getDefaultPolicyFn = func(ctx context.Context, id string) (*attendance.AttendancePolicy, error) {
			return defaultTestPolicy(tenantID), nil
		}
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, tid, eid string, date time.Time, forUpdate bool) (*attendance.AttendanceRecord, error) {
			return &attendance.AttendanceRecord{ID: uuid.New()}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		at := time.Date(2026, 3, 9, 13, 0, 0, 0, time.UTC)
		_, err := deps.service.CheckIn(ctx, tenantID.String(), employeeID.String(), at, attendance.CheckInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	})

	t.Run("fails without a default policy", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, false)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		at := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
		_, err := deps.service.CheckIn(ctx, tenantID.String(), employeeID.String(), at, attendance.CheckInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrNoDefaultPolicy)
	})

	t.Run("approved leave takes priority over presence", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, true)
		deps.repo.getDefaultPolicyFn = func(ctx context.Context, id string) (*attendance.AttendancePolicy, error) {
			return defaultTestPolicy(tenantID), nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		at := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
		resp, err := deps.service.CheckIn(ctx, tenantID.String(), employeeID.String(), at, attendance.CheckInRequest{})
		assert.NoError(t, err)
		assert.Equal(t, attendance.StatusOnLeave, resp.Status)
	})
}

func TestAttendanceService_CheckOut(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	employeeID := uuid.New()

	openRecord := func(checkIn time.Time) *attendance.AttendanceRecord {
		return &attendance.AttendanceRecord{
			ID:         uuid.New(),
			TenantID:   tenantID,
			EmployeeID: employeeID,
			Date:       time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC),
			CheckInAt:  checkIn,
			Status:     attendance.StatusPresent,
		}
	}

	t.Run("computes work and overtime hours", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, false)
		deps.repo.getDefaultPolicyFn = func(ctx context.Context, id string) (*attendance.AttendancePolicy, error) {
			return defaultTestPolicy(tenantID), nil
		}
		checkIn := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
		lockedForUpdate := false
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, tid, eid string, date time.Time, forUpdate bool) (*attendance.AttendanceRecord, error) {
			lockedForUpdate = forUpdate
			return openRecord(checkIn), nil
		}
		var updated *attendance.AttendanceRecord
		deps.repo.updateRecordFn = func(ctx context.Context, rec *attendance.AttendanceRecord) error {
			updated = rec
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		at := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)
		resp, err := deps.service.CheckOut(ctx, tenantID.String(), employeeID.String(), at, attendance.CheckOutRequest{})

		assert.NoError(t, err)
		assert.True(t, lockedForUpdate)
		assert.NotNil(t, updated)
		assert.InDelta(t, 9.5, resp.WorkHours, 0.001)
		assert.InDelta(t, 1.5, resp.OvertimeHours, 0.001)
		assert.Equal(t, attendance.StatusPresent, resp.Status)
	})

	t.Run("overtime suppressed when policy disallows it", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, false)
		policy := defaultTestPolicy(tenantID)
		policy.AllowOvertime = false
		deps.repo.getDefaultPolicyFn = func(ctx context.Context, id string) (*attendance.AttendancePolicy, error) {
			return policy, nil
		}
		checkIn := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, tid, eid string, date time.Time, forUpdate bool) (*attendance.AttendanceRecord, error) {
			return openRecord(checkIn), nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		at := time.Date(2026, 3, 9, 19, 0, 0, 0, time.UTC)
		resp, err := deps.service.CheckOut(ctx, tenantID.String(), employeeID.String(), at, attendance.CheckOutRequest{})
		assert.NoError(t, err)
		assert.Equal(t, 0.0, resp.OvertimeHours)
	})

	t.Run("short day becomes half day", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, false)
		deps.repo.getDefaultPolicyFn = func(ctx context.Context, id string) (*attendance.AttendancePolicy, error) {
			return defaultTestPolicy(tenantID), nil
		}
		checkIn := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, tid, eid string, date time.Time, forUpdate bool) (*attendance.AttendanceRecord, error) {
			return openRecord(checkIn), nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		at := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
		resp, err := deps.service.CheckOut(ctx, tenantID.String(), employeeID.String(), at, attendance.CheckOutRequest{})
		assert.NoError(t, err)
		assert.Equal(t, attendance.StatusHalfDay, resp.Status)
	})

	t.Run("rejects double check-out", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, false)
		deps.repo.getDefaultPolicyFn = func(ctx context.Context, id string) (*attendance.AttendancePolicy, error) {
			return defaultTestPolicy(tenantID), nil
		}
		checkIn := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
		out := time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, tid, eid string, date time.Time, forUpdate bool) (*attendance.AttendanceRecord, error) {
			rec := openRecord(checkIn)
			rec.CheckOutAt = &out
			return rec, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		at := time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC)
		_, err := deps.service.CheckOut(ctx, tenantID.String(), employeeID.String(), at, attendance.CheckOutRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedOut)
	})

	t.Run("missing record", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, false)
		deps.repo.getDefaultPolicyFn = func(ctx context.Context, id string) (*attendance.AttendancePolicy, error) {
			return defaultTestPolicy(tenantID), nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		at := time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC)
		_, err := deps.service.CheckOut(ctx, tenantID.String(), employeeID.String(), at, attendance.CheckOutRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrNoOpenRecord)
	})
}

func TestAttendanceService_CreatePolicy(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("marking default clears previous default", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, false)
		cleared := false
		deps.repo.clearDefaultFn = func(ctx context.Context, id string) error {
			cleared = true
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.CreatePolicy(ctx, tenantID.String(), attendance.PolicyRequest{
			Name:             "Standard",
			IsDefault:        true,
			StandardCheckIn:  "09:00",
			StandardCheckOut: "17:00",
			GraceMinutes:     15,
			WorkHoursPerDay:  8,
			HalfDayHours:     4,
		})
		assert.NoError(t, err)
		assert.True(t, cleared)
	})

	t.Run("rejects malformed policy time", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t, false)
		_, err := deps.service.CreatePolicy(ctx, tenantID.String(), attendance.PolicyRequest{
			Name:             "Broken",
			StandardCheckIn:  "9am",
			StandardCheckOut: "17:00",
			WorkHoursPerDay:  8,
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidPolicyTime)
	})
}
