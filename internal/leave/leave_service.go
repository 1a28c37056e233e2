package leave

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	leaveerrors "github.com/WEBX2024/HRMS/internal/leave/errors"
	"github.com/WEBX2024/HRMS/internal/events"
	"github.com/WEBX2024/HRMS/internal/messaging/kafka"
	"github.com/WEBX2024/HRMS/internal/shared/apperror"
	"github.com/WEBX2024/HRMS/internal/shared/contextutil"
)

const (
	txMaxAttempts = 3
	txBackoff     = 50 * time.Millisecond
)

// EmployeeProfile is the slice of employee data leave policy checks need.
type EmployeeProfile struct {
	Gender      string
	JoiningDate time.Time
}

// EmployeeDirectory is implemented by the employee module and injected at
// wiring time.
type EmployeeDirectory interface {
	FindProfile(ctx context.Context, tenantID, employeeID string) (*EmployeeProfile, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	CreateType(ctx context.Context, tenantID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateType(ctx context.Context, tenantID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	ListTypes(ctx context.Context, tenantID string) ([]LeaveTypeResponse, error)

	ListBalances(ctx context.Context, tenantID, employeeID string, year int) ([]BalanceResponse, error)

	CreateRequest(ctx context.Context, tenantID, createdBy string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, tenantID, actorID, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, tenantID, actorID, id, reason string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, tenantID, actorID, id, reason string) (LeaveRequestResponse, error)
	GetRequest(ctx context.Context, tenantID, id string) (LeaveRequestResponse, error)
	ListRequests(ctx context.Context, tenantID, employeeID, status string) ([]LeaveRequestResponse, error)

	// HasApprovedLeave serves the attendance ledger's ON_LEAVE derivation.
	HasApprovedLeave(ctx context.Context, tenantID, employeeID string, date time.Time) (bool, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	outbox    kafka.OutboxRepository
	employees EmployeeDirectory
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	db *gorm.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	employees EmployeeDirectory,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		outbox:    outbox,
		employees: employees,
		logger:    l,
		now:       time.Now,
	}
}

// inTxWithRetry runs fn in a transaction, retrying serialization and
// deadlock aborts (40001, 40P01) a bounded number of times before
// surfacing the contention as a domain conflict.
func (s *service) inTxWithRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < txMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(txBackoff * time.Duration(attempt)):
			}
		}

		err = func() error {
			tx := s.db.WithContext(ctx).Begin()
			if tx.Error != nil {
				return tx.Error
			}
			defer tx.Rollback()

			if err := fn(tx); err != nil {
				return err
			}
			return tx.Commit().Error
		}()

		if !isSerializationFailure(err) {
			return err
		}
		s.logger.Warn("transaction conflict, retrying", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return leaveerrors.ErrConcurrentUpdate
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *service) CreateType(ctx context.Context, tenantID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return LeaveTypeResponse{}, apperror.InvalidField("tenant_id")
	}

	t := &LeaveType{
		ID:                    uuid.New(),
		TenantID:              tenantUUID,
		Name:                  req.Name,
		Code:                  req.Code,
		DaysPerYear:           req.DaysPerYear,
		IsPaid:                req.IsPaid,
		CarryForward:          req.CarryForward,
		MaxCarryForwardDays:   req.MaxCarryForwardDays,
		MinDaysNotice:         req.MinDaysNotice,
		MaxConsecutiveDays:    req.MaxConsecutiveDays,
		GenderSpecific:        req.GenderSpecific,
		ApplicableAfterMonths: req.ApplicableAfterMonths,
		ExcludeWeekends:       true,
		IsActive:              true,
	}
	if req.ExcludeWeekends != nil {
		t.ExcludeWeekends = *req.ExcludeWeekends
	}
	if err := s.repo.CreateType(ctx, t); err != nil {
		if isUniqueViolation(err) {
			return LeaveTypeResponse{}, leaveerrors.ErrLeaveTypeCodeTaken
		}
		return LeaveTypeResponse{}, err
	}
	s.logger.Info("leave type created",
		zap.String("tenant_id", tenantID),
		zap.String("code", t.Code),
	)
	return mapTypeToResponse(*t), nil
}

func (s *service) UpdateType(ctx context.Context, tenantID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	t, err := s.repo.FindTypeByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	if req.Name != "" {
		t.Name = req.Name
	}
	if req.DaysPerYear != nil {
		t.DaysPerYear = *req.DaysPerYear
	}
	if req.IsPaid != nil {
		t.IsPaid = *req.IsPaid
	}
	if req.CarryForward != nil {
		t.CarryForward = *req.CarryForward
	}
	if req.MaxCarryForwardDays != nil {
		t.MaxCarryForwardDays = *req.MaxCarryForwardDays
	}
	if req.MinDaysNotice != nil {
		t.MinDaysNotice = *req.MinDaysNotice
	}
	if req.MaxConsecutiveDays != nil {
		t.MaxConsecutiveDays = *req.MaxConsecutiveDays
	}
	if req.ExcludeWeekends != nil {
		t.ExcludeWeekends = *req.ExcludeWeekends
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateType(ctx, t); err != nil {
		return LeaveTypeResponse{}, err
	}
	return mapTypeToResponse(*t), nil
}

func (s *service) ListTypes(ctx context.Context, tenantID string) ([]LeaveTypeResponse, error) {
	types, err := s.repo.ListTypes(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveTypeResponse, len(types))
	for i, t := range types {
		resp[i] = mapTypeToResponse(t)
	}
	return resp, nil
}

func (s *service) ListBalances(ctx context.Context, tenantID, employeeID string, year int) ([]BalanceResponse, error) {
	if year == 0 {
		year = FinancialYear(s.now().UTC())
	}
	balances, err := s.repo.ListBalances(ctx, tenantID, employeeID, year)
	if err != nil {
		return nil, err
	}
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapBalanceToResponse(b)
	}
	return resp, nil
}

func (s *service) CreateRequest(ctx context.Context, tenantID, createdBy string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, apperror.InvalidField("start_date")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, apperror.InvalidField("end_date")
	}
	if end.Before(start) {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if req.Reason == "" {
		return LeaveRequestResponse{}, leaveerrors.ErrReasonRequired
	}

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return LeaveRequestResponse{}, apperror.InvalidField("tenant_id")
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, apperror.InvalidField("employee_id")
	}
	createdByUUID, err := uuid.Parse(createdBy)
	if err != nil {
		return LeaveRequestResponse{}, apperror.InvalidField("created_by")
	}

	var result *LeaveRequest
	txErr := s.inTxWithRetry(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		leaveType, err := qtx.FindTypeByID(ctx, tenantID, req.LeaveTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrLeaveTypeNotFound
			}
			return err
		}
		if !leaveType.IsActive {
			return leaveerrors.ErrLeaveTypeInactive
		}

		days := CountLeaveDays(start, end, leaveType.ExcludeWeekends)
		if days == 0 {
			return leaveerrors.ErrZeroDays
		}

		if err := s.checkPolicy(ctx, leaveType, tenantID, req.EmployeeID, start, days); err != nil {
			return err
		}

		overlap, err := qtx.HasOverlappingRequest(ctx, tenantID, req.EmployeeID, start, end, nil)
		if err != nil {
			return err
		}
		if overlap {
			return leaveerrors.ErrOverlappingRequest
		}

		balance, err := s.balanceForUpdate(ctx, qtx, leaveType, tenantUUID, employeeUUID, FinancialYear(start))
		if err != nil {
			return err
		}
		if balance.AvailableDays() < days {
			return leaveerrors.ErrInsufficientBalance
		}

		balance.PendingDays += days
		if !balance.CheckInvariant() {
			return leaveerrors.ErrBalanceInvariant
		}
		if err := qtx.UpdateBalance(ctx, balance); err != nil {
			return err
		}

		request := &LeaveRequest{
			ID:          uuid.New(),
			TenantID:    tenantUUID,
			EmployeeID:  employeeUUID,
			LeaveTypeID: leaveType.ID,
			StartDate:   start,
			EndDate:     end,
			Days:        days,
			Reason:      req.Reason,
			Status:      StatusPending,
			CreatedBy:   createdByUUID,
		}
		if err := qtx.CreateRequest(ctx, request); err != nil {
			return err
		}

		if err := s.emitStatusChanged(ctx, tx, request, leaveType.Code); err != nil {
			return err
		}

		result = request
		return nil
	})
	if txErr != nil {
		s.logger.Warn("create leave request failed",
			zap.String("tenant_id", tenantID),
			zap.String("employee_id", req.EmployeeID),
			zap.Error(txErr),
		)
		return LeaveRequestResponse{}, txErr
	}

	s.logger.Info("leave request created",
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", req.EmployeeID),
		zap.Float64("days", result.Days),
	)
	return mapRequestToResponse(*result), nil
}

func (s *service) checkPolicy(ctx context.Context, leaveType *LeaveType, tenantID, employeeID string, start time.Time, days float64) error {
	if leaveType.MinDaysNotice > 0 {
		notice := start.Sub(truncateToDay(s.now().UTC())).Hours() / 24
		if notice < float64(leaveType.MinDaysNotice) {
			return leaveerrors.ErrInsufficientNotice
		}
	}
	if leaveType.MaxConsecutiveDays > 0 && days > float64(leaveType.MaxConsecutiveDays) {
		return leaveerrors.ErrTooManyConsecutiveDays
	}

	if s.employees == nil {
		return nil
	}
	if leaveType.GenderSpecific == GenderAny && leaveType.ApplicableAfterMonths == 0 {
		return nil
	}

	profile, err := s.employees.FindProfile(ctx, tenantID, employeeID)
	if err != nil {
		return err
	}
	if leaveType.GenderSpecific != GenderAny && profile.Gender != leaveType.GenderSpecific {
		return leaveerrors.ErrNotApplicableGender
	}
	if leaveType.ApplicableAfterMonths > 0 {
		months := monthsBetween(profile.JoiningDate, s.now().UTC())
		if months < leaveType.ApplicableAfterMonths {
			return leaveerrors.ErrNotYetApplicable
		}
	}
	return nil
}

func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// balanceForUpdate locks the ledger row, creating it lazily with the
// type's yearly entitlement when the employee has no row for the year.
func (s *service) balanceForUpdate(ctx context.Context, qtx Repository, leaveType *LeaveType, tenantID, employeeID uuid.UUID, year int) (*LeaveBalance, error) {
	balance, err := qtx.GetBalanceForUpdate(ctx, tenantID.String(), employeeID.String(), leaveType.ID.String(), year)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &LeaveBalance{
		ID:          uuid.New(),
		TenantID:    tenantID,
		EmployeeID:  employeeID,
		LeaveTypeID: leaveType.ID,
		Year:        year,
		TotalDays:   leaveType.DaysPerYear,
	}
	if err := qtx.CreateBalance(ctx, fresh); err != nil {
		if isUniqueViolation(err) {
			// Lost the insert race; lock the winner's row.
			return qtx.GetBalanceForUpdate(ctx, tenantID.String(), employeeID.String(), leaveType.ID.String(), year)
		}
		return nil, err
	}
	return fresh, nil
}

func (s *service) Approve(ctx context.Context, tenantID, actorID, id string) (LeaveRequestResponse, error) {
	return s.transition(ctx, tenantID, actorID, id, StatusApproved, "")
}

func (s *service) Reject(ctx context.Context, tenantID, actorID, id, reason string) (LeaveRequestResponse, error) {
	if reason == "" {
		return LeaveRequestResponse{}, leaveerrors.ErrReasonRequired
	}
	return s.transition(ctx, tenantID, actorID, id, StatusRejected, reason)
}

func (s *service) Cancel(ctx context.Context, tenantID, actorID, id, reason string) (LeaveRequestResponse, error) {
	if reason == "" {
		return LeaveRequestResponse{}, leaveerrors.ErrReasonRequired
	}
	return s.transition(ctx, tenantID, actorID, id, StatusCancelled, reason)
}

// transition applies one state-machine edge and its balance effect inside
// a single transaction. Balance effects:
//
//	PENDING  -> APPROVED:  pending -= d, used += d
//	PENDING  -> REJECTED:  pending -= d
//	PENDING  -> CANCELLED: pending -= d
//	APPROVED -> CANCELLED: used -= d
func (s *service) transition(ctx context.Context, tenantID, actorID, id, to, reason string) (LeaveRequestResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, apperror.InvalidField("actor_id")
	}

	var result *LeaveRequest
	txErr := s.inTxWithRetry(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		request, err := qtx.FindRequestByID(ctx, tenantID, id, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrRequestNotFound
			}
			return err
		}
		if !request.CanTransition(to) {
			return leaveerrors.ErrInvalidTransition
		}
		from := request.Status

		leaveType, err := qtx.FindTypeByID(ctx, tenantID, request.LeaveTypeID.String())
		if err != nil {
			return err
		}

		balance, err := qtx.GetBalanceForUpdate(ctx, tenantID, request.EmployeeID.String(), request.LeaveTypeID.String(), FinancialYear(request.StartDate))
		if err != nil {
			return err
		}

		switch {
		case from == StatusPending && to == StatusApproved:
			balance.PendingDays -= request.Days
			balance.UsedDays += request.Days
		case from == StatusPending && (to == StatusRejected || to == StatusCancelled):
			balance.PendingDays -= request.Days
		case from == StatusApproved && to == StatusCancelled:
			balance.UsedDays -= request.Days
		}
		if !balance.CheckInvariant() {
			return leaveerrors.ErrBalanceInvariant
		}
		if err := qtx.UpdateBalance(ctx, balance); err != nil {
			return err
		}

		now := s.now().UTC()
		request.Status = to
		request.DecidedBy = &actorUUID
		request.DecidedAt = &now
		switch to {
		case StatusRejected:
			request.RejectReason = &reason
		case StatusCancelled:
			request.CancelReason = &reason
		}
		if err := qtx.UpdateRequest(ctx, request); err != nil {
			return err
		}

		if err := s.emitStatusChanged(ctx, tx, request, leaveType.Code); err != nil {
			return err
		}

		result = request
		return nil
	})
	if txErr != nil {
		return LeaveRequestResponse{}, txErr
	}

	s.logger.Info("leave request transitioned",
		zap.String("tenant_id", tenantID),
		zap.String("request_id", id),
		zap.String("status", to),
	)
	return mapRequestToResponse(*result), nil
}

func (s *service) emitStatusChanged(ctx context.Context, tx *gorm.DB, request *LeaveRequest, typeCode string) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveStatusChangedEvent{
		EventType:  "leave.status_changed",
		RequestID:  request.ID.String(),
		TenantID:   request.TenantID.String(),
		EmployeeID: request.EmployeeID.String(),
		LeaveType:  typeCode,
		Status:     request.Status,
		Days:       request.Days,
		StartDate:  request.StartDate.Format("2006-01-02"),
		EndDate:    request.EndDate.Format("2006-01-02"),
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   request.ID.String(),
		EventType:     "leave.status_changed",
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetRequest(ctx context.Context, tenantID, id string) (LeaveRequestResponse, error) {
	request, err := s.repo.FindRequestByID(ctx, tenantID, id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapRequestToResponse(*request), nil
}

func (s *service) ListRequests(ctx context.Context, tenantID, employeeID, status string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.ListRequests(ctx, tenantID, employeeID, status)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveRequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapRequestToResponse(r)
	}
	return resp, nil
}

func (s *service) HasApprovedLeave(ctx context.Context, tenantID, employeeID string, date time.Time) (bool, error) {
	return s.repo.HasApprovedLeaveOn(ctx, tenantID, employeeID, date)
}
