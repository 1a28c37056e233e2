package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	attendanceerrors "github.com/WEBX2024/HRMS/internal/attendance/errors"
	"github.com/WEBX2024/HRMS/internal/shared/apperror"
)

// LeaveLookup answers whether an approved leave request covers a date.
// Implemented by the leave module; injected to keep this package free of a
// dependency on leave internals.
type LeaveLookup interface {
	HasApprovedLeave(ctx context.Context, tenantID, employeeID string, date time.Time) (bool, error)
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, tenantID, employeeID string, at time.Time, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, tenantID, employeeID string, at time.Time, req CheckOutRequest) (AttendanceResponse, error)
	ListForEmployee(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]AttendanceResponse, error)
	ListForDate(ctx context.Context, tenantID string, date time.Time) ([]AttendanceResponse, error)

	CreatePolicy(ctx context.Context, tenantID string, req PolicyRequest) (PolicyResponse, error)
	UpdatePolicy(ctx context.Context, tenantID, id string, req PolicyRequest) (PolicyResponse, error)
	ListPolicies(ctx context.Context, tenantID string) ([]PolicyResponse, error)

	CreateHoliday(ctx context.Context, tenantID string, req HolidayRequest) (HolidayResponse, error)
	ListHolidays(ctx context.Context, tenantID string, year int) ([]HolidayResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	leaves LeaveLookup
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, repo Repository, leaves LeaveLookup, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, leaves: leaves, logger: l, now: time.Now}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) CheckIn(ctx context.Context, tenantID, employeeID string, at time.Time, req CheckInRequest) (AttendanceResponse, error) {
	if at.IsZero() {
		at = s.now().UTC()
	}
	day := dateOnly(at)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AttendanceResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	policy, err := qtx.GetDefaultPolicy(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoDefaultPolicy
		}
		return AttendanceResponse{}, err
	}

	if _, err := qtx.FindByEmployeeAndDate(ctx, tenantID, employeeID, day, false); err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	facts, err := s.dayFacts(ctx, qtx, policy, tenantID, employeeID, day)
	if err != nil {
		return AttendanceResponse{}, err
	}
	facts.CheckInAt = &at

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("tenant_id")
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("employee_id")
	}

	rec := &AttendanceRecord{
		ID:         uuid.New(),
		TenantID:   tenantUUID,
		EmployeeID: employeeUUID,
		Date:       day,
		CheckInAt:  at,
		Status:     DeriveStatus(policy, facts),
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Notes:      req.Notes,
	}

	if err := qtx.CreateRecord(ctx, rec); err != nil {
		// Unique index backstop for the race two concurrent check-ins lose.
		if isUniqueViolation(err) {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
		}
		s.logger.Error("check-in failed",
			zap.String("tenant_id", tenantID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return AttendanceResponse{}, err
	}
	if err := tx.Commit().Error; err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("checked in",
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", employeeID),
		zap.String("status", rec.Status),
	)
	return mapRecordToResponse(*rec), nil
}

func (s *service) CheckOut(ctx context.Context, tenantID, employeeID string, at time.Time, req CheckOutRequest) (AttendanceResponse, error) {
	if at.IsZero() {
		at = s.now().UTC()
	}
	day := dateOnly(at)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AttendanceResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	policy, err := qtx.GetDefaultPolicy(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoDefaultPolicy
		}
		return AttendanceResponse{}, err
	}

	// Row lock: concurrent check-outs on the same record must not both
	// compute hours from the pre-update row.
	rec, err := qtx.FindByEmployeeAndDate(ctx, tenantID, employeeID, day, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoOpenRecord
		}
		return AttendanceResponse{}, err
	}
	if !rec.IsOpen() {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}
	if at.Before(rec.CheckInAt) {
		return AttendanceResponse{}, attendanceerrors.ErrCheckOutBeforeCheckIn
	}

	rec.CheckOutAt = &at
	rec.WorkHours = HoursBetween(rec.CheckInAt, at)
	rec.OvertimeHours = OvertimeFor(policy, rec.WorkHours)

	facts, err := s.dayFacts(ctx, qtx, policy, tenantID, employeeID, day)
	if err != nil {
		return AttendanceResponse{}, err
	}
	checkIn := rec.CheckInAt
	facts.CheckInAt = &checkIn
	facts.CheckedOut = true
	facts.WorkHours = rec.WorkHours
	rec.Status = DeriveStatus(policy, facts)

	if req.Latitude != nil {
		rec.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		rec.Longitude = req.Longitude
	}
	if req.Notes != nil {
		rec.Notes = req.Notes
	}

	if err := qtx.UpdateRecord(ctx, rec); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit().Error; err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("checked out",
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", employeeID),
		zap.Float64("work_hours", rec.WorkHours),
		zap.Float64("overtime_hours", rec.OvertimeHours),
	)
	return mapRecordToResponse(*rec), nil
}

func (s *service) dayFacts(ctx context.Context, repo Repository, policy *AttendancePolicy, tenantID, employeeID string, day time.Time) (DayFacts, error) {
	holiday, err := repo.IsHoliday(ctx, tenantID, day)
	if err != nil {
		return DayFacts{}, err
	}
	onLeave := false
	if s.leaves != nil {
		onLeave, err = s.leaves.HasApprovedLeave(ctx, tenantID, employeeID, day)
		if err != nil {
			return DayFacts{}, err
		}
	}
	return DayFacts{
		IsHoliday:       holiday,
		IsWeekend:       policy.IsWeekend(day),
		OnApprovedLeave: onLeave,
	}, nil
}

func (s *service) ListForEmployee(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]AttendanceResponse, error) {
	if to.Before(from) {
		return nil, apperror.InvalidField("to")
	}
	recs, err := s.repo.ListByEmployee(ctx, tenantID, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	return s.mapWithDerivedStatus(ctx, tenantID, recs)
}

func (s *service) ListForDate(ctx context.Context, tenantID string, date time.Time) ([]AttendanceResponse, error) {
	recs, err := s.repo.ListByTenantAndDate(ctx, tenantID, dateOnly(date))
	if err != nil {
		return nil, err
	}
	return s.mapWithDerivedStatus(ctx, tenantID, recs)
}

// mapWithDerivedStatus recomputes status on the read path so stored values
// cannot silently diverge from the facts.
func (s *service) mapWithDerivedStatus(ctx context.Context, tenantID string, recs []AttendanceRecord) ([]AttendanceResponse, error) {
	policy, err := s.repo.GetDefaultPolicy(ctx, tenantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	resp := make([]AttendanceResponse, len(recs))
	for i, rec := range recs {
		if policy != nil {
			facts, ferr := s.dayFacts(ctx, s.repo, policy, tenantID, rec.EmployeeID.String(), rec.Date)
			if ferr == nil {
				checkIn := rec.CheckInAt
				facts.CheckInAt = &checkIn
				facts.CheckedOut = rec.CheckOutAt != nil
				facts.WorkHours = rec.WorkHours
				rec.Status = DeriveStatus(policy, facts)
			}
		}
		resp[i] = mapRecordToResponse(rec)
	}
	return resp, nil
}

func (s *service) CreatePolicy(ctx context.Context, tenantID string, req PolicyRequest) (PolicyResponse, error) {
	if err := validatePolicyTimes(req); err != nil {
		return PolicyResponse{}, err
	}
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return PolicyResponse{}, apperror.InvalidField("tenant_id")
	}

	p := &AttendancePolicy{
		ID:               uuid.New(),
		TenantID:         tenantUUID,
		Name:             req.Name,
		IsDefault:        req.IsDefault,
		StandardCheckIn:  req.StandardCheckIn,
		StandardCheckOut: req.StandardCheckOut,
		GraceMinutes:     req.GraceMinutes,
		WorkHoursPerDay:  req.WorkHoursPerDay,
		HalfDayHours:     req.HalfDayHours,
		AllowOvertime:    req.AllowOvertime,
		WeekendDays:      req.WeekendDays,
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return PolicyResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if p.IsDefault {
		if err := qtx.ClearDefault(ctx, tenantID); err != nil {
			return PolicyResponse{}, err
		}
	}
	if err := qtx.CreatePolicy(ctx, p); err != nil {
		return PolicyResponse{}, err
	}
	if err := tx.Commit().Error; err != nil {
		return PolicyResponse{}, err
	}
	return mapPolicyToResponse(*p), nil
}

func (s *service) UpdatePolicy(ctx context.Context, tenantID, id string, req PolicyRequest) (PolicyResponse, error) {
	if err := validatePolicyTimes(req); err != nil {
		return PolicyResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return PolicyResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	policies, err := qtx.ListPolicies(ctx, tenantID)
	if err != nil {
		return PolicyResponse{}, err
	}
	var p *AttendancePolicy
	for i := range policies {
		if policies[i].ID.String() == id {
			p = &policies[i]
			break
		}
	}
	if p == nil {
		return PolicyResponse{}, attendanceerrors.ErrPolicyNotFound
	}

	if req.IsDefault && !p.IsDefault {
		if err := qtx.ClearDefault(ctx, tenantID); err != nil {
			return PolicyResponse{}, err
		}
	}

	p.Name = req.Name
	p.IsDefault = req.IsDefault
	p.StandardCheckIn = req.StandardCheckIn
	p.StandardCheckOut = req.StandardCheckOut
	p.GraceMinutes = req.GraceMinutes
	p.WorkHoursPerDay = req.WorkHoursPerDay
	p.HalfDayHours = req.HalfDayHours
	p.AllowOvertime = req.AllowOvertime
	p.WeekendDays = req.WeekendDays

	if err := qtx.UpdatePolicy(ctx, p); err != nil {
		return PolicyResponse{}, err
	}
	if err := tx.Commit().Error; err != nil {
		return PolicyResponse{}, err
	}
	return mapPolicyToResponse(*p), nil
}

func (s *service) ListPolicies(ctx context.Context, tenantID string) ([]PolicyResponse, error) {
	policies, err := s.repo.ListPolicies(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]PolicyResponse, len(policies))
	for i, p := range policies {
		resp[i] = mapPolicyToResponse(p)
	}
	return resp, nil
}

func (s *service) CreateHoliday(ctx context.Context, tenantID string, req HolidayRequest) (HolidayResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return HolidayResponse{}, apperror.InvalidField("date")
	}
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return HolidayResponse{}, apperror.InvalidField("tenant_id")
	}

	h := &Holiday{
		ID:       uuid.New(),
		TenantID: tenantUUID,
		Date:     date,
		Name:     req.Name,
	}
	if err := s.repo.CreateHoliday(ctx, h); err != nil {
		if isUniqueViolation(err) {
			return HolidayResponse{}, attendanceerrors.ErrDuplicateHoliday
		}
		return HolidayResponse{}, err
	}
	return mapHolidayToResponse(*h), nil
}

func (s *service) ListHolidays(ctx context.Context, tenantID string, year int) ([]HolidayResponse, error) {
	holidays, err := s.repo.ListHolidays(ctx, tenantID, year)
	if err != nil {
		return nil, err
	}
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapHolidayToResponse(h)
	}
	return resp, nil
}

func validatePolicyTimes(req PolicyRequest) error {
	if _, err := minutesOfDay(req.StandardCheckIn); err != nil {
		return attendanceerrors.ErrInvalidPolicyTime
	}
	if _, err := minutesOfDay(req.StandardCheckOut); err != nil {
		return attendanceerrors.ErrInvalidPolicyTime
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
