package leave

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/WEBX2024/HRMS/internal/tenant"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateType(ctx context.Context, t *LeaveType) error
	UpdateType(ctx context.Context, t *LeaveType) error
	FindTypeByID(ctx context.Context, tenantID, id string) (*LeaveType, error)
	ListTypes(ctx context.Context, tenantID string) ([]LeaveType, error)

	// GetBalanceForUpdate takes a row lock; every balance mutation goes
	// through it so concurrent read-modify-writes serialize.
	GetBalanceForUpdate(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	CreateBalance(ctx context.Context, b *LeaveBalance) error
	UpdateBalance(ctx context.Context, b *LeaveBalance) error
	ListBalances(ctx context.Context, tenantID, employeeID string, year int) ([]LeaveBalance, error)

	CreateRequest(ctx context.Context, r *LeaveRequest) error
	UpdateRequest(ctx context.Context, r *LeaveRequest) error
	FindRequestByID(ctx context.Context, tenantID, id string, forUpdate bool) (*LeaveRequest, error)
	ListRequests(ctx context.Context, tenantID string, employeeID, status string) ([]LeaveRequest, error)
	// HasOverlappingRequest checks PENDING and APPROVED rows only;
	// rejected and cancelled ranges never block a new request.
	HasOverlappingRequest(ctx context.Context, tenantID, employeeID string, start, end time.Time, excludeID *string) (bool, error)
	HasApprovedLeaveOn(ctx context.Context, tenantID, employeeID string, date time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateType(ctx context.Context, t *LeaveType) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) UpdateType(ctx context.Context, t *LeaveType) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) FindTypeByID(ctx context.Context, tenantID, id string) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListTypes(ctx context.Context, tenantID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) GetBalanceForUpdate(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) CreateBalance(ctx context.Context, b *LeaveBalance) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) UpdateBalance(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) ListBalances(ctx context.Context, tenantID, employeeID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Find(&balances).Error
	return balances, err
}

func (r *repository) CreateRequest(ctx context.Context, req *LeaveRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) UpdateRequest(ctx context.Context, req *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) FindRequestByID(ctx context.Context, tenantID, id string, forUpdate bool) (*LeaveRequest, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var req LeaveRequest
	if err := q.First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListRequests(ctx context.Context, tenantID string, employeeID, status string) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID))
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reqs []LeaveRequest
	err := q.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *repository) HasOverlappingRequest(ctx context.Context, tenantID, employeeID string, start, end time.Time, excludeID *string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end.Format("2006-01-02"), start.Format("2006-01-02"))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) HasApprovedLeaveOn(ctx context.Context, tenantID, employeeID string, date time.Time) (bool, error) {
	day := date.Format("2006-01-02")
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Count(&count).Error
	return count > 0, err
}
