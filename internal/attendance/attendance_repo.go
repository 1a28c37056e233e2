package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/WEBX2024/HRMS/internal/tenant"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	GetDefaultPolicy(ctx context.Context, tenantID string) (*AttendancePolicy, error)
	ListPolicies(ctx context.Context, tenantID string) ([]AttendancePolicy, error)
	CreatePolicy(ctx context.Context, p *AttendancePolicy) error
	UpdatePolicy(ctx context.Context, p *AttendancePolicy) error
	// ClearDefault unsets IsDefault on every policy of the tenant. Called
	// inside the same transaction that marks the new default.
	ClearDefault(ctx context.Context, tenantID string) error

	CreateRecord(ctx context.Context, rec *AttendanceRecord) error
	FindByEmployeeAndDate(ctx context.Context, tenantID, employeeID string, date time.Time, forUpdate bool) (*AttendanceRecord, error)
	ListByEmployee(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]AttendanceRecord, error)
	ListByTenantAndDate(ctx context.Context, tenantID string, date time.Time) ([]AttendanceRecord, error)
	UpdateRecord(ctx context.Context, rec *AttendanceRecord) error

	IsHoliday(ctx context.Context, tenantID string, date time.Time) (bool, error)
	CreateHoliday(ctx context.Context, h *Holiday) error
	ListHolidays(ctx context.Context, tenantID string, year int) ([]Holiday, error)
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

func (r *repository) GetDefaultPolicy(ctx context.Context, tenantID string) (*AttendancePolicy, error) {
	var p AttendancePolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("is_default = ?", true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListPolicies(ctx context.Context, tenantID string) ([]AttendancePolicy, error) {
	var policies []AttendancePolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("created_at ASC").
		Find(&policies).Error
	return policies, err
}

func (r *repository) CreatePolicy(ctx context.Context, p *AttendancePolicy) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) UpdatePolicy(ctx context.Context, p *AttendancePolicy) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) ClearDefault(ctx context.Context, tenantID string) error {
	return r.db.WithContext(ctx).
		Model(&AttendancePolicy{}).
		Scopes(tenant.Scope(tenantID)).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}

func (r *repository) CreateRecord(ctx context.Context, rec *AttendanceRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, tenantID, employeeID string, date time.Time, forUpdate bool) (*AttendanceRecord, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("date = ?", date.Format("2006-01-02"))
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rec AttendanceRecord
	if err := q.First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) ListByEmployee(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
	var recs []AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date DESC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) ListByTenantAndDate(ctx context.Context, tenantID string, date time.Time) ([]AttendanceRecord, error) {
	var recs []AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("date = ?", date.Format("2006-01-02")).
		Order("check_in_at ASC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) UpdateRecord(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) IsHoliday(ctx context.Context, tenantID string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Scopes(tenant.Scope(tenantID)).
		Where("date = ?", date.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateHoliday(ctx context.Context, h *Holiday) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) ListHolidays(ctx context.Context, tenantID string, year int) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("EXTRACT(YEAR FROM date) = ?", year).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}
