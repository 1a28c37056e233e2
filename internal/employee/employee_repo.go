package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/WEBX2024/HRMS/internal/shared/counter"
	"github.com/WEBX2024/HRMS/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*Employee, error)
	FindByUserID(ctx context.Context, tenantID, userID string) (*Employee, error)
	BelongsToTenant(ctx context.Context, tenantID, employeeID string) (bool, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
}

type repository struct {
	db       *gorm.DB
	counters counter.Repository
}

func NewRepository(db *gorm.DB, counters counter.Repository) Repository {
	return &repository{db: db, counters: counters}
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByUserID(ctx context.Context, tenantID, userID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&e, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) BelongsToTenant(ctx context.Context, tenantID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	if e.EmployeeCode == "" {
		code, err := r.nextEmployeeCode(ctx, e.TenantID.String())
		if err != nil {
			return err
		}
		e.EmployeeCode = code
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// nextEmployeeCode builds TENANTCODE-YYYY-NNNN from the tenant counter.
func (r *repository) nextEmployeeCode(ctx context.Context, tenantID string) (string, error) {
	var tenantCode string
	err := r.db.WithContext(ctx).
		Table("tenants").
		Select("code").
		Where("id = ?", tenantID).
		Scan(&tenantCode).Error
	if err != nil {
		return "", err
	}

	seq, err := r.counters.GetNextValue(ctx, tenantID, "employee")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d-%04d", tenantCode, time.Now().UTC().Year(), seq), nil
}
