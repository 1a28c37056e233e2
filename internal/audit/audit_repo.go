package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/tenant"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, entry *LoginAudit) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]LoginAudit, int64, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]LoginAudit, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *LoginAudit) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]LoginAudit, int64, error) {
	var (
		entries []LoginAudit
		total   int64
	)
	q := r.db.WithContext(ctx).
		Model(&LoginAudit{}).
		Scopes(tenant.Scope(tenantID))
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *repository) ListByEmail(ctx context.Context, email string, limit int) ([]LoginAudit, error) {
	var entries []LoginAudit
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
