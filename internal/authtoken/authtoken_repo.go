package authtoken

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/tenant"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, token *Token) error
	FindByToken(ctx context.Context, raw string) (*Token, error)
	FindByID(ctx context.Context, tenantID, id string) (*Token, error)
	ListByTenant(ctx context.Context, tenantID, kind string, limit, offset int) ([]Token, int64, error)

	// ConsumeByToken is a conditional update: it moves a token to ACCEPTED
	// only when it is still live (CREATED or SENT, not past expiry). The
	// returned bool reports whether this call won the transition.
	ConsumeByToken(ctx context.Context, raw string, now time.Time) (bool, error)
	// RevokeByID moves a non-terminal token to REVOKED. Returns false when
	// the token was already terminal.
	RevokeByID(ctx context.Context, tenantID, id string, revokedBy *uuid.UUID, now time.Time) (bool, error)
	MarkSent(ctx context.Context, id string, now time.Time) error
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

func (r *repository) Create(ctx context.Context, token *Token) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *repository) FindByToken(ctx context.Context, raw string) (*Token, error) {
	var token Token
	err := r.db.WithContext(ctx).
		Where("token = ?", raw).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *repository) FindByID(ctx context.Context, tenantID, id string) (*Token, error) {
	var token Token
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *repository) ListByTenant(ctx context.Context, tenantID, kind string, limit, offset int) ([]Token, int64, error) {
	var (
		tokens []Token
		total  int64
	)
	q := r.db.WithContext(ctx).
		Model(&Token{}).
		Scopes(tenant.Scope(tenantID)).
		Where("kind = ?", kind)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tokens).Error
	if err != nil {
		return nil, 0, err
	}
	return tokens, total, nil
}

func (r *repository) ConsumeByToken(ctx context.Context, raw string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Token{}).
		Where("token = ? AND status IN ? AND expires_at > ?",
			raw, []string{StatusCreated, StatusSent}, now).
		Updates(map[string]interface{}{
			"status":      StatusAccepted,
			"accepted_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) RevokeByID(ctx context.Context, tenantID, id string, revokedBy *uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Token{}).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ? AND status IN ?", id, []string{StatusCreated, StatusSent}).
		Updates(map[string]interface{}{
			"status":     StatusRevoked,
			"revoked_at": now,
			"revoked_by": revokedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) MarkSent(ctx context.Context, id string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Token{}).
		Where("id = ? AND status = ?", id, StatusCreated).
		Updates(map[string]interface{}{
			"status":  StatusSent,
			"sent_at": now,
		}).Error
}
