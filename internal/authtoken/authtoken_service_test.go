package authtoken_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/authtoken"
	authtokenerrors "github.com/WEBX2024/HRMS/internal/authtoken/errors"
)

type fakeTokenRepository struct {
	createFn         func(ctx context.Context, token *authtoken.Token) error
	findByTokenFn    func(ctx context.Context, raw string) (*authtoken.Token, error)
	findByIDFn       func(ctx context.Context, tenantID, id string) (*authtoken.Token, error)
	listByTenantFn   func(ctx context.Context, tenantID, kind string, limit, offset int) ([]authtoken.Token, int64, error)
	consumeByTokenFn func(ctx context.Context, raw string, now time.Time) (bool, error)
	revokeByIDFn     func(ctx context.Context, tenantID, id string, revokedBy *uuid.UUID, now time.Time) (bool, error)
	markSentFn       func(ctx context.Context, id string, now time.Time) error
}

func (f *fakeTokenRepository) WithTx(tx *gorm.DB) authtoken.Repository { return f }

func (f *fakeTokenRepository) Create(ctx context.Context, token *authtoken.Token) error {
	if f.createFn != nil {
		return f.createFn(ctx, token)
	}
	return nil
}

func (f *fakeTokenRepository) FindByToken(ctx context.Context, raw string) (*authtoken.Token, error) {
	if f.findByTokenFn != nil {
		return f.findByTokenFn(ctx, raw)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokenRepository) FindByID(ctx context.Context, tenantID, id string) (*authtoken.Token, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, tenantID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokenRepository) ListByTenant(ctx context.Context, tenantID, kind string, limit, offset int) ([]authtoken.Token, int64, error) {
	if f.listByTenantFn != nil {
		return f.listByTenantFn(ctx, tenantID, kind, limit, offset)
	}
	return nil, 0, nil
}

func (f *fakeTokenRepository) ConsumeByToken(ctx context.Context, raw string, now time.Time) (bool, error) {
	if f.consumeByTokenFn != nil {
		return f.consumeByTokenFn(ctx, raw, now)
	}
	return false, nil
}

func (f *fakeTokenRepository) RevokeByID(ctx context.Context, tenantID, id string, revokedBy *uuid.UUID, now time.Time) (bool, error) {
	if f.revokeByIDFn != nil {
		return f.revokeByIDFn(ctx, tenantID, id, revokedBy, now)
	}
	return false, nil
}

func (f *fakeTokenRepository) MarkSent(ctx context.Context, id string, now time.Time) error {
	if f.markSentFn != nil {
		return f.markSentFn(ctx, id, now)
	}
	return nil
}

func liveToken(kind string, issuedAt time.Time) *authtoken.Token {
	return &authtoken.Token{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		UserID:    uuid.New(),
		Email:     "dewi@acme.test",
		Kind:      kind,
		Token:     "rawtoken",
		Status:    authtoken.StatusSent,
		ExpiresAt: issuedAt.Add(authtoken.TTLForKind(kind)),
	}
}

func TestTTLForKind(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, authtoken.TTLForKind(authtoken.KindInvitation))
	assert.Equal(t, time.Hour, authtoken.TTLForKind(authtoken.KindPasswordReset))
	assert.Equal(t, time.Duration(0), authtoken.TTLForKind("SOMETHING_ELSE"))
}

func TestAuthTokenService_Issue(t *testing.T) {
	ctx := context.Background()

	t.Run("sets expiry from kind TTL", func(t *testing.T) {
		var created *authtoken.Token
		repo := &fakeTokenRepository{
			createFn: func(ctx context.Context, token *authtoken.Token) error {
				created = token
				return nil
			},
		}
		svc := authtoken.NewService(repo)

		before := time.Now().UTC()
		resp, err := svc.Issue(ctx, authtoken.IssueRequest{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
			Email:    "dewi@acme.test",
			Kind:     authtoken.KindInvitation,
		})
		after := time.Now().UTC()

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, authtoken.StatusCreated, created.Status)
		assert.Len(t, resp.Token, 64)
		assert.False(t, created.ExpiresAt.Before(before.Add(7*24*time.Hour)))
		assert.False(t, created.ExpiresAt.After(after.Add(7*24*time.Hour)))
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		svc := authtoken.NewService(&fakeTokenRepository{})
		_, err := svc.Issue(ctx, authtoken.IssueRequest{Kind: "MAGIC_LINK"})
		assert.ErrorIs(t, err, authtokenerrors.ErrUnknownKind)
	})
}

func TestAuthTokenService_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		svc := authtoken.NewService(&fakeTokenRepository{})
		_, err := svc.Validate(ctx, "nope", authtoken.KindInvitation)
		assert.ErrorIs(t, err, authtokenerrors.ErrTokenInvalid)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		token := liveToken(authtoken.KindInvitation, time.Now().UTC())
		repo := &fakeTokenRepository{
			findByTokenFn: func(ctx context.Context, raw string) (*authtoken.Token, error) {
				return token, nil
			},
		}
		svc := authtoken.NewService(repo)
		_, err := svc.Validate(ctx, "rawtoken", authtoken.KindPasswordReset)
		assert.ErrorIs(t, err, authtokenerrors.ErrTokenInvalid)
	})

	t.Run("reset token past ttl fails even while status still SENT", func(t *testing.T) {
		// Issued 61 minutes ago, never touched by any expiry sweep.
		token := liveToken(authtoken.KindPasswordReset, time.Now().UTC().Add(-61*time.Minute))
		repo := &fakeTokenRepository{
			findByTokenFn: func(ctx context.Context, raw string) (*authtoken.Token, error) {
				return token, nil
			},
		}
		svc := authtoken.NewService(repo)

		_, err := svc.Validate(ctx, "rawtoken", authtoken.KindPasswordReset)
		assert.ErrorIs(t, err, authtokenerrors.ErrTokenExpired)
		assert.Equal(t, authtoken.StatusSent, token.Status)
	})

	t.Run("reset token inside ttl passes", func(t *testing.T) {
		token := liveToken(authtoken.KindPasswordReset, time.Now().UTC().Add(-59*time.Minute))
		repo := &fakeTokenRepository{
			findByTokenFn: func(ctx context.Context, raw string) (*authtoken.Token, error) {
				return token, nil
			},
		}
		svc := authtoken.NewService(repo)

		got, err := svc.Validate(ctx, "rawtoken", authtoken.KindPasswordReset)
		assert.NoError(t, err)
		assert.Equal(t, token.ID, got.ID)
	})

	t.Run("accepted token reports consumed", func(t *testing.T) {
		token := liveToken(authtoken.KindInvitation, time.Now().UTC())
		token.Status = authtoken.StatusAccepted
		repo := &fakeTokenRepository{
			findByTokenFn: func(ctx context.Context, raw string) (*authtoken.Token, error) {
				return token, nil
			},
		}
		svc := authtoken.NewService(repo)
		_, err := svc.Validate(ctx, "rawtoken", authtoken.KindInvitation)
		assert.ErrorIs(t, err, authtokenerrors.ErrTokenAlreadyConsumed)
	})

	t.Run("revoked token reports revoked", func(t *testing.T) {
		token := liveToken(authtoken.KindInvitation, time.Now().UTC())
		token.Status = authtoken.StatusRevoked
		repo := &fakeTokenRepository{
			findByTokenFn: func(ctx context.Context, raw string) (*authtoken.Token, error) {
				return token, nil
			},
		}
		svc := authtoken.NewService(repo)
		_, err := svc.Validate(ctx, "rawtoken", authtoken.KindInvitation)
		assert.ErrorIs(t, err, authtokenerrors.ErrTokenRevoked)
	})
}

func TestAuthTokenService_Consume(t *testing.T) {
	ctx := context.Background()

	t.Run("winner transitions to accepted", func(t *testing.T) {
		token := liveToken(authtoken.KindInvitation, time.Now().UTC())
		repo := &fakeTokenRepository{
			findByTokenFn: func(ctx context.Context, raw string) (*authtoken.Token, error) {
				return token, nil
			},
			consumeByTokenFn: func(ctx context.Context, raw string, now time.Time) (bool, error) {
				return true, nil
			},
		}
		svc := authtoken.NewService(repo)

		got, err := svc.Consume(ctx, "rawtoken", authtoken.KindInvitation)
		assert.NoError(t, err)
		assert.Equal(t, authtoken.StatusAccepted, got.Status)
		assert.NotNil(t, got.AcceptedAt)
	})

	t.Run("loser gets conflict", func(t *testing.T) {
		token := liveToken(authtoken.KindInvitation, time.Now().UTC())
		consumed := *token
		consumed.Status = authtoken.StatusAccepted
		calls := 0
		repo := &fakeTokenRepository{
			findByTokenFn: func(ctx context.Context, raw string) (*authtoken.Token, error) {
				calls++
				if calls == 1 {
					return token, nil
				}
				return &consumed, nil
			},
			consumeByTokenFn: func(ctx context.Context, raw string, now time.Time) (bool, error) {
				return false, nil
			},
		}
		svc := authtoken.NewService(repo)

		_, err := svc.Consume(ctx, "rawtoken", authtoken.KindInvitation)
		assert.ErrorIs(t, err, authtokenerrors.ErrTokenAlreadyConsumed)
	})
}

func TestAuthTokenService_Revoke(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	by := uuid.New()

	t.Run("revokes live token", func(t *testing.T) {
		repo := &fakeTokenRepository{
			revokeByIDFn: func(ctx context.Context, tenantID, id string, revokedBy *uuid.UUID, now time.Time) (bool, error) {
				return true, nil
			},
		}
		svc := authtoken.NewService(repo)
		assert.NoError(t, svc.Revoke(ctx, tenantID, uuid.New().String(), &by))
	})

	t.Run("terminal token cannot be revoked", func(t *testing.T) {
		token := liveToken(authtoken.KindInvitation, time.Now().UTC())
		token.Status = authtoken.StatusAccepted
		repo := &fakeTokenRepository{
			revokeByIDFn: func(ctx context.Context, tenantID, id string, revokedBy *uuid.UUID, now time.Time) (bool, error) {
				return false, nil
			},
			findByIDFn: func(ctx context.Context, tenantID, id string) (*authtoken.Token, error) {
				return token, nil
			},
		}
		svc := authtoken.NewService(repo)
		assert.ErrorIs(t, svc.Revoke(ctx, tenantID, token.ID.String(), &by), authtokenerrors.ErrTokenNotRevocable)
	})

	t.Run("missing token", func(t *testing.T) {
		repo := &fakeTokenRepository{
			revokeByIDFn: func(ctx context.Context, tenantID, id string, revokedBy *uuid.UUID, now time.Time) (bool, error) {
				return false, nil
			},
		}
		svc := authtoken.NewService(repo)
		assert.ErrorIs(t, svc.Revoke(ctx, tenantID, uuid.New().String(), &by), authtokenerrors.ErrTokenNotFound)
	})
}
