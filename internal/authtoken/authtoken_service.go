package authtoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authtokenerrors "github.com/WEBX2024/HRMS/internal/authtoken/errors"
)

//go:generate mockgen -source=authtoken_service.go -destination=mock/authtoken_service_mock.go -package=mock
type Service interface {
	// Issue creates a live token of the given kind. The raw token value is
	// returned once and never retrievable afterwards.
	Issue(ctx context.Context, req IssueRequest) (TokenResponse, error)
	// Validate checks a raw token without changing state. Not-found,
	// terminal, and past-expiry tokens all fail.
	Validate(ctx context.Context, raw, kind string) (*Token, error)
	// Consume moves a live token to ACCEPTED. Exactly one caller wins;
	// everyone else gets a conflict or an expiry error.
	Consume(ctx context.Context, raw, kind string) (*Token, error)
	Revoke(ctx context.Context, tenantID, id string, revokedBy *uuid.UUID) error
	MarkSent(ctx context.Context, id string) error
	ListByTenant(ctx context.Context, tenantID, kind string, limit, offset int) ([]TokenResponse, int64, error)

	// WithTx rebinds the service to an open transaction so a consume can
	// commit or roll back together with the caller's own writes.
	WithTx(tx *gorm.DB) Service
}

type service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("authtoken.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authtoken.service")
	}
	return &service{repo: repo, logger: l, now: time.Now}
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx), logger: s.logger, now: s.now}
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *service) Issue(ctx context.Context, req IssueRequest) (TokenResponse, error) {
	ttl := TTLForKind(req.Kind)
	if ttl == 0 {
		return TokenResponse{}, authtokenerrors.ErrUnknownKind
	}

	raw, err := generateToken()
	if err != nil {
		return TokenResponse{}, err
	}

	now := s.now().UTC()
	token := &Token{
		ID:        uuid.New(),
		TenantID:  req.TenantID,
		UserID:    req.UserID,
		Email:     req.Email,
		Kind:      req.Kind,
		Token:     raw,
		Status:    StatusCreated,
		ExpiresAt: now.Add(ttl),
		CreatedBy: req.CreatedBy,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
	}

	if err := s.repo.Create(ctx, token); err != nil {
		if isUniqueViolation(err) {
			// Token collision on 256 bits of entropy; treat as transient.
			s.logger.Warn("token value collision", zap.String("kind", req.Kind))
			return TokenResponse{}, authtokenerrors.ErrTokenInvalid
		}
		s.logger.Error("issue token failed",
			zap.String("tenant_id", req.TenantID.String()),
			zap.String("kind", req.Kind),
			zap.Error(err),
		)
		return TokenResponse{}, err
	}

	s.logger.Info("token issued",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("kind", req.Kind),
		zap.Time("expires_at", token.ExpiresAt),
	)

	resp := mapTokenToResponse(*token)
	resp.Token = raw
	return resp, nil
}

func (s *service) Validate(ctx context.Context, raw, kind string) (*Token, error) {
	token, err := s.repo.FindByToken(ctx, raw)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authtokenerrors.ErrTokenInvalid
		}
		return nil, err
	}
	if token.Kind != kind {
		return nil, authtokenerrors.ErrTokenInvalid
	}
	if token.IsTerminal() {
		switch token.Status {
		case StatusAccepted:
			return nil, authtokenerrors.ErrTokenAlreadyConsumed
		case StatusRevoked:
			return nil, authtokenerrors.ErrTokenRevoked
		default:
			return nil, authtokenerrors.ErrTokenExpired
		}
	}
	// The live expiry check stands on its own; a sweep that flips the
	// status to EXPIRED is an optimization, not the source of truth.
	if token.IsExpiredAt(s.now().UTC()) {
		return nil, authtokenerrors.ErrTokenExpired
	}
	return token, nil
}

func (s *service) Consume(ctx context.Context, raw, kind string) (*Token, error) {
	token, err := s.Validate(ctx, raw, kind)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	won, err := s.repo.ConsumeByToken(ctx, raw, now)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the race or expired between validate and update. Re-read to
		// report the precise reason.
		current, ferr := s.repo.FindByToken(ctx, raw)
		if ferr == nil && current.IsExpiredAt(now) && !current.IsTerminal() {
			return nil, authtokenerrors.ErrTokenExpired
		}
		return nil, authtokenerrors.ErrTokenAlreadyConsumed
	}

	token.Status = StatusAccepted
	token.AcceptedAt = &now
	s.logger.Info("token consumed",
		zap.String("tenant_id", token.TenantID.String()),
		zap.String("kind", token.Kind),
	)
	return token, nil
}

func (s *service) Revoke(ctx context.Context, tenantID, id string, revokedBy *uuid.UUID) error {
	if _, err := uuid.Parse(id); err != nil {
		return authtokenerrors.ErrTokenNotFound
	}

	done, err := s.repo.RevokeByID(ctx, tenantID, id, revokedBy, s.now().UTC())
	if err != nil {
		return err
	}
	if !done {
		if _, ferr := s.repo.FindByID(ctx, tenantID, id); ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return authtokenerrors.ErrTokenNotFound
			}
			return ferr
		}
		return authtokenerrors.ErrTokenNotRevocable
	}
	s.logger.Info("token revoked", zap.String("tenant_id", tenantID), zap.String("token_id", id))
	return nil
}

func (s *service) MarkSent(ctx context.Context, id string) error {
	return s.repo.MarkSent(ctx, id, s.now().UTC())
}

func (s *service) ListByTenant(ctx context.Context, tenantID, kind string, limit, offset int) ([]TokenResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	tokens, total, err := s.repo.ListByTenant(ctx, tenantID, kind, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]TokenResponse, len(tokens))
	for i, t := range tokens {
		resp[i] = mapTokenToResponse(t)
	}
	return resp, total, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
