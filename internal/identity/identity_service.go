package identity

import (
	"context"
	"errors"
	"strings"

	identityerrors "github.com/WEBX2024/HRMS/internal/identity/errors"
	"github.com/WEBX2024/HRMS/internal/tenant"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// exemptPathPrefixes never require tenant resolution. The resolver
// short-circuits before any claim extraction.
var exemptPathPrefixes = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
	"/api/v1/auth/password-reset",
	"/api/v1/invitations/accept",
	"/healthz",
	"/docs",
}

// SnapshotBuilder loads the caller's permission snapshot. Implemented by
// the rbac service.
type SnapshotBuilder interface {
	SnapshotFor(ctx context.Context, tenantID, userID string) (PermissionSnapshot, error)
}

//go:generate mockgen -source=identity_service.go -destination=mock/identity_service_mock.go -package=mock
type Service interface {
	// Resolve turns validated claims into a CallerContext, enforcing tenant
	// isolation rules. Fails closed on any missing or inactive tenant.
	Resolve(ctx context.Context, claims Claims) (CallerContext, error)
	IsExemptPath(path string) bool
}

type service struct {
	tenants   tenant.Repository
	snapshots SnapshotBuilder
	logger    *zap.Logger
}

func NewService(tenants tenant.Repository, snapshots SnapshotBuilder, logger ...*zap.Logger) Service {
	l := zap.L().Named("identity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.service")
	}
	return &service{tenants: tenants, snapshots: snapshots, logger: l}
}

func (s *service) IsExemptPath(path string) bool {
	for _, prefix := range exemptPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (s *service) Resolve(ctx context.Context, claims Claims) (CallerContext, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return CallerContext{}, identityerrors.ErrInvalidUserID
	}

	caller := CallerContext{
		UserID:    userID,
		RoleCodes: claims.RoleCodes,
	}
	if claims.EmployeeID != "" {
		if eid, err := uuid.Parse(claims.EmployeeID); err == nil {
			caller.EmployeeID = &eid
		}
	}

	// Explicit super-admin branch: tenant left unset, every tenant check
	// bypassed. Logged so the bypass is auditable.
	if claims.IsSuperAdmin {
		caller.IsSuperAdmin = true
		s.logger.Info("super admin access",
			zap.String("user_id", claims.UserID),
		)
		return caller, nil
	}

	// A tenant claim is mandatory for everyone else. Its absence is an
	// authentication failure, not a silent "no tenant".
	if claims.TenantID == "" {
		s.logger.Warn("credential without tenant claim",
			zap.String("user_id", claims.UserID),
		)
		return CallerContext{}, identityerrors.ErrMissingTenantClaim
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return CallerContext{}, identityerrors.ErrInvalidTenantClaim
	}

	t, err := s.tenants.FindActiveByID(ctx, tenantID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("tenant missing or inactive",
				zap.String("tenant_id", claims.TenantID),
				zap.String("user_id", claims.UserID),
			)
			return CallerContext{}, identityerrors.ErrTenantNotActive
		}
		return CallerContext{}, err
	}
	caller.TenantID = &t.ID

	snapshot, err := s.snapshots.SnapshotFor(ctx, t.ID.String(), userID.String())
	if err != nil {
		return CallerContext{}, err
	}
	caller.Permissions = snapshot

	return caller, nil
}
