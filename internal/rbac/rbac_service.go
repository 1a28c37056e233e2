package rbac

import (
	"context"
	"errors"
	"time"

	"github.com/WEBX2024/HRMS/internal/identity"
	rbacerrors "github.com/WEBX2024/HRMS/internal/rbac/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	// SnapshotFor resolves the effective permission set for one caller.
	// The result is valid for the current request only.
	SnapshotFor(ctx context.Context, tenantID, userID string) (identity.PermissionSnapshot, error)

	// RoleCodesFor returns the codes of the user's currently valid role
	// assignments, for embedding in issued credentials.
	RoleCodesFor(ctx context.Context, tenantID, userID string) ([]string, error)

	ListRoles(ctx context.Context, tenantID string) ([]RoleResponse, error)
	CreateRole(ctx context.Context, tenantID string, req CreateRoleRequest) (RoleResponse, error)
	UpdateRole(ctx context.Context, tenantID, id string, req UpdateRoleRequest) (RoleResponse, error)
	DeleteRole(ctx context.Context, tenantID, id string) error

	AssignRole(ctx context.Context, tenantID string, req AssignRoleRequest) (AssignmentResponse, error)
	RevokeAssignment(ctx context.Context, tenantID, id string) error

	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	DeactivatePermission(ctx context.Context, code string) error
	DeletePermission(ctx context.Context, code string) error
}

type service struct {
	repo   Repository
	sf     singleflight.Group
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{repo: repo, logger: l, now: time.Now}
}

// SnapshotFor builds a fresh snapshot per request. singleflight only
// collapses concurrent identical loads; nothing is cached across requests.
func (s *service) SnapshotFor(ctx context.Context, tenantID, userID string) (identity.PermissionSnapshot, error) {
	key := tenantID + "|" + userID
	v, err, _ := s.sf.Do(key, func() (any, error) {
		grants, err := s.repo.GetUserGrants(ctx, tenantID, userID)
		if err != nil {
			return nil, err
		}
		return BuildSnapshot(grants, s.now().UTC()), nil
	})
	if err != nil {
		s.logger.Error("snapshot load failed",
			zap.String("tenant_id", tenantID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (s *service) RoleCodesFor(ctx context.Context, tenantID, userID string) ([]string, error) {
	snap, err := s.SnapshotFor(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return snap.(*Snapshot).RoleCodes(), nil
}

func (s *service) ListRoles(ctx context.Context, tenantID string) ([]RoleResponse, error) {
	roles, err := s.repo.ListRoles(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]RoleResponse, len(roles))
	for i, role := range roles {
		resp[i] = mapRoleToResponse(role)
	}
	return resp, nil
}

func (s *service) CreateRole(ctx context.Context, tenantID string, req CreateRoleRequest) (RoleResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return RoleResponse{}, rbacerrors.ErrInvalidRoleID
	}

	role := &Role{
		ID:          uuid.New(),
		TenantID:    tenantUUID,
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Permissions: req.Permissions,
		Priority:    req.Priority,
	}

	if err := s.repo.CreateRole(ctx, role); err != nil {
		if isUniqueViolation(err) {
			return RoleResponse{}, rbacerrors.ErrRoleCodeTaken
		}
		s.logger.Error("create role failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return RoleResponse{}, err
	}
	s.logger.Info("role created",
		zap.String("tenant_id", tenantID),
		zap.String("role_code", role.Code),
	)
	return mapRoleToResponse(*role), nil
}

func (s *service) UpdateRole(ctx context.Context, tenantID, id string, req UpdateRoleRequest) (RoleResponse, error) {
	role, err := s.repo.GetRoleByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleResponse{}, rbacerrors.ErrRoleNotFound
		}
		return RoleResponse{}, err
	}

	if req.Name != "" {
		role.Name = req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Permissions != nil {
		role.Permissions = req.Permissions
	}
	if req.Priority != nil {
		role.Priority = *req.Priority
	}

	if err := s.repo.UpdateRole(ctx, role); err != nil {
		return RoleResponse{}, err
	}
	return mapRoleToResponse(*role), nil
}

func (s *service) DeleteRole(ctx context.Context, tenantID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return rbacerrors.ErrInvalidRoleID
	}
	return s.repo.DeleteRole(ctx, tenantID, id)
}

func (s *service) AssignRole(ctx context.Context, tenantID string, req AssignRoleRequest) (AssignmentResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return AssignmentResponse{}, rbacerrors.ErrInvalidRoleID
	}
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return AssignmentResponse{}, rbacerrors.ErrInvalidUserID
	}
	roleUUID, err := uuid.Parse(req.RoleID)
	if err != nil {
		return AssignmentResponse{}, rbacerrors.ErrInvalidRoleID
	}

	if _, err := s.repo.GetRoleByID(ctx, tenantID, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, rbacerrors.ErrRoleNotFound
		}
		return AssignmentResponse{}, err
	}

	a := &UserRoleAssignment{
		ID:       uuid.New(),
		TenantID: tenantUUID,
		UserID:   userUUID,
		RoleID:   roleUUID,
	}
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		deptUUID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return AssignmentResponse{}, rbacerrors.ErrInvalidRoleID
		}
		a.DepartmentID = &deptUUID
	}

	validFrom, validUntil, err := parseValidityWindow(req.ValidFrom, req.ValidUntil)
	if err != nil {
		return AssignmentResponse{}, err
	}
	a.ValidFrom = validFrom
	a.ValidUntil = validUntil

	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		if isUniqueViolation(err) {
			return AssignmentResponse{}, rbacerrors.ErrAssignmentExists
		}
		return AssignmentResponse{}, err
	}
	s.logger.Info("role assigned",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", req.UserID),
		zap.String("role_id", req.RoleID),
	)
	return mapAssignmentToResponse(*a), nil
}

func (s *service) RevokeAssignment(ctx context.Context, tenantID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return rbacerrors.ErrInvalidRoleID
	}
	return s.repo.DeleteAssignment(ctx, tenantID, id)
}

func (s *service) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = PermissionResponse{
			ID:       p.ID.String(),
			Code:     p.Code,
			Name:     p.Name,
			Module:   p.Module,
			Action:   p.Action,
			IsActive: p.IsActive,
		}
	}
	return resp, nil
}

func (s *service) DeactivatePermission(ctx context.Context, code string) error {
	p, err := s.repo.GetPermissionByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rbacerrors.ErrPermissionNotFound
		}
		return err
	}
	p.IsActive = false
	return s.repo.UpdatePermission(ctx, p)
}

func (s *service) DeletePermission(ctx context.Context, code string) error {
	p, err := s.repo.GetPermissionByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rbacerrors.ErrPermissionNotFound
		}
		return err
	}
	if p.IsSystemPermission {
		return rbacerrors.ErrSystemPermissionImmutable
	}
	return s.repo.DeletePermission(ctx, p.ID.String())
}

func parseValidityWindow(from, until *string) (*time.Time, *time.Time, error) {
	var validFrom, validUntil *time.Time
	if from != nil && *from != "" {
		t, err := time.Parse("2006-01-02", *from)
		if err != nil {
			return nil, nil, rbacerrors.ErrInvalidValidityWindow
		}
		validFrom = &t
	}
	if until != nil && *until != "" {
		t, err := time.Parse("2006-01-02", *until)
		if err != nil {
			return nil, nil, rbacerrors.ErrInvalidValidityWindow
		}
		validUntil = &t
	}
	if validFrom != nil && validUntil != nil && validFrom.After(*validUntil) {
		return nil, nil, rbacerrors.ErrInvalidValidityWindow
	}
	return validFrom, validUntil, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapRoleToResponse(role Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID.String(),
		Name:        role.Name,
		Code:        role.Code,
		Description: role.Description,
		Permissions: role.Permissions,
		Priority:    role.Priority,
	}
}

func mapAssignmentToResponse(a UserRoleAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:     a.ID.String(),
		UserID: a.UserID.String(),
		RoleID: a.RoleID.String(),
	}
	if a.DepartmentID != nil {
		v := a.DepartmentID.String()
		resp.DepartmentID = &v
	}
	if a.ValidFrom != nil {
		v := a.ValidFrom.Format("2006-01-02")
		resp.ValidFrom = &v
	}
	if a.ValidUntil != nil {
		v := a.ValidUntil.Format("2006-01-02")
		resp.ValidUntil = &v
	}
	return resp
}
