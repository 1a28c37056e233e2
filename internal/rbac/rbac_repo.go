package rbac

import (
	"context"
	"encoding/json"
	"time"

	"github.com/WEBX2024/HRMS/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	// GetUserGrants loads role assignments joined with role definitions for
	// one user. Validity filtering happens in the snapshot builder.
	GetUserGrants(ctx context.Context, tenantID, userID string) ([]Grant, error)

	// Role management
	ListRoles(ctx context.Context, tenantID string) ([]Role, error)
	GetRoleByID(ctx context.Context, tenantID, id string) (*Role, error)
	GetRoleByCode(ctx context.Context, tenantID, code string) (*Role, error)
	CreateRole(ctx context.Context, role *Role) error
	UpdateRole(ctx context.Context, role *Role) error
	DeleteRole(ctx context.Context, tenantID, id string) error

	// Assignments
	ListAssignments(ctx context.Context, tenantID, userID string) ([]UserRoleAssignment, error)
	CreateAssignment(ctx context.Context, a *UserRoleAssignment) error
	DeleteAssignment(ctx context.Context, tenantID, id string) error

	// Permission catalog (global, not tenant-scoped)
	ListPermissions(ctx context.Context) ([]Permission, error)
	GetPermissionByCode(ctx context.Context, code string) (*Permission, error)
	UpdatePermission(ctx context.Context, p *Permission) error
	DeletePermission(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type grantRow struct {
	RoleCode     string
	Priority     int
	Permissions  []byte
	DepartmentID *uuid.UUID
	ValidFrom    *time.Time
	ValidUntil   *time.Time
}

func (r *repository) GetUserGrants(ctx context.Context, tenantID, userID string) ([]Grant, error) {
	var rows []grantRow

	err := r.db.WithContext(ctx).
		Table("user_roles").
		Select(`roles.code AS role_code,
			roles.priority,
			roles.permissions,
			user_roles.department_id,
			user_roles.valid_from,
			user_roles.valid_until`).
		Joins("JOIN roles ON roles.id = user_roles.role_id AND roles.deleted_at IS NULL").
		Where("user_roles.tenant_id = ?", tenantID).
		Where("user_roles.user_id = ?", userID).
		Where("user_roles.deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	grants := make([]Grant, 0, len(rows))
	for _, row := range rows {
		g := Grant{
			RoleCode:     row.RoleCode,
			Priority:     row.Priority,
			DepartmentID: row.DepartmentID,
			ValidFrom:    row.ValidFrom,
			ValidUntil:   row.ValidUntil,
		}
		if len(row.Permissions) > 0 {
			if err := json.Unmarshal(row.Permissions, &g.Permissions); err != nil {
				return nil, err
			}
		}
		grants = append(grants, g)
	}
	return grants, nil
}

func (r *repository) ListRoles(ctx context.Context, tenantID string) ([]Role, error) {
	var roles []Role
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("priority DESC, name").
		Find(&roles).Error
	return roles, err
}

func (r *repository) GetRoleByID(ctx context.Context, tenantID, id string) (*Role, error) {
	var role Role
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&role, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repository) GetRoleByCode(ctx context.Context, tenantID, code string) (*Role, error) {
	var role Role
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&role, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repository) CreateRole(ctx context.Context, role *Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *repository) UpdateRole(ctx context.Context, role *Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *repository) DeleteRole(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&Role{}, "id = ?", id).Error
}

func (r *repository) ListAssignments(ctx context.Context, tenantID, userID string) ([]UserRoleAssignment, error) {
	var assignments []UserRoleAssignment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("user_id = ?", userID).
		Find(&assignments).Error
	return assignments, err
}

func (r *repository) CreateAssignment(ctx context.Context, a *UserRoleAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) DeleteAssignment(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&UserRoleAssignment{}, "id = ?", id).Error
}

func (r *repository) ListPermissions(ctx context.Context) ([]Permission, error) {
	var perms []Permission
	err := r.db.WithContext(ctx).
		Order("module, action").
		Find(&perms).Error
	return perms, err
}

func (r *repository) GetPermissionByCode(ctx context.Context, code string) (*Permission, error) {
	var p Permission
	err := r.db.WithContext(ctx).First(&p, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdatePermission(ctx context.Context, p *Permission) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) DeletePermission(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Permission{}, "id = ?", id).Error
}
