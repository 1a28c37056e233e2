package rbac

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleSuperAdmin   = "SUPER_ADMIN"
	RoleCompanyAdmin = "COMPANY_ADMIN"
	RoleHRAdmin      = "HR_ADMIN"
	RoleManager      = "MANAGER"
	RoleEmployee     = "EMPLOYEE"
)

// Role bundles permission codes per tenant. (tenant, code) is unique;
// priority orders roles when an actor holds several (higher = more senior).
type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_roles_tenant_code"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Code        string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_roles_tenant_code"`
	Description string    `gorm:"type:text"`
	Permissions []string  `gorm:"type:jsonb;serializer:json"`
	Priority    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Role) TableName() string {
	return "roles"
}

// UserRoleAssignment links a user to a role, optionally scoped to one
// department and optionally bounded by a validity window.
type UserRoleAssignment struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_unique"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_unique"`
	RoleID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_unique"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	ValidFrom    *time.Time `gorm:"type:date"`
	ValidUntil   *time.Time `gorm:"type:date"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (UserRoleAssignment) TableName() string {
	return "user_roles"
}

// IsValidOn reports whether the assignment is effective on the given day.
// An absent bound means unbounded on that side.
func (a *UserRoleAssignment) IsValidOn(day time.Time) bool {
	day = day.Truncate(24 * time.Hour)
	if a.ValidFrom != nil && day.Before(a.ValidFrom.Truncate(24*time.Hour)) {
		return false
	}
	if a.ValidUntil != nil && day.After(a.ValidUntil.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// Permission is a global catalog entry, code "module.action". System
// permissions cannot be deleted, only deactivated.
type Permission struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code               string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name               string    `gorm:"type:varchar(100);not null"`
	Module             string    `gorm:"type:varchar(50);not null;index"`
	Action             string    `gorm:"type:varchar(50);not null"`
	IsSystemPermission bool      `gorm:"not null;default:true"`
	IsActive           bool      `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Permission) TableName() string {
	return "permissions"
}
