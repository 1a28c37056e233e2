package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserStatusActive    = "ACTIVE"
	UserStatusInvited   = "INVITED"
	UserStatusSuspended = "SUSPENDED"
	UserStatusInactive  = "INACTIVE"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	// TenantID is nil only for super admins, who exist outside any tenant.
	TenantID   *uuid.UUID `gorm:"type:uuid;index"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index"`

	Email    string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(150);not null"`
	Password string `gorm:"type:varchar(255);not null"`

	IsSuperAdmin bool   `gorm:"not null;default:false"`
	Status       string `gorm:"type:varchar(20);not null;default:'INVITED'"`

	LastLoginAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
