package audit

import (
	"time"

	"github.com/google/uuid"
)

// Login attempt outcomes. The precise internal status is recorded here;
// the login response itself stays uniform.
const (
	StatusSuccess        = "SUCCESS"
	StatusBadPassword    = "FAILED_PASSWORD"
	StatusUnknownUser    = "FAILED_USER_NOT_FOUND"
	StatusInactiveUser   = "FAILED_INACTIVE_USER"
	StatusInactiveTenant = "FAILED_INACTIVE_TENANT"
)

// LoginAudit is append-only; rows are never updated or deleted.
type LoginAudit struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID *uuid.UUID `gorm:"type:uuid;index"`
	UserID   *uuid.UUID `gorm:"type:uuid;index"`

	Email  string `gorm:"type:varchar(255);not null;index"`
	Status string `gorm:"type:varchar(40);not null"`

	IPAddress     string  `gorm:"type:varchar(45)"`
	UserAgent     string  `gorm:"type:text"`
	FailureReason *string `gorm:"type:text"`
	DeviceInfo    []byte  `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"index"`
}

func (LoginAudit) TableName() string {
	return "login_audits"
}
