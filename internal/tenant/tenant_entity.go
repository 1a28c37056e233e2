package tenant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanFree         = "FREE"
	PlanBasic        = "BASIC"
	PlanProfessional = "PROFESSIONAL"
	PlanEnterprise   = "ENTERPRISE"
)

// planLimits maps subscription plan to (max employees, max storage MB).
// -1 means unlimited.
var planLimits = map[string][2]int{
	PlanFree:         {10, 100},
	PlanBasic:        {50, 1000},
	PlanProfessional: {200, 5000},
	PlanEnterprise:   {-1, -1},
}

type Tenant struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(255);not null"`
	Code string    `gorm:"type:varchar(50);uniqueIndex;not null"` // Used in employee codes

	Email string `gorm:"type:varchar(255);not null"`
	Phone string `gorm:"type:varchar(20)"`

	SubscriptionPlan string `gorm:"type:varchar(50);not null;default:'FREE'"`
	MaxEmployees     int    `gorm:"not null;default:10"`
	MaxStorageMB     int    `gorm:"not null;default:100"`

	IsActive bool           `gorm:"not null;default:true;index"`
	Settings map[string]any `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// ApplyPlan updates quota columns from the plan table.
func (t *Tenant) ApplyPlan(plan string) {
	limits, ok := planLimits[plan]
	if !ok {
		return
	}
	t.SubscriptionPlan = plan
	t.MaxEmployees = limits[0]
	t.MaxStorageMB = limits[1]
}
