package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive     = "ACTIVE"
	StatusInactive   = "INACTIVE"
	StatusOnLeave    = "ON_LEAVE"
	StatusTerminated = "TERMINATED"
	StatusSuspended  = "SUSPENDED"
)

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_employees_tenant"`
	UserID       *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`

	EmployeeCode string `gorm:"type:varchar(50);not null;uniqueIndex"` // TENANT-YYYY-NNNN
	FullName     string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);not null"`
	Gender       string `gorm:"type:varchar(20)"`

	JoiningDate time.Time `gorm:"type:date"`
	Status      string    `gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}

// MonthsEmployed is used for leave type eligibility (applicable_after_months).
func (e *Employee) MonthsEmployed(asOf time.Time) int {
	if e.JoiningDate.IsZero() || asOf.Before(e.JoiningDate) {
		return 0
	}
	years := asOf.Year() - e.JoiningDate.Year()
	months := int(asOf.Month()) - int(e.JoiningDate.Month())
	total := years*12 + months
	if asOf.Day() < e.JoiningDate.Day() {
		total--
	}
	if total < 0 {
		return 0
	}
	return total
}
