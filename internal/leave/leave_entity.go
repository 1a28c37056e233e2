package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	GenderAny    = ""
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// LeaveType is a tenant-scoped leave policy.
type LeaveType struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_leave_types_tenant_code"`
	Name     string    `gorm:"type:varchar(100);not null"`
	Code     string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_leave_types_tenant_code"`

	DaysPerYear float64 `gorm:"not null"`
	IsPaid      bool    `gorm:"not null;default:true"`

	CarryForward        bool    `gorm:"not null;default:false"`
	MaxCarryForwardDays float64 `gorm:"not null;default:0"`

	MinDaysNotice         int    `gorm:"not null;default:0"`
	MaxConsecutiveDays    int    `gorm:"not null;default:0"` // 0 = unlimited
	GenderSpecific        string `gorm:"type:varchar(10);not null;default:''"`
	ApplicableAfterMonths int    `gorm:"not null;default:0"`

	// ExcludeWeekends controls whether Saturdays and Sundays count
	// against the balance for this type.
	ExcludeWeekends bool `gorm:"not null;default:true"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}

// LeaveBalance is the accounting row for one employee, leave type, and
// financial year (April through March, keyed by the April-side calendar
// year). Invariant at rest: TotalDays - UsedDays - PendingDays >= 0, and
// no field goes negative.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_leave_balances_key"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_leave_balances_key"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_leave_balances_key"`
	Year        int       `gorm:"not null;uniqueIndex:idx_leave_balances_key"`

	TotalDays   float64 `gorm:"not null;default:0"`
	UsedDays    float64 `gorm:"not null;default:0"`
	PendingDays float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b *LeaveBalance) AvailableDays() float64 {
	return b.TotalDays - b.UsedDays - b.PendingDays
}

// CheckInvariant validates the ledger after a mutation, before commit.
func (b *LeaveBalance) CheckInvariant() bool {
	return b.TotalDays >= 0 && b.UsedDays >= 0 && b.PendingDays >= 0 &&
		b.AvailableDays() >= 0
}

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Days      float64   `gorm:"not null"`

	Reason string `gorm:"type:text;not null"`
	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	RejectReason *string `gorm:"type:text"`
	CancelReason *string `gorm:"type:text"`

	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (r *LeaveRequest) IsTerminal() bool {
	return r.Status != StatusPending && r.Status != StatusApproved
}

// CanTransition encodes the request state machine. APPROVED -> CANCELLED
// is deliberately allowed, with a different balance effect than cancelling
// a pending request.
func (r *LeaveRequest) CanTransition(to string) bool {
	switch r.Status {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusCancelled
	case StatusApproved:
		return to == StatusCancelled
	}
	return false
}
