package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusHalfDay = "HALF_DAY"
	StatusAbsent  = "ABSENT"
	StatusOnLeave = "ON_LEAVE"
	StatusWeekend = "WEEKEND"
	StatusHoliday = "HOLIDAY"
)

// AttendancePolicy is tenant-level configuration. At most one policy per
// tenant carries IsDefault; enforced at write time, not by the schema.
type AttendancePolicy struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(100);not null"`

	IsDefault bool `gorm:"not null;default:false"`

	// Times of day in "15:04" form. Lateness compares time-of-day only.
	StandardCheckIn  string `gorm:"type:varchar(5);not null;default:'09:00'"`
	StandardCheckOut string `gorm:"type:varchar(5);not null;default:'17:00'"`
	GraceMinutes     int    `gorm:"not null;default:15"`

	WorkHoursPerDay float64 `gorm:"not null;default:8"`
	HalfDayHours    float64 `gorm:"not null;default:4"`
	AllowOvertime   bool    `gorm:"not null;default:false"`

	// Weekday numbers, time.Sunday = 0.
	WeekendDays []int `gorm:"serializer:json;type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AttendancePolicy) TableName() string {
	return "attendance_policies"
}

// IsWeekend reports whether the date's weekday is in the policy's weekend
// set. An empty set means Saturday and Sunday.
func (p *AttendancePolicy) IsWeekend(date time.Time) bool {
	if len(p.WeekendDays) == 0 {
		wd := date.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	}
	wd := int(date.Weekday())
	for _, d := range p.WeekendDays {
		if d == wd {
			return true
		}
	}
	return false
}

type AttendanceRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_employee_date"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_employee_date"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date"`

	CheckInAt  time.Time  `gorm:"type:timestamptz;not null"`
	CheckOutAt *time.Time `gorm:"type:timestamptz"`

	WorkHours     float64 `gorm:"not null;default:0"`
	OvertimeHours float64 `gorm:"not null;default:0"`
	Status        string  `gorm:"type:varchar(20);not null;default:'PRESENT'"`

	Latitude  *float64
	Longitude *float64
	Notes     *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// IsOpen reports a check-in without a matching check-out.
func (a *AttendanceRecord) IsOpen() bool {
	return a.CheckOutAt == nil
}

type Holiday struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_holiday_tenant_date"`
	Date     time.Time `gorm:"type:date;not null;uniqueIndex:idx_holiday_tenant_date"`
	Name     string    `gorm:"type:varchar(150);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Holiday) TableName() string {
	return "holidays"
}
