package attendance

import (
	"math"
	"time"
)

// DayFacts are the stored facts a day's status derives from. Status is
// never authoritative on its own: it is recomputed from these on every
// write and on read paths.
type DayFacts struct {
	IsHoliday       bool
	IsWeekend       bool
	OnApprovedLeave bool
	CheckInAt       *time.Time
	CheckedOut      bool
	WorkHours       float64
}

// DeriveStatus is a pure function; priority order, first match wins:
// HOLIDAY > WEEKEND > ON_LEAVE > ABSENT > LATE > HALF_DAY > PRESENT.
func DeriveStatus(policy *AttendancePolicy, facts DayFacts) string {
	switch {
	case facts.IsHoliday:
		return StatusHoliday
	case facts.IsWeekend:
		return StatusWeekend
	case facts.OnApprovedLeave:
		return StatusOnLeave
	case facts.CheckInAt == nil:
		return StatusAbsent
	}

	if isLate(policy, *facts.CheckInAt) {
		return StatusLate
	}
	if facts.CheckedOut && facts.WorkHours < policy.HalfDayHours {
		return StatusHalfDay
	}
	return StatusPresent
}

// isLate compares the time-of-day component only: the grace period is a
// daily policy, so the date part of the check-in is irrelevant.
func isLate(policy *AttendancePolicy, checkIn time.Time) bool {
	standard, err := minutesOfDay(policy.StandardCheckIn)
	if err != nil {
		return false
	}
	actual := checkIn.Hour()*60 + checkIn.Minute()
	return actual > standard+policy.GraceMinutes
}

func minutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// HoursBetween returns the span in hours rounded to 2 decimal places.
func HoursBetween(from, to time.Time) float64 {
	return round2(to.Sub(from).Hours())
}

// OvertimeFor is zero unless the policy allows overtime.
func OvertimeFor(policy *AttendancePolicy, workHours float64) float64 {
	if !policy.AllowOvertime {
		return 0
	}
	return round2(math.Max(0, workHours-policy.WorkHoursPerDay))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
