package leave

import "time"

// CountLeaveDays counts the days in [start, end], both endpoints
// inclusive, optionally skipping Saturdays and Sundays. Request creation
// and balance deduction both call this, so the stored days and the ledger
// movement can never disagree.
func CountLeaveDays(start, end time.Time, excludeWeekends bool) float64 {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if excludeWeekends {
			wd := d.Weekday()
			if wd == time.Saturday || wd == time.Sunday {
				continue
			}
		}
		days++
	}
	return float64(days)
}

// FinancialYear maps a date to its accounting year. The year runs
// April 1 through March 31 and is keyed by the calendar year it starts
// in, so 2026-02-10 belongs to financial year 2025.
func FinancialYear(t time.Time) int {
	if t.Month() < time.April {
		return t.Year() - 1
	}
	return t.Year()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
