package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/WEBX2024/HRMS/internal/leave"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountLeaveDays(t *testing.T) {
	t.Run("inclusive of both endpoints", func(t *testing.T) {
		// Mon 2026-03-09 .. Fri 2026-03-13
		assert.Equal(t, 5.0, leave.CountLeaveDays(day(2026, 3, 9), day(2026, 3, 13), false))
	})

	t.Run("single day", func(t *testing.T) {
		assert.Equal(t, 1.0, leave.CountLeaveDays(day(2026, 3, 9), day(2026, 3, 9), false))
	})

	t.Run("weekend exclusion skips saturday and sunday", func(t *testing.T) {
		// Mon 2026-03-09 .. Sun 2026-03-15 spans one weekend.
		assert.Equal(t, 7.0, leave.CountLeaveDays(day(2026, 3, 9), day(2026, 3, 15), false))
		assert.Equal(t, 5.0, leave.CountLeaveDays(day(2026, 3, 9), day(2026, 3, 15), true))
	})

	t.Run("weekend-only range with exclusion is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, leave.CountLeaveDays(day(2026, 3, 14), day(2026, 3, 15), true))
	})

	t.Run("inverted range is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, leave.CountLeaveDays(day(2026, 3, 13), day(2026, 3, 9), false))
	})
}

func TestFinancialYear(t *testing.T) {
	assert.Equal(t, 2026, leave.FinancialYear(day(2026, 4, 1)))
	assert.Equal(t, 2026, leave.FinancialYear(day(2026, 12, 31)))
	assert.Equal(t, 2025, leave.FinancialYear(day(2026, 1, 1)))
	assert.Equal(t, 2025, leave.FinancialYear(day(2026, 2, 10)))
	assert.Equal(t, 2025, leave.FinancialYear(day(2026, 3, 31)))
}

func TestLeaveBalanceInvariant(t *testing.T) {
	b := leave.LeaveBalance{TotalDays: 12, UsedDays: 4, PendingDays: 3}
	assert.Equal(t, 5.0, b.AvailableDays())
	assert.True(t, b.CheckInvariant())

	b.PendingDays = 9
	assert.False(t, b.CheckInvariant())

	b.PendingDays = -1
	assert.False(t, b.CheckInvariant())
}

func TestLeaveRequestTransitions(t *testing.T) {
	pending := leave.LeaveRequest{Status: leave.StatusPending}
	assert.True(t, pending.CanTransition(leave.StatusApproved))
	assert.True(t, pending.CanTransition(leave.StatusRejected))
	assert.True(t, pending.CanTransition(leave.StatusCancelled))

	approved := leave.LeaveRequest{Status: leave.StatusApproved}
	assert.True(t, approved.CanTransition(leave.StatusCancelled))
	assert.False(t, approved.CanTransition(leave.StatusRejected))
	assert.False(t, approved.CanTransition(leave.StatusPending))

	rejected := leave.LeaveRequest{Status: leave.StatusRejected}
	assert.False(t, rejected.CanTransition(leave.StatusCancelled))
	assert.True(t, rejected.IsTerminal())
}
