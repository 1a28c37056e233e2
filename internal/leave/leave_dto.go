package leave

import "time"

type CreateLeaveTypeRequest struct {
	Name                  string  `json:"name" binding:"required"`
	Code                  string  `json:"code" binding:"required,uppercase"`
	DaysPerYear           float64 `json:"days_per_year" binding:"required,gt=0"`
	IsPaid                bool    `json:"is_paid"`
	CarryForward          bool    `json:"carry_forward"`
	MaxCarryForwardDays   float64 `json:"max_carry_forward_days" binding:"gte=0"`
	MinDaysNotice         int     `json:"min_days_notice" binding:"gte=0"`
	MaxConsecutiveDays    int     `json:"max_consecutive_days" binding:"gte=0"`
	GenderSpecific        string  `json:"gender_specific" binding:"omitempty,oneof=MALE FEMALE"`
	ApplicableAfterMonths int     `json:"applicable_after_months" binding:"gte=0"`
	// Weekends are excluded unless the policy opts back in.
	ExcludeWeekends *bool `json:"exclude_weekends"`
}

type UpdateLeaveTypeRequest struct {
	Name                string   `json:"name"`
	DaysPerYear         *float64 `json:"days_per_year" binding:"omitempty,gt=0"`
	IsPaid              *bool    `json:"is_paid"`
	CarryForward        *bool    `json:"carry_forward"`
	MaxCarryForwardDays *float64 `json:"max_carry_forward_days" binding:"omitempty,gte=0"`
	MinDaysNotice       *int     `json:"min_days_notice" binding:"omitempty,gte=0"`
	MaxConsecutiveDays  *int     `json:"max_consecutive_days" binding:"omitempty,gte=0"`
	ExcludeWeekends     *bool    `json:"exclude_weekends"`
	IsActive            *bool    `json:"is_active"`
}

type CreateLeaveRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

type DecisionRequest struct {
	Reason string `json:"reason"`
}

type LeaveTypeResponse struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Code                  string  `json:"code"`
	DaysPerYear           float64 `json:"days_per_year"`
	IsPaid                bool    `json:"is_paid"`
	CarryForward          bool    `json:"carry_forward"`
	MaxCarryForwardDays   float64 `json:"max_carry_forward_days"`
	MinDaysNotice         int     `json:"min_days_notice"`
	MaxConsecutiveDays    int     `json:"max_consecutive_days"`
	GenderSpecific        string  `json:"gender_specific,omitempty"`
	ApplicableAfterMonths int     `json:"applicable_after_months"`
	ExcludeWeekends       bool    `json:"exclude_weekends"`
	IsActive              bool    `json:"is_active"`
}

type BalanceResponse struct {
	ID            string  `json:"id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	Year          int     `json:"year"`
	TotalDays     float64 `json:"total_days"`
	UsedDays      float64 `json:"used_days"`
	PendingDays   float64 `json:"pending_days"`
	AvailableDays float64 `json:"available_days"`
}

type LeaveRequestResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	LeaveTypeID  string  `json:"leave_type_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Days         float64 `json:"days"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	RejectReason *string `json:"reject_reason,omitempty"`
	CancelReason *string `json:"cancel_reason,omitempty"`
	DecidedBy    *string `json:"decided_by,omitempty"`
	DecidedAt    *string `json:"decided_at,omitempty"`
}

func mapTypeToResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                    t.ID.String(),
		Name:                  t.Name,
		Code:                  t.Code,
		DaysPerYear:           t.DaysPerYear,
		IsPaid:                t.IsPaid,
		CarryForward:          t.CarryForward,
		MaxCarryForwardDays:   t.MaxCarryForwardDays,
		MinDaysNotice:         t.MinDaysNotice,
		MaxConsecutiveDays:    t.MaxConsecutiveDays,
		GenderSpecific:        t.GenderSpecific,
		ApplicableAfterMonths: t.ApplicableAfterMonths,
		ExcludeWeekends:       t.ExcludeWeekends,
		IsActive:              t.IsActive,
	}
}

func mapBalanceToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:            b.ID.String(),
		LeaveTypeID:   b.LeaveTypeID.String(),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		PendingDays:   b.PendingDays,
		AvailableDays: b.AvailableDays(),
	}
}

func mapRequestToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:           r.ID.String(),
		EmployeeID:   r.EmployeeID.String(),
		LeaveTypeID:  r.LeaveTypeID.String(),
		StartDate:    r.StartDate.Format("2006-01-02"),
		EndDate:      r.EndDate.Format("2006-01-02"),
		Days:         r.Days,
		Reason:       r.Reason,
		Status:       r.Status,
		RejectReason: r.RejectReason,
		CancelReason: r.CancelReason,
	}
	if r.DecidedBy != nil {
		v := r.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if r.DecidedAt != nil {
		v := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}
