package attendance

import "time"

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes"`
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes"`
}

type PolicyRequest struct {
	Name             string  `json:"name" binding:"required"`
	IsDefault        bool    `json:"is_default"`
	StandardCheckIn  string  `json:"standard_check_in" binding:"required"`
	StandardCheckOut string  `json:"standard_check_out" binding:"required"`
	GraceMinutes     int     `json:"grace_minutes" binding:"gte=0"`
	WorkHoursPerDay  float64 `json:"work_hours_per_day" binding:"gt=0"`
	HalfDayHours     float64 `json:"half_day_hours" binding:"gte=0"`
	AllowOvertime    bool    `json:"allow_overtime"`
	WeekendDays      []int   `json:"weekend_days" binding:"omitempty,dive,gte=0,lte=6"`
}

type HolidayRequest struct {
	Date string `json:"date" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type AttendanceResponse struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	Date          string   `json:"date"`
	CheckInAt     string   `json:"check_in_at"`
	CheckOutAt    *string  `json:"check_out_at,omitempty"`
	WorkHours     float64  `json:"work_hours"`
	OvertimeHours float64  `json:"overtime_hours"`
	Status        string   `json:"status"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

type PolicyResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	IsDefault        bool    `json:"is_default"`
	StandardCheckIn  string  `json:"standard_check_in"`
	StandardCheckOut string  `json:"standard_check_out"`
	GraceMinutes     int     `json:"grace_minutes"`
	WorkHoursPerDay  float64 `json:"work_hours_per_day"`
	HalfDayHours     float64 `json:"half_day_hours"`
	AllowOvertime    bool    `json:"allow_overtime"`
	WeekendDays      []int   `json:"weekend_days"`
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

func mapRecordToResponse(a AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:            a.ID.String(),
		EmployeeID:    a.EmployeeID.String(),
		Date:          a.Date.Format("2006-01-02"),
		CheckInAt:     a.CheckInAt.Format(time.RFC3339),
		WorkHours:     a.WorkHours,
		OvertimeHours: a.OvertimeHours,
		Status:        a.Status,
		Latitude:      a.Latitude,
		Longitude:     a.Longitude,
		Notes:         a.Notes,
	}
	if a.CheckOutAt != nil {
		v := a.CheckOutAt.Format(time.RFC3339)
		resp.CheckOutAt = &v
	}
	return resp
}

func mapPolicyToResponse(p AttendancePolicy) PolicyResponse {
	return PolicyResponse{
		ID:               p.ID.String(),
		Name:             p.Name,
		IsDefault:        p.IsDefault,
		StandardCheckIn:  p.StandardCheckIn,
		StandardCheckOut: p.StandardCheckOut,
		GraceMinutes:     p.GraceMinutes,
		WorkHoursPerDay:  p.WorkHoursPerDay,
		HalfDayHours:     p.HalfDayHours,
		AllowOvertime:    p.AllowOvertime,
		WeekendDays:      p.WeekendDays,
	}
}

func mapHolidayToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID.String(),
		Date: h.Date.Format("2006-01-02"),
		Name: h.Name,
	}
}
