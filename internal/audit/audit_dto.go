package audit

import "time"

type LoginAuditResponse struct {
	ID            string    `json:"id"`
	TenantID      *string   `json:"tenant_id,omitempty"`
	UserID        *string   `json:"user_id,omitempty"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	IPAddress     string    `json:"ip_address"`
	UserAgent     string    `json:"user_agent"`
	FailureReason *string   `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func mapAuditToResponse(a *LoginAudit) LoginAuditResponse {
	resp := LoginAuditResponse{
		ID:            a.ID.String(),
		Email:         a.Email,
		Status:        a.Status,
		IPAddress:     a.IPAddress,
		UserAgent:     a.UserAgent,
		FailureReason: a.FailureReason,
		CreatedAt:     a.CreatedAt,
	}
	if a.TenantID != nil {
		v := a.TenantID.String()
		resp.TenantID = &v
	}
	if a.UserID != nil {
		v := a.UserID.String()
		resp.UserID = &v
	}
	return resp
}
