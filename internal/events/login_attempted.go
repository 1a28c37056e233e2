package events

import "time"

const LoginAttemptedTopic = "hr.auth.login.v1"

type LoginAttemptedEvent struct {
	EventType  string    `json:"event_type"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	TenantID   string    `json:"tenant_id,omitempty"`
	IPAddress  string    `json:"ip_address"`
	OccurredAt time.Time `json:"occurred_at"`
}
