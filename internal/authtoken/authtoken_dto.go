package authtoken

import (
	"time"

	"github.com/google/uuid"
)

type IssueRequest struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Email     string
	Kind      string
	CreatedBy *uuid.UUID
	IPAddress string
	UserAgent string
}

type TokenResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Kind      string     `json:"kind"`
	Status    string     `json:"status"`
	ExpiresAt time.Time  `json:"expires_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	// Token carries the raw value only in the Issue response.
	Token string `json:"token,omitempty"`
}

func mapTokenToResponse(t Token) TokenResponse {
	return TokenResponse{
		ID:        t.ID.String(),
		Email:     t.Email,
		Kind:      t.Kind,
		Status:    t.Status,
		ExpiresAt: t.ExpiresAt,
		SentAt:    t.SentAt,
		CreatedAt: t.CreatedAt,
	}
}
