package authtoken

import (
	"time"

	"github.com/google/uuid"
)

// One state machine covers both token kinds; only TTL differs.
const (
	KindInvitation    = "INVITATION"
	KindPasswordReset = "PASSWORD_RESET"
)

const (
	StatusCreated  = "CREATED"
	StatusSent     = "SENT"
	StatusAccepted = "ACCEPTED"
	StatusExpired  = "EXPIRED"
	StatusRevoked  = "REVOKED"
)

// TTLForKind returns the issue-time validity window per kind.
func TTLForKind(kind string) time.Duration {
	switch kind {
	case KindInvitation:
		return 7 * 24 * time.Hour
	case KindPasswordReset:
		return time.Hour
	default:
		return 0
	}
}

type Token struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index"`

	Email string `gorm:"type:varchar(255);not null;index"` // Denormalized for validation
	Kind  string `gorm:"type:varchar(30);not null"`
	Token string `gorm:"type:varchar(255);not null;uniqueIndex"`

	Status    string    `gorm:"type:varchar(20);not null;default:'CREATED';index"`
	ExpiresAt time.Time `gorm:"not null;index"`

	SentAt     *time.Time
	AcceptedAt *time.Time
	RevokedAt  *time.Time

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	RevokedBy *uuid.UUID `gorm:"type:uuid"`

	IPAddress string `gorm:"type:varchar(45)"`
	UserAgent string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Token) TableName() string {
	return "auth_tokens"
}

// IsTerminal reports whether the token reached a final state. Terminal
// tokens can never be validated or consumed again.
func (t *Token) IsTerminal() bool {
	switch t.Status {
	case StatusAccepted, StatusExpired, StatusRevoked:
		return true
	}
	return false
}

// IsExpiredAt checks the time bound directly; the EXPIRED status flag is
// not required to have been set by a sweep.
func (t *Token) IsExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
