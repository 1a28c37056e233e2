package identity

import "time"

// Claims is the validated credential payload handed over by the token
// layer. Validation (signature, expiry) happens before this point; the
// resolver only interprets the claims.
type Claims struct {
	UserID       string
	EmployeeID   string
	TenantID     string // empty allowed only for super admins
	RoleCodes    []string
	IsSuperAdmin bool
	ExpiresAt    time.Time
}
