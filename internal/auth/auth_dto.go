package auth

import "time"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type InviteUserRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Name       string  `json:"name" binding:"required"`
	EmployeeID *string `json:"employee_id,omitempty" binding:"omitempty,uuid"`
}

type AcceptInvitationRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ConfirmResetRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	ID           string   `json:"id"`
	TenantID     *string  `json:"tenant_id,omitempty"`
	EmployeeID   *string  `json:"employee_id,omitempty"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	IsSuperAdmin bool     `json:"is_super_admin"`
	Roles        []string `json:"roles,omitempty"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         AuthResponse `json:"user"`
}

type InvitationResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`

	// Token is returned once; the dispatch channel owns it afterwards.
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
