package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/audit"
	autherrors "github.com/WEBX2024/HRMS/internal/auth/errors"
	"github.com/WEBX2024/HRMS/internal/authtoken"
	authtokenerrors "github.com/WEBX2024/HRMS/internal/authtoken/errors"
	"github.com/WEBX2024/HRMS/internal/employee"
	employeeerrors "github.com/WEBX2024/HRMS/internal/employee/errors"
	"github.com/WEBX2024/HRMS/internal/shared/apperror"
	"github.com/WEBX2024/HRMS/internal/tenant"
	tenanterrors "github.com/WEBX2024/HRMS/internal/tenant/errors"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	minPasswordLen  = 8
)

// RequestMeta carries transport facts handlers pass down for auditing.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// RoleDirectory supplies the role codes embedded in issued credentials.
// Implemented by the rbac service.
type RoleDirectory interface {
	RoleCodesFor(ctx context.Context, tenantID, userID string) ([]string, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string, meta RequestMeta) (TokenPair, AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)

	InviteUser(ctx context.Context, tenantID string, invitedBy uuid.UUID, req InviteUserRequest, meta RequestMeta) (InvitationResponse, error)
	AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (AuthResponse, error)

	// RequestPasswordReset answers identically whether or not the email is
	// registered.
	RequestPasswordReset(ctx context.Context, email string, meta RequestMeta) error
	ConfirmPasswordReset(ctx context.Context, req ConfirmResetRequest) error
}

type service struct {
	db        *gorm.DB
	repo      Repository
	tenants   tenant.Repository
	employees employee.Repository
	roles     RoleDirectory
	tokens    authtoken.Service
	auditor   audit.Service
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	db *gorm.DB,
	repo Repository,
	tenants tenant.Repository,
	employees employee.Repository,
	roles RoleDirectory,
	tokens authtoken.Service,
	auditor audit.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		tenants:   tenants,
		employees: employees,
		roles:     roles,
		tokens:    tokens,
		auditor:   auditor,
		logger:    l,
		now:       time.Now,
	}
}

// Login audits every attempt with its precise internal status while the
// caller only ever sees a uniform invalid-credentials error.
func (s *service) Login(ctx context.Context, email, password string, meta RequestMeta) (TokenPair, AuthResponse, error) {
	attempt := audit.Attempt{
		Email:     email,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		attempt.Status = audit.StatusUnknownUser
		s.auditor.LogAttempt(ctx, attempt)
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	attempt.UserID = &user.ID
	attempt.TenantID = user.TenantID

	if !user.IsActive() {
		attempt.Status = audit.StatusInactiveUser
		attempt.FailureReason = "user status " + user.Status
		s.auditor.LogAttempt(ctx, attempt)
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsSuperAdmin {
		if user.TenantID == nil {
			attempt.Status = audit.StatusInactiveTenant
			s.auditor.LogAttempt(ctx, attempt)
			return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		if _, err := s.tenants.FindActiveByID(ctx, user.TenantID.String()); err != nil {
			attempt.Status = audit.StatusInactiveTenant
			s.auditor.LogAttempt(ctx, attempt)
			return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		attempt.Status = audit.StatusBadPassword
		s.auditor.LogAttempt(ctx, attempt)
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	pair, resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	_ = s.repo.MarkLastLogin(ctx, user.ID, s.now().UTC())

	attempt.Status = audit.StatusSuccess
	s.auditor.LogAttempt(ctx, attempt)
	s.logger.Info("login succeeded", zap.String("user_id", user.ID.String()))
	return pair, resp, nil
}

func (s *service) issueTokens(ctx context.Context, user *User) (TokenPair, AuthResponse, error) {
	// Accounts created before their employee record was linked still get
	// an employee_id claim when a record points back at them.
	if user.EmployeeID == nil && !user.IsSuperAdmin && user.TenantID != nil && s.employees != nil {
		if e, err := s.employees.FindByUserID(ctx, user.TenantID.String(), user.ID.String()); err == nil {
			user.EmployeeID = &e.ID
		}
	}

	var roleCodes []string
	if !user.IsSuperAdmin && user.TenantID != nil && s.roles != nil {
		codes, err := s.roles.RoleCodesFor(ctx, user.TenantID.String(), user.ID.String())
		if err != nil {
			return TokenPair{}, AuthResponse{}, err
		}
		roleCodes = codes
	}

	access, err := s.signToken(user, roleCodes, accessTokenTTL)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrTokenGeneration
	}
	refresh, err := s.signToken(user, roleCodes, refreshTokenTTL)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrTokenGeneration
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, mapUserToResponse(user, roleCodes), nil
}

func (s *service) signToken(user *User, roleCodes []string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":        user.ID.String(),
		"is_super_admin": user.IsSuperAdmin,
		"exp":            s.now().Add(ttl).Unix(),
	}
	if user.TenantID != nil {
		claims["tenant_id"] = user.TenantID.String()
	}
	if user.EmployeeID != nil {
		claims["employee_id"] = user.EmployeeID.String()
	}
	if len(roleCodes) > 0 {
		claims["roles"] = roleCodes
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidRefreshToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	userIDStr, ok := mapClaims["user_id"].(string)
	if !ok {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil || !user.IsActive() {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperror.InvalidField("user_id")
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, err
	}

	var roleCodes []string
	if !user.IsSuperAdmin && user.TenantID != nil && s.roles != nil {
		roleCodes, _ = s.roles.RoleCodesFor(ctx, user.TenantID.String(), user.ID.String())
	}
	resp := mapUserToResponse(user, roleCodes)
	return &resp, nil
}

// InviteUser creates a placeholder account and issues a 7-day invitation
// token. The subscription's employee limit is checked before anything is
// written. Invites without an existing employee record create one, with
// its code drawn from the tenant counter.
func (s *service) InviteUser(ctx context.Context, tenantID string, invitedBy uuid.UUID, req InviteUserRequest, meta RequestMeta) (InvitationResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return InvitationResponse{}, apperror.InvalidField("tenant_id")
	}

	t, err := s.tenants.FindActiveByID(ctx, tenantID)
	if err != nil {
		return InvitationResponse{}, tenanterrors.ErrTenantNotFound
	}
	count, err := s.tenants.CountEmployees(ctx, tenantID)
	if err != nil {
		return InvitationResponse{}, err
	}
	if t.MaxEmployees > 0 && count >= int64(t.MaxEmployees) {
		return InvitationResponse{}, tenanterrors.ErrEmployeeLimitReached
	}

	user := &User{
		ID:       uuid.New(),
		TenantID: &tenantUUID,
		Email:    req.Email,
		Name:     req.Name,
		Password: "",
		Status:   UserStatusInvited,
	}
	if req.EmployeeID != nil {
		eid, err := uuid.Parse(*req.EmployeeID)
		if err != nil {
			return InvitationResponse{}, apperror.InvalidField("employee_id")
		}
		ok, err := s.employees.BelongsToTenant(ctx, tenantID, eid.String())
		if err != nil {
			return InvitationResponse{}, err
		}
		if !ok {
			return InvitationResponse{}, employeeerrors.ErrEmployeeNotInTenant
		}
		user.EmployeeID = &eid
	} else {
		now := s.now().UTC()
		emp := &employee.Employee{
			ID:          uuid.New(),
			TenantID:    tenantUUID,
			FullName:    req.Name,
			Email:       req.Email,
			JoiningDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
			Status:      employee.StatusActive,
		}
		if err := s.employees.Create(ctx, emp); err != nil {
			return InvitationResponse{}, err
		}
		user.EmployeeID = &emp.ID
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return InvitationResponse{}, autherrors.ErrEmailTaken
	}

	tokenResp, err := s.tokens.Issue(ctx, authtoken.IssueRequest{
		TenantID:  tenantUUID,
		UserID:    user.ID,
		Email:     req.Email,
		Kind:      authtoken.KindInvitation,
		CreatedBy: &invitedBy,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	if err != nil {
		return InvitationResponse{}, err
	}

	// Delivery is out of band; mark the token handed off.
	if err := s.tokens.MarkSent(ctx, tokenResp.ID); err != nil {
		s.logger.Warn("mark invitation sent failed", zap.String("token_id", tokenResp.ID), zap.Error(err))
	}

	s.logger.Info("user invited",
		zap.String("tenant_id", tenantID),
		zap.String("email", req.Email),
	)
	return InvitationResponse{
		UserID:    user.ID.String(),
		Email:     req.Email,
		Token:     tokenResp.Token,
		ExpiresAt: tokenResp.ExpiresAt,
	}, nil
}

// AcceptInvitation consumes the token, sets the password, and activates
// the invited account in a single transaction, so a failed activation
// never burns the single-use token.
func (s *service) AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (AuthResponse, error) {
	if len(req.Password) < minPasswordLen {
		return AuthResponse{}, autherrors.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AuthResponse{}, tx.Error
	}
	defer tx.Rollback()

	token, err := s.tokens.WithTx(tx).Consume(ctx, req.Token, authtoken.KindInvitation)
	if err != nil {
		return AuthResponse{}, err
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.UpdatePassword(ctx, token.UserID, string(hash)); err != nil {
		return AuthResponse{}, err
	}
	if err := qtx.Activate(ctx, token.UserID); err != nil {
		return AuthResponse{}, err
	}
	if err := tx.Commit().Error; err != nil {
		return AuthResponse{}, err
	}

	user, err := s.repo.GetByID(ctx, token.UserID)
	if err != nil {
		return AuthResponse{}, err
	}

	s.linkEmployee(ctx, user)

	s.logger.Info("invitation accepted",
		zap.String("user_id", user.ID.String()),
	)
	return mapUserToResponse(user, nil), nil
}

// linkEmployee writes the user id back onto the employee record. The
// account is already usable at this point, so a failure only logs.
func (s *service) linkEmployee(ctx context.Context, user *User) {
	if s.employees == nil || user.EmployeeID == nil || user.TenantID == nil {
		return
	}
	e, err := s.employees.FindByIDAndTenant(ctx, user.TenantID.String(), user.EmployeeID.String())
	if err != nil || e.UserID != nil {
		return
	}
	uid := user.ID
	e.UserID = &uid
	if err := s.employees.Update(ctx, e); err != nil {
		s.logger.Warn("link employee to user failed",
			zap.String("employee_id", e.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) RequestPasswordReset(ctx context.Context, email string, meta RequestMeta) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Same response as the success path: existence stays private.
		s.logger.Info("password reset requested for unknown email")
		return nil
	}

	var tenantID uuid.UUID
	if user.TenantID != nil {
		tenantID = *user.TenantID
	}
	if _, err := s.tokens.Issue(ctx, authtoken.IssueRequest{
		TenantID:  tenantID,
		UserID:    user.ID,
		Email:     email,
		Kind:      authtoken.KindPasswordReset,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}); err != nil {
		s.logger.Error("issue password reset token failed", zap.Error(err))
		return nil
	}

	s.logger.Info("password reset token issued", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *service) ConfirmPasswordReset(ctx context.Context, req ConfirmResetRequest) error {
	if len(req.Password) < minPasswordLen {
		return autherrors.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	token, err := s.tokens.WithTx(tx).Consume(ctx, req.Token, authtoken.KindPasswordReset)
	if err != nil {
		if errors.Is(err, authtokenerrors.ErrTokenNotFound) {
			return authtokenerrors.ErrTokenInvalid
		}
		return err
	}
	if err := s.repo.WithTx(tx).UpdatePassword(ctx, token.UserID, string(hash)); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.logger.Info("password reset completed", zap.String("user_id", token.UserID.String()))
	return nil
}

func mapUserToResponse(u *User, roleCodes []string) AuthResponse {
	resp := AuthResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Name:         u.Name,
		Status:       u.Status,
		IsSuperAdmin: u.IsSuperAdmin,
		Roles:        roleCodes,
	}
	if u.TenantID != nil {
		v := u.TenantID.String()
		resp.TenantID = &v
	}
	if u.EmployeeID != nil {
		v := u.EmployeeID.String()
		resp.EmployeeID = &v
	}
	return resp
}
