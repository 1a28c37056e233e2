package authtoken

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/WEBX2024/HRMS/internal/identity"
	"github.com/WEBX2024/HRMS/internal/shared/apperror"
	"github.com/WEBX2024/HRMS/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("authtoken.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authtoken.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("token request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// ValidateInvitation lets the accept page check a token before showing the
// password form. Read-only.
func (h *Handler) ValidateInvitation(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", "token is required")
		return
	}

	token, err := h.service.Validate(c.Request.Context(), raw, KindInvitation)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"email":      token.Email,
		"expires_at": token.ExpiresAt,
	}, nil)
}

func (h *Handler) ListInvitations(c *gin.Context) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	tokens, total, err := h.service.ListByTenant(c.Request.Context(), caller.Tenant(), KindInvitation, limit, (page-1)*limit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	meta := response.NewPaginationMeta(total, page, limit)
	response.Success(c, http.StatusOK, tokens, &meta)
}

func (h *Handler) RevokeInvitation(c *gin.Context) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	userID := caller.UserID
	if err := h.service.Revoke(c.Request.Context(), caller.Tenant(), c.Param("id"), &userID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"revoked": true}, nil)
}
