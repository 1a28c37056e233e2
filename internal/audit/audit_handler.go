package audit

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
	l := zap.L().Named("audit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) ListLoginAudits(c *gin.Context) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok || caller.TenantID == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	audits, total, err := h.service.ListByTenant(c.Request.Context(), caller.Tenant(), limit, (page-1)*limit)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	items := make([]LoginAuditResponse, 0, len(audits))
	for i := range audits {
		items = append(items, mapAuditToResponse(&audits[i]))
	}
	meta := response.NewPaginationMeta(total, page, limit)
	response.Success(c, http.StatusOK, items, &meta)
}
