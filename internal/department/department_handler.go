package department

import (
	"net/http"

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
	l := zap.L().Named("department.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func tenantFromCaller(c *gin.Context) (string, bool) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok || caller.TenantID == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return "", false
	}
	return caller.Tenant(), true
}

func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := tenantFromCaller(c)
	if !ok {
		return
	}

	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	dept, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dept, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	tenantID, ok := tenantFromCaller(c)
	if !ok {
		return
	}

	depts, err := h.service.GetAll(c.Request.Context(), tenantID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, depts, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	tenantID, ok := tenantFromCaller(c)
	if !ok {
		return
	}

	dept, err := h.service.GetByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dept, nil)
}

func (h *Handler) Update(c *gin.Context) {
	tenantID, ok := tenantFromCaller(c)
	if !ok {
		return
	}

	var req UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	dept, err := h.service.Update(c.Request.Context(), tenantID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dept, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	tenantID, ok := tenantFromCaller(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Department deleted"}, nil)
}
