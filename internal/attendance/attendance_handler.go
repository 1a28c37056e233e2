package attendance

import (
	"net/http"
	"strconv"
	"time"

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
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func callerEmployee(c *gin.Context) (identity.CallerContext, string, bool) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok || caller.EmployeeID == nil {
		return caller, "", false
	}
	return caller, caller.EmployeeID.String(), true
}

func (h *Handler) CheckIn(c *gin.Context) {
	caller, employeeID, ok := callerEmployee(c)
	if !ok {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "No employee profile linked to this account", nil)
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), caller.Tenant(), employeeID, time.Time{}, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	caller, employeeID, ok := callerEmployee(c)
	if !ok {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "No employee profile linked to this account", nil)
		return
	}

	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.CheckOut(c.Request.Context(), caller.Tenant(), employeeID, time.Time{}, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	caller, employeeID, ok := callerEmployee(c)
	if !ok {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "No employee profile linked to this account", nil)
		return
	}

	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, svcErr := h.service.ListForEmployee(c.Request.Context(), caller.Tenant(), employeeID, from, to)
	if svcErr != nil {
		h.writeServiceError(c, svcErr)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListForDate(c *gin.Context) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	resp, err := h.service.ListForDate(c.Request.Context(), caller.Tenant(), date)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CreatePolicy(c *gin.Context) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.CreatePolicy(c.Request.Context(), caller.Tenant(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) UpdatePolicy(c *gin.Context) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.UpdatePolicy(c.Request.Context(), caller.Tenant(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListPolicies(c *gin.Context) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	resp, err := h.service.ListPolicies(c.Request.Context(), caller.Tenant())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CreateHoliday(c *gin.Context) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.CreateHoliday(c.Request.Context(), caller.Tenant(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListHolidays(c *gin.Context) {
	caller, ok := identity.CallerFrom(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", "year must be numeric")
			return
		}
		year = parsed
	}

	resp, err := h.service.ListHolidays(c.Request.Context(), caller.Tenant(), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now

	var err error
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
