package tenanterrors

import (
	"net/http"

	"github.com/WEBX2024/HRMS/internal/shared/apperror"
)

var (
	ErrTenantNotFound = apperror.New(
		apperror.CodeUnauthorized,
		"tenant not found",
		http.StatusUnauthorized,
	)
	ErrTenantInactive = apperror.New(
		apperror.CodeUnauthorized,
		"tenant is not active",
		http.StatusUnauthorized,
	)
	ErrEmployeeLimitReached = apperror.New(
		apperror.CodeConflict,
		"maximum employee limit reached for your subscription plan",
		http.StatusConflict,
	)
)
