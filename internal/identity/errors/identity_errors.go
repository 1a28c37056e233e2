package identityerrors

import (
	"net/http"

	"github.com/WEBX2024/HRMS/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeUnauthorized,
		"invalid user id in credential",
		http.StatusUnauthorized,
	)
	ErrMissingTenantClaim = apperror.New(
		apperror.CodeUnauthorized,
		"credential has no tenant claim",
		http.StatusUnauthorized,
	)
	ErrInvalidTenantClaim = apperror.New(
		apperror.CodeUnauthorized,
		"invalid tenant claim",
		http.StatusUnauthorized,
	)
	ErrTenantNotActive = apperror.New(
		apperror.CodeUnauthorized,
		"tenant not found or not active",
		http.StatusUnauthorized,
	)
)
