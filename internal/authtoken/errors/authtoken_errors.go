package authtokenerrors

import (
	"net/http"

	"github.com/WEBX2024/HRMS/internal/shared/apperror"
)

var (
	ErrTokenInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"invalid or expired token",
		http.StatusBadRequest,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeInvalidState,
		"token has expired",
		http.StatusBadRequest,
	)
	ErrTokenAlreadyConsumed = apperror.New(
		apperror.CodeConflict,
		"token has already been used",
		http.StatusConflict,
	)
	ErrTokenRevoked = apperror.New(
		apperror.CodeInvalidState,
		"token has been revoked",
		http.StatusBadRequest,
	)
	ErrTokenNotRevocable = apperror.New(
		apperror.CodeInvalidState,
		"token is already in a terminal state",
		http.StatusBadRequest,
	)
	ErrTokenNotFound = apperror.New(
		apperror.CodeNotFound,
		"token not found",
		http.StatusNotFound,
	)
	ErrUnknownKind = apperror.New(
		apperror.CodeInvalidInput,
		"unknown token kind",
		http.StatusBadRequest,
	)
)
