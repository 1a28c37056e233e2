package rbacerrors

import (
	"net/http"

	"github.com/WEBX2024/HRMS/internal/shared/apperror"
)

var (
	ErrRoleNotFound = apperror.New(
		apperror.CodeNotFound,
		"role not found",
		http.StatusNotFound,
	)
	ErrRoleCodeTaken = apperror.New(
		apperror.CodeConflict,
		"role code already exists for this tenant",
		http.StatusConflict,
	)
	ErrInvalidRoleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid role id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidValidityWindow = apperror.New(
		apperror.CodeInvalidInput,
		"valid_from must be before or equal valid_until",
		http.StatusBadRequest,
	)
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"role assignment not found",
		http.StatusNotFound,
	)
	ErrAssignmentExists = apperror.New(
		apperror.CodeConflict,
		"user already has this role",
		http.StatusConflict,
	)
	ErrPermissionNotFound = apperror.New(
		apperror.CodeNotFound,
		"permission not found",
		http.StatusNotFound,
	)
	ErrSystemPermissionImmutable = apperror.New(
		apperror.CodeInvalidState,
		"system permissions cannot be deleted, only deactivated",
		http.StatusBadRequest,
	)
)
