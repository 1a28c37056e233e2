package employeeerrors

import (
	"net/http"

	"github.com/WEBX2024/HRMS/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInTenant = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this organization",
		http.StatusBadRequest,
	)
)
