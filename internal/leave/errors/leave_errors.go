package leaveerrors

import (
	"net/http"

	"github.com/WEBX2024/HRMS/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeInactive = apperror.New(
		apperror.CodeInvalidState,
		"leave type is inactive",
		http.StatusUnprocessableEntity,
	)
	ErrLeaveTypeCodeTaken = apperror.New(
		apperror.CodeConflict,
		"leave type code already exists for this tenant",
		http.StatusConflict,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not precede start date",
		http.StatusBadRequest,
	)
	ErrZeroDays = apperror.New(
		apperror.CodeInvalidInput,
		"requested period contains no countable days",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeConflict,
		"insufficient leave balance",
		http.StatusConflict,
	)
	ErrBalanceInvariant = apperror.New(
		apperror.CodeConflict,
		"leave balance would become inconsistent",
		http.StatusConflict,
	)
	ErrOverlappingRequest = apperror.New(
		apperror.CodeConflict,
		"an overlapping leave request already exists",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave request cannot change to the requested status",
		http.StatusConflict,
	)
	ErrInsufficientNotice = apperror.New(
		apperror.CodeInvalidInput,
		"leave request does not meet the minimum notice period",
		http.StatusBadRequest,
	)
	ErrTooManyConsecutiveDays = apperror.New(
		apperror.CodeInvalidInput,
		"leave request exceeds the maximum consecutive days",
		http.StatusBadRequest,
	)
	ErrNotApplicableGender = apperror.New(
		apperror.CodeInvalidInput,
		"leave type does not apply to this employee",
		http.StatusBadRequest,
	)
	ErrNotYetApplicable = apperror.New(
		apperror.CodeInvalidInput,
		"employee has not been employed long enough for this leave type",
		http.StatusBadRequest,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"the leave balance was modified concurrently; please retry",
		http.StatusConflict,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a reason is required",
		http.StatusBadRequest,
	)
)
