package attendanceerrors

import (
	"net/http"

	"github.com/WEBX2024/HRMS/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"already checked in for this date",
		http.StatusConflict,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeConflict,
		"already checked out for this date",
		http.StatusConflict,
	)
	ErrNoOpenRecord = apperror.New(
		apperror.CodeNotFound,
		"no open check-in found for this date",
		http.StatusNotFound,
	)
	ErrNoDefaultPolicy = apperror.New(
		apperror.CodeInvalidState,
		"tenant has no default attendance policy",
		http.StatusUnprocessableEntity,
	)
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance policy not found",
		http.StatusNotFound,
	)
	ErrInvalidPolicyTime = apperror.New(
		apperror.CodeInvalidInput,
		"policy times must be in HH:MM form",
		http.StatusBadRequest,
	)
	ErrCheckOutBeforeCheckIn = apperror.New(
		apperror.CodeInvalidInput,
		"check-out cannot precede check-in",
		http.StatusBadRequest,
	)
	ErrDuplicateHoliday = apperror.New(
		apperror.CodeConflict,
		"holiday already exists for this date",
		http.StatusConflict,
	)
)
