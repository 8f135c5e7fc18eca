package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Domain sentinel messages
// are surfaced verbatim; anything unrecognized is logged and hidden behind a
// generic 500.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, employee.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, employee.ErrManagerAccessRequired),
		errors.Is(err, employee.ErrCEOAccessRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrInvalidRange),
		errors.Is(err, leave.ErrPastDate),
		errors.Is(err, leave.ErrPolicyViolation),
		errors.Is(err, leave.ErrAttachmentRequired),
		errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrOverlap),
		errors.Is(err, leave.ErrInvalidStateTransition):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrBalanceNotFound),
		errors.Is(err, leave.ErrLeaveTypeNotFound),
		errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, leave.ErrLeaveTypeCodeExists),
		errors.Is(err, leave.ErrHolidayExists):
		Conflict(w, err.Error())

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
