package leave

import "errors"

var (
	ErrInvalidRange           = errors.New("End date must be on or after start date")
	ErrPastDate               = errors.New("Cannot request leave in the past")
	ErrPolicyViolation        = errors.New("This leave type does not allow half-day requests")
	ErrOverlap                = errors.New("Leave request overlaps with existing leave")
	ErrBalanceNotFound        = errors.New("No leave balance for this type/year")
	ErrInsufficientBalance    = errors.New("Not enough leave balance")
	ErrInvalidStateTransition = errors.New("Only pending requests can be processed")
	ErrAttachmentRequired     = errors.New("This leave type requires a supporting attachment")

	ErrLeaveTypeNotFound    = errors.New("Leave type not found")
	ErrLeaveTypeCodeExists  = errors.New("Leave type code already exists")
	ErrLeaveRequestNotFound = errors.New("Leave request not found")
	ErrHolidayExists        = errors.New("Holiday already registered for this date")
)
