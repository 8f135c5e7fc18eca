package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByCode(ctx context.Context, code string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	// CreateIfAbsent inserts the balance unless a row already exists for the
	// (employee, leave type, year) key. Existing rows are never overwritten.
	// Reports whether a row was created.
	CreateIfAbsent(ctx context.Context, balance LeaveBalance) (bool, error)

	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	// TryDebit atomically increments used by amount, guarded by
	// used + amount <= allocated. Returns ErrInsufficientBalance when the
	// guard fails, so two racing approvals can never jointly overdraw a row.
	TryDebit(ctx context.Context, balanceID string, amount decimal.Decimal) error
}

// LeaveRequestFilter narrows request listings.
type LeaveRequestFilter struct {
	EmployeeID string
	Status     LeaveRequestStatus
	Year       int
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)

	// HasOverlapping reports whether any Pending or Approved request of the
	// employee intersects [start, end] (inclusive bounds). excludeID, when
	// non-empty, is omitted from the check.
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error)

	// UpdateStatusFromPending transitions the request to status and records
	// the approver and comment, guarded by the current status being Pending.
	// Returns ErrInvalidStateTransition when the request is not Pending.
	UpdateStatusFromPending(ctx context.Context, id string, status LeaveRequestStatus, approverID *string, comment string) error

	// CancelFromPending moves a Pending request to Cancelled and stamps
	// cancelled_at. Returns ErrInvalidStateTransition when not Pending.
	CancelFromPending(ctx context.Context, id string, cancelledAt time.Time) error
}

// HolidayRepository - interface for holidays table
type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	List(ctx context.Context) ([]Holiday, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
