package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType entity
type LeaveType struct {
	ID          string
	Code        string
	Name        string
	Description *string

	// Policy rules
	DefaultAllocation decimal.Decimal
	AllowHalfDay      bool
	RequireAttachment bool
	IsPaid            bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveBalance entity, unique per (employee, leave type, year).
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int

	Allocated decimal.Decimal
	Used      decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	LeaveTypeName *string
	LeaveTypeCode *string
}

// Remaining is derived, never stored.
func (b LeaveBalance) Remaining() decimal.Decimal {
	return b.Allocated.Sub(b.Used)
}

type LeaveRequestStatus string

const (
	StatusPending   LeaveRequestStatus = "PENDING"
	StatusApproved  LeaveRequestStatus = "APPROVED"
	StatusRejected  LeaveRequestStatus = "REJECTED"
	StatusCancelled LeaveRequestStatus = "CANCELLED"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time
	HalfDay   bool

	Reason         string
	AttachmentPath *string

	Status         LeaveRequestStatus
	ApproverID     *string
	ApproveComment string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CancelledAt *time.Time

	// Relationships (for responses)
	EmployeeCode   *string
	EmployeeName   *string
	DepartmentName *string
	LeaveTypeName  *string
	LeaveTypeCode  *string
}

// Holiday reference data, date is unique.
type Holiday struct {
	ID       string
	Date     time.Time
	Name     string
	IsPublic bool

	CreatedAt time.Time
}
