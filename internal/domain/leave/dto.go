package leave

import (
	"mime/multipart"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLeaveTypeRequest struct {
	Code              string          `json:"leave_type_code"`
	Name              string          `json:"leave_type_name"`
	Description       *string         `json:"leave_type_description,omitempty"`
	DefaultAllocation decimal.Decimal `json:"default_allocation"`
	AllowHalfDay      bool            `json:"allow_half_day"`
	RequireAttachment bool            `json:"require_attachment"`
	IsPaid            bool            `json:"is_paid"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code is required",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_name",
			Message: "leave_type_name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_name",
			Message: "leave_type_name must not exceed 255 characters",
		})
	}
	if r.DefaultAllocation.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "default_allocation",
			Message: "default_allocation must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateHolidayRequest struct {
	Date     string `json:"date"`
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SubmitLeaveRequestRequest struct {
	EmployeeID    string `json:"-"`
	LeaveTypeCode string `json:"leave_type_code"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	HalfDay       bool   `json:"half_day"`
	Reason        string `json:"reason"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *SubmitLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code is required",
		})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveRequestRequest struct {
	RequestID string `json:"request_id"`
	Comment   string `json:"comment"`
}

func (r *ApproveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectRequestRequest struct {
	RequestID string `json:"request_id"`
	Comment   string `json:"comment"`
}

func (r *RejectRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ProvisionBalancesRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
}

func (r *ProvisionBalancesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if r.Year <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a positive integer",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveBalanceResponse struct {
	ID            string          `json:"id"`
	LeaveTypeCode string          `json:"leave_type_code"`
	LeaveTypeName string          `json:"leave_type_name"`
	Year          int             `json:"year"`
	Allocated     decimal.Decimal `json:"allocated"`
	Used          decimal.Decimal `json:"used"`
	Remaining     decimal.Decimal `json:"remaining"`
}

func ToBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	resp := LeaveBalanceResponse{
		ID:        b.ID,
		Year:      b.Year,
		Allocated: b.Allocated,
		Used:      b.Used,
		Remaining: b.Remaining(),
	}
	if b.LeaveTypeCode != nil {
		resp.LeaveTypeCode = *b.LeaveTypeCode
	}
	if b.LeaveTypeName != nil {
		resp.LeaveTypeName = *b.LeaveTypeName
	}
	return resp
}

type LeaveRequestResponse struct {
	ID             string             `json:"id"`
	EmployeeCode   string             `json:"employee_code,omitempty"`
	EmployeeName   string             `json:"employee_name,omitempty"`
	LeaveTypeCode  string             `json:"leave_type_code,omitempty"`
	LeaveTypeName  string             `json:"leave_type_name,omitempty"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	HalfDay        bool               `json:"half_day"`
	Reason         string             `json:"reason"`
	AttachmentPath *string            `json:"attachment_path,omitempty"`
	Status         LeaveRequestStatus `json:"status"`
	ApproverID     *string            `json:"approver_id,omitempty"`
	ApproveComment string             `json:"approve_comment,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	CancelledAt    *time.Time         `json:"cancelled_at,omitempty"`
}

func ToRequestResponse(req LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:             req.ID,
		StartDate:      req.StartDate.Format("2006-01-02"),
		EndDate:        req.EndDate.Format("2006-01-02"),
		HalfDay:        req.HalfDay,
		Reason:         req.Reason,
		AttachmentPath: req.AttachmentPath,
		Status:         req.Status,
		ApproverID:     req.ApproverID,
		ApproveComment: req.ApproveComment,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
		CancelledAt:    req.CancelledAt,
	}
	if req.EmployeeCode != nil {
		resp.EmployeeCode = *req.EmployeeCode
	}
	if req.EmployeeName != nil {
		resp.EmployeeName = *req.EmployeeName
	}
	if req.LeaveTypeCode != nil {
		resp.LeaveTypeCode = *req.LeaveTypeCode
	}
	if req.LeaveTypeName != nil {
		resp.LeaveTypeName = *req.LeaveTypeName
	}
	return resp
}
