package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-tracker-go/internal/service/file"
)

// TxRunner executes fn inside a single atomic unit at the persistence
// boundary. Repository calls made with the ctx passed to fn share that unit.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier informs employee and manager of request state changes.
// Dispatch is best-effort: implementations log failures and never return
// them, so a lost notification can never undo a committed transition.
type Notifier interface {
	LeaveSubmitted(ctx context.Context, req leave.LeaveRequest, leaveType leave.LeaveType)
	LeaveStatusChanged(ctx context.Context, req leave.LeaveRequest, leaveType leave.LeaveType)
}

// RequestService drives the leave request lifecycle:
// Pending -> Approved | Rejected, and the external Pending -> Cancelled path.
type RequestService struct {
	tx        TxRunner
	types     leave.LeaveTypeRepository
	balances  leave.LeaveBalanceRepository
	requests  leave.LeaveRequestRepository
	employees employee.EmployeeRepository
	validator *Validator
	files     *file.Service
	notifier  Notifier

	now func() time.Time
}

func NewRequestService(
	tx TxRunner,
	types leave.LeaveTypeRepository,
	balances leave.LeaveBalanceRepository,
	requests leave.LeaveRequestRepository,
	employees employee.EmployeeRepository,
	validator *Validator,
	files *file.Service,
	notifier Notifier,
) *RequestService {
	return &RequestService{
		tx:        tx,
		types:     types,
		balances:  balances,
		requests:  requests,
		employees: employees,
		validator: validator,
		files:     files,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Submit validates and persists a new Pending request, storing the
// attachment first when one was uploaded.
func (s *RequestService) Submit(ctx context.Context, req leave.SubmitLeaveRequestRequest) (leave.LeaveRequest, error) {
	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get employee: %w", err)
	}

	leaveType, err := s.types.GetByCode(ctx, req.LeaveTypeCode)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	// Attachment requirement is a submission precondition, checked against
	// what was actually uploaded rather than inside Validate.
	if leaveType.RequireAttachment && req.File == nil {
		return leave.LeaveRequest{}, leave.ErrAttachmentRequired
	}

	if _, err := s.validator.Validate(ctx, ValidateInput{
		EmployeeID: emp.ID,
		LeaveType:  leaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		HalfDay:    req.HalfDay,
		Today:      dateOnly(s.now()),
	}); err != nil {
		return leave.LeaveRequest{}, err
	}

	var attachmentPath *string
	if req.File != nil {
		path, err := s.files.StoreAttachment(ctx, req.File, req.FileHeader.Filename, emp.EmployeeCode, startDate)
		if err != nil {
			return leave.LeaveRequest{}, fmt.Errorf("failed to store attachment: %w", err)
		}
		attachmentPath = &path
	}

	created, err := s.requests.Create(ctx, leave.LeaveRequest{
		EmployeeID:     emp.ID,
		LeaveTypeID:    leaveType.ID,
		StartDate:      startDate,
		EndDate:        endDate,
		HalfDay:        req.HalfDay,
		Reason:         req.Reason,
		AttachmentPath: attachmentPath,
		Status:         leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.notifier.LeaveSubmitted(ctx, created, leaveType)

	return created, nil
}

// Approve transitions a Pending request to Approved and debits the ledger.
//
// The whole step runs inside one transaction: validation is re-run with the
// request excluded from its own overlap check, every touched year's balance
// is debited through the guarded TryDebit, and the status flips with a
// Pending-only guard. Racing approvals therefore end with exactly one winner;
// the loser surfaces ErrInsufficientBalance or ErrInvalidStateTransition.
// Notification fires only after the transaction durably commits.
func (s *RequestService) Approve(ctx context.Context, requestID, approverID, comment string) (leave.LeaveRequest, error) {
	var (
		request   leave.LeaveRequest
		leaveType leave.LeaveType
	)

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if request.Status != leave.StatusPending {
			return leave.ErrInvalidStateTransition
		}

		leaveType, err = s.types.GetByID(ctx, request.LeaveTypeID)
		if err != nil {
			return fmt.Errorf("failed to get leave type: %w", err)
		}

		// Authoritative gate: submission-time validation may be stale by now.
		if _, err := s.validator.Validate(ctx, ValidateInput{
			EmployeeID:       request.EmployeeID,
			LeaveType:        leaveType,
			StartDate:        request.StartDate,
			EndDate:          request.EndDate,
			HalfDay:          request.HalfDay,
			Today:            dateOnly(s.now()),
			ExcludeRequestID: request.ID,
		}); err != nil {
			return err
		}

		byYear, err := s.validator.DaysByYear(ctx, request.StartDate, request.EndDate, request.HalfDay)
		if err != nil {
			return err
		}

		if leaveType.IsPaid {
			for year, days := range byYear {
				balance, err := s.balances.GetByEmployeeTypeYear(ctx, request.EmployeeID, leaveType.ID, year)
				if err != nil {
					return err
				}
				if days.GreaterThan(balance.Remaining()) {
					return leave.ErrInsufficientBalance
				}
				if err := s.balances.TryDebit(ctx, balance.ID, days); err != nil {
					return err
				}
			}
		}

		return s.requests.UpdateStatusFromPending(ctx, request.ID, leave.StatusApproved, &approverID, comment)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.Status = leave.StatusApproved
	request.ApproverID = &approverID
	request.ApproveComment = comment
	request.UpdatedAt = s.now()

	s.notifier.LeaveStatusChanged(ctx, request, leaveType)

	return request, nil
}

// Reject transitions a Pending request to Rejected. The ledger is never
// touched, whatever the leave type.
func (s *RequestService) Reject(ctx context.Context, requestID, approverID, comment string) (leave.LeaveRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrInvalidStateTransition
	}

	leaveType, err := s.types.GetByID(ctx, request.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	if err := s.requests.UpdateStatusFromPending(ctx, request.ID, leave.StatusRejected, &approverID, comment); err != nil {
		return leave.LeaveRequest{}, err
	}

	request.Status = leave.StatusRejected
	request.ApproverID = &approverID
	request.ApproveComment = comment
	request.UpdatedAt = s.now()

	s.notifier.LeaveStatusChanged(ctx, request, leaveType)

	return request, nil
}

// Cancel is the external path that moves a Pending request to Cancelled.
// Only the owner may cancel, and no balance was ever debited for a Pending
// request, so the ledger stays untouched.
func (s *RequestService) Cancel(ctx context.Context, requestID, employeeID string) (leave.LeaveRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.EmployeeID != employeeID {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrInvalidStateTransition
	}

	cancelledAt := s.now()
	if err := s.requests.CancelFromPending(ctx, request.ID, cancelledAt); err != nil {
		return leave.LeaveRequest{}, err
	}

	leaveType, err := s.types.GetByID(ctx, request.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	request.Status = leave.StatusCancelled
	request.CancelledAt = &cancelledAt
	request.UpdatedAt = cancelledAt

	s.notifier.LeaveStatusChanged(ctx, request, leaveType)

	return request, nil
}

// GetRequest fetches a single request.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	return s.requests.GetByID(ctx, requestID)
}

// ListRequests lists requests matching the filter.
func (s *RequestService) ListRequests(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	return s.requests.List(ctx, filter)
}

// dateOnly truncates the clock reading to a UTC calendar date, matching how
// request dates are parsed. Truncating in the host zone would shift the date
// across the UTC boundary and misclassify same-day requests as past.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
