package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// ValidateInput carries everything Validate needs, including the current
// date. Today is injected rather than read from a clock so validation is
// deterministic under test and inside transaction retries.
type ValidateInput struct {
	EmployeeID string
	LeaveType  leave.LeaveType
	StartDate  time.Time
	EndDate    time.Time
	HalfDay    bool
	Today      time.Time

	// ExcludeRequestID omits a request from the overlap check. Approval
	// passes the request being approved so it does not collide with itself.
	ExcludeRequestID string
}

// Validator enforces the business invariants a leave request must satisfy
// before it may be created or approved.
type Validator struct {
	balances leave.LeaveBalanceRepository
	requests leave.LeaveRequestRepository
	holidays leave.HolidayRepository
}

func NewValidator(balances leave.LeaveBalanceRepository, requests leave.LeaveRequestRepository, holidays leave.HolidayRepository) *Validator {
	return &Validator{
		balances: balances,
		requests: requests,
		holidays: holidays,
	}
}

// Validate runs the checks in order, short-circuiting on the first failure,
// and returns the total chargeable days on success:
//
//  1. end_date >= start_date
//  2. start_date >= today
//  3. half-day permitted by the leave type
//  4. no overlap with Pending/Approved requests (inclusive bounds)
//  5. chargeable days per calendar year
//  6. unpaid types skip balance checks entirely
//  7. per year: balance exists and days <= remaining
func (v *Validator) Validate(ctx context.Context, in ValidateInput) (decimal.Decimal, error) {
	if in.EndDate.Before(in.StartDate) {
		return decimal.Zero, leave.ErrInvalidRange
	}

	if in.StartDate.Before(in.Today) {
		return decimal.Zero, leave.ErrPastDate
	}

	if in.HalfDay && !in.LeaveType.AllowHalfDay {
		return decimal.Zero, leave.ErrPolicyViolation
	}

	overlap, err := v.requests.HasOverlapping(ctx, in.EmployeeID, in.StartDate, in.EndDate, in.ExcludeRequestID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	if overlap {
		return decimal.Zero, leave.ErrOverlap
	}

	byYear, err := v.DaysByYear(ctx, in.StartDate, in.EndDate, in.HalfDay)
	if err != nil {
		return decimal.Zero, err
	}
	total := sumDays(byYear)

	if !in.LeaveType.IsPaid {
		return total, nil
	}

	for year, days := range byYear {
		balance, err := v.balances.GetByEmployeeTypeYear(ctx, in.EmployeeID, in.LeaveType.ID, year)
		if err != nil {
			return decimal.Zero, err
		}
		if days.GreaterThan(balance.Remaining()) {
			return decimal.Zero, leave.ErrInsufficientBalance
		}
	}

	return total, nil
}

// DaysByYear resolves the holiday set for the range and computes the
// chargeable days per year. The holiday set is re-fetched on every call.
func (v *Validator) DaysByYear(ctx context.Context, start, end time.Time, halfDay bool) (map[int]decimal.Decimal, error) {
	if end.Before(start) {
		return nil, leave.ErrInvalidRange
	}

	holidays, err := v.holidays.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	return DaysByYear(NewCalendar(holidays), start, end, halfDay)
}
