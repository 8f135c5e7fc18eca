package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	leaveservice "github.com/cmlabs-hris/leave-tracker-go/internal/service/leave"
	"github.com/shopspring/decimal"
)

const (
	topLimit          = 5
	upcomingLookahead = 7 * 24 * time.Hour
)

// Service assembles the company-wide dashboard.
type Service struct {
	repo      dashboard.Repository
	requests  leave.LeaveRequestRepository
	holidays  leave.HolidayRepository
	employees employee.EmployeeRepository

	now func() time.Time
}

func NewService(
	repo dashboard.Repository,
	requests leave.LeaveRequestRepository,
	holidays leave.HolidayRepository,
	employees employee.EmployeeRepository,
) *Service {
	return &Service{
		repo:      repo,
		requests:  requests,
		holidays:  holidays,
		employees: employees,
		now:       time.Now,
	}
}

// Summary builds the dashboard for one calendar year. Total and average
// leave days are recomputed from the approved requests with the working-day
// calculator rather than read from the ledger, so unpaid leave shows up too.
func (s *Service) Summary(ctx context.Context, year int) (dashboard.Summary, error) {
	if year == 0 {
		year = s.now().Year()
	}

	counts, err := s.repo.CountByStatus(ctx, year)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("failed to count requests by status: %w", err)
	}

	activeEmployees, err := s.employees.CountActive(ctx)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("failed to count active employees: %w", err)
	}

	totalDays, err := s.approvedLeaveDays(ctx, year)
	if err != nil {
		return dashboard.Summary{}, err
	}

	avgDays := decimal.Zero
	if activeEmployees > 0 {
		avgDays = totalDays.Div(decimal.NewFromInt(int64(activeEmployees))).Round(2)
	}

	monthly, err := s.repo.MonthlyRequestCounts(ctx, year)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("failed to count monthly requests: %w", err)
	}

	topDepartments, err := s.repo.TopDepartments(ctx, year, topLimit)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("failed to rank departments: %w", err)
	}

	topEmployees, err := s.repo.TopEmployees(ctx, year, topLimit)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("failed to rank employees: %w", err)
	}

	// Request dates are UTC calendar dates, so the window is anchored to the
	// UTC date rather than the raw host clock.
	today := dateOnly(s.now())
	upcoming, err := s.repo.UpcomingApproved(ctx, today, today.Add(upcomingLookahead))
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("failed to list upcoming leaves: %w", err)
	}

	return dashboard.Summary{
		Year:            year,
		ActiveEmployees: activeEmployees,
		Requests:        counts,
		TotalLeaveDays:  totalDays,
		AvgLeaveDays:    avgDays,
		MonthlyRequests: monthly,
		TopDepartments:  topDepartments,
		TopEmployees:    topEmployees,
		UpcomingLeaves:  upcoming,
	}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) approvedLeaveDays(ctx context.Context, year int) (decimal.Decimal, error) {
	approved, err := s.requests.List(ctx, leave.LeaveRequestFilter{
		Status: leave.StatusApproved,
		Year:   year,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list approved requests: %w", err)
	}
	if len(approved) == 0 {
		return decimal.Zero, nil
	}

	// One holiday fetch covering every approved range beats one per request.
	from, to := approved[0].StartDate, approved[0].EndDate
	for _, req := range approved[1:] {
		if req.StartDate.Before(from) {
			from = req.StartDate
		}
		if req.EndDate.After(to) {
			to = req.EndDate
		}
	}

	holidays, err := s.holidays.ListByDateRange(ctx, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list holidays: %w", err)
	}
	cal := leaveservice.NewCalendar(holidays)

	total := decimal.Zero
	for _, req := range approved {
		days, err := leaveservice.TotalDays(cal, req.StartDate, req.EndDate, req.HalfDay)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(days)
	}
	return total, nil
}
