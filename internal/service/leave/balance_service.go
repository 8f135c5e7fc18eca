package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// BalanceService is the leave balance ledger. Rows are created lazily by
// provisioning and mutated only through the approval path (TryDebit).
type BalanceService struct {
	types     leave.LeaveTypeRepository
	balances  leave.LeaveBalanceRepository
	employees employee.EmployeeRepository
}

func NewBalanceService(types leave.LeaveTypeRepository, balances leave.LeaveBalanceRepository, employees employee.EmployeeRepository) *BalanceService {
	return &BalanceService{
		types:     types,
		balances:  balances,
		employees: employees,
	}
}

// GetBalance fetches the ledger row for (employee, leave type, year).
func (s *BalanceService) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	return s.balances.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
}

// ListByEmployeeYear returns all balance rows of an employee for a year.
func (s *BalanceService) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	return s.balances.ListByEmployeeYear(ctx, employeeID, year)
}

// ProvisionDefaults creates one balance row per known leave type for the
// employee and year, with allocated = the type's default allocation and
// used = 0. Existing rows are left untouched, so the operation is idempotent
// and safe for the scheduled yearly sweep to repeat.
func (s *BalanceService) ProvisionDefaults(ctx context.Context, employeeID string, year int) error {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}

	leaveTypes, err := s.types.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list leave types: %w", err)
	}

	for _, lt := range leaveTypes {
		created, err := s.balances.CreateIfAbsent(ctx, leave.LeaveBalance{
			EmployeeID:  emp.ID,
			LeaveTypeID: lt.ID,
			Year:        year,
			Allocated:   lt.DefaultAllocation,
			Used:        decimal.Zero,
		})
		if err != nil {
			return fmt.Errorf("failed to provision balance for %s: %w", lt.Code, err)
		}
		if created {
			slog.Info("Provisioned leave balance",
				"employee_code", emp.EmployeeCode,
				"leave_type", lt.Code,
				"year", year,
				"allocated", lt.DefaultAllocation,
			)
		}
	}

	return nil
}

// ProvisionAll runs ProvisionDefaults for every active employee. Invoked by
// the scheduler once per day; idempotency makes the repeats harmless.
func (s *BalanceService) ProvisionAll(ctx context.Context, year int) error {
	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	for _, emp := range employees {
		if err := s.ProvisionDefaults(ctx, emp.ID, year); err != nil {
			return err
		}
	}
	return nil
}
