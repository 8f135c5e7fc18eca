package leave

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBalanceFixture(t *testing.T) (*BalanceService, *fakeLeaveTypeRepo, *fakeLeaveBalanceRepo, *fakeEmployeeRepo) {
	t.Helper()

	employees := newFakeEmployeeRepo(
		employee.Employee{ID: "emp-1", EmployeeCode: "EMP-0001", FullName: "Dina", IsActive: true},
		employee.Employee{ID: "emp-2", EmployeeCode: "EMP-0002", FullName: "Bima", IsActive: true},
		employee.Employee{ID: "emp-3", EmployeeCode: "EMP-0003", FullName: "Sari", IsActive: false},
	)

	types := newFakeLeaveTypeRepo()
	for _, lt := range []leave.LeaveType{
		{Code: "ANNUAL", Name: "Annual Leave", DefaultAllocation: decimal.NewFromInt(12), IsPaid: true},
		{Code: "SICK", Name: "Sick Leave", DefaultAllocation: decimal.NewFromInt(10), IsPaid: true},
	} {
		_, err := types.Create(context.Background(), lt)
		require.NoError(t, err)
	}

	balances := newFakeLeaveBalanceRepo()
	return NewBalanceService(types, balances, employees), types, balances, employees
}

func TestProvisionDefaultsCreatesRowPerType(t *testing.T) {
	svc, types, balances, _ := newBalanceFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.ProvisionDefaults(ctx, "emp-1", 2026))

	rows, err := balances.ListByEmployeeYear(ctx, "emp-1", 2026)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	annual, err := types.GetByCode(ctx, "ANNUAL")
	require.NoError(t, err)
	row, err := balances.GetByEmployeeTypeYear(ctx, "emp-1", annual.ID, 2026)
	require.NoError(t, err)
	assert.True(t, row.Allocated.Equal(decimal.NewFromInt(12)))
	assert.True(t, row.Used.IsZero())
	assert.True(t, row.Remaining().Equal(decimal.NewFromInt(12)))
}

func TestProvisionDefaultsIsIdempotent(t *testing.T) {
	svc, types, balances, _ := newBalanceFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.ProvisionDefaults(ctx, "emp-1", 2026))

	// Spend some balance, then provision again. The sweep must not reset
	// anything that already exists.
	annual, err := types.GetByCode(ctx, "ANNUAL")
	require.NoError(t, err)
	row, err := balances.GetByEmployeeTypeYear(ctx, "emp-1", annual.ID, 2026)
	require.NoError(t, err)
	require.NoError(t, balances.TryDebit(ctx, row.ID, decimal.NewFromInt(3)))

	require.NoError(t, svc.ProvisionDefaults(ctx, "emp-1", 2026))

	row, err = balances.GetByEmployeeTypeYear(ctx, "emp-1", annual.ID, 2026)
	require.NoError(t, err)
	assert.True(t, row.Used.Equal(decimal.NewFromInt(3)))

	rows, err := balances.ListByEmployeeYear(ctx, "emp-1", 2026)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestProvisionDefaultsKeepsYearsSeparate(t *testing.T) {
	svc, _, balances, _ := newBalanceFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.ProvisionDefaults(ctx, "emp-1", 2026))
	require.NoError(t, svc.ProvisionDefaults(ctx, "emp-1", 2027))

	for _, year := range []int{2026, 2027} {
		rows, err := balances.ListByEmployeeYear(ctx, "emp-1", year)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	}
}

func TestProvisionDefaultsUnknownEmployee(t *testing.T) {
	svc, _, _, _ := newBalanceFixture(t)

	err := svc.ProvisionDefaults(context.Background(), "emp-missing", 2026)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestProvisionAllCoversActiveEmployeesOnly(t *testing.T) {
	svc, _, balances, _ := newBalanceFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.ProvisionAll(ctx, 2026))

	for _, id := range []string{"emp-1", "emp-2"} {
		rows, err := balances.ListByEmployeeYear(ctx, id, 2026)
		require.NoError(t, err)
		assert.Len(t, rows, 2, "employee %s", id)
	}

	rows, err := balances.ListByEmployeeYear(ctx, "emp-3", 2026)
	require.NoError(t, err)
	assert.Empty(t, rows, "inactive employees are not provisioned")
}
