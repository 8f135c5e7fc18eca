package postgresql

import (
	"context"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// CreateIfAbsent implements leave.LeaveBalanceRepository. The partial unique
// index on (employee_id, leave_type_id, year) makes the insert a no-op when
// a row already exists, which keeps provisioning idempotent.
func (r *leaveBalanceRepositoryImpl) CreateIfAbsent(ctx context.Context, balance leave.LeaveBalance) (bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, year,
			allocated, used,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5,
			NOW(), NOW()
		)
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		balance.EmployeeID, balance.LeaveTypeID, balance.Year,
		balance.Allocated, balance.Used,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// GetByEmployeeTypeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, employee_id, leave_type_id, year,
		       allocated, used,
		       created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`

	var balance leave.LeaveBalance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year).Scan(
		&balance.ID, &balance.EmployeeID, &balance.LeaveTypeID, &balance.Year,
		&balance.Allocated, &balance.Used,
		&balance.CreatedAt, &balance.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}

	return balance, nil
}

// ListByEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
		       lb.allocated, lb.used,
		       lb.created_at, lb.updated_at,
		       lt.name AS leave_type_name,
		       lt.code AS leave_type_code
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.employee_id = $1 AND lb.year = $2
		ORDER BY lt.code
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		var balance leave.LeaveBalance
		if err := rows.Scan(
			&balance.ID, &balance.EmployeeID, &balance.LeaveTypeID, &balance.Year,
			&balance.Allocated, &balance.Used,
			&balance.CreatedAt, &balance.UpdatedAt,
			&balance.LeaveTypeName, &balance.LeaveTypeCode,
		); err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, nil
}

// TryDebit implements leave.LeaveBalanceRepository. The guard on the UPDATE
// is what makes concurrent approvals safe: of two debits that jointly exceed
// the allocation, only one can observe used + amount <= allocated.
func (r *leaveBalanceRepositoryImpl) TryDebit(ctx context.Context, balanceID string, amount decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_balances
		SET used = used + $1,
		    updated_at = NOW()
		WHERE id = $2
		AND used + $1 <= allocated
	`

	result, err := q.Exec(ctx, query, amount, balanceID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return leave.ErrInsufficientBalance
	}

	return nil
}
