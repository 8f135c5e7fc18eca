package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type_id,
	lr.start_date, lr.end_date, lr.half_day,
	lr.reason, lr.attachment_path,
	lr.status, lr.approver_id, lr.approve_comment,
	lr.created_at, lr.updated_at, lr.cancelled_at,
	e.employee_code, e.full_name AS employee_name,
	d.name AS department_name,
	lt.name AS leave_type_name, lt.code AS leave_type_code
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.LeaveTypeID,
		&req.StartDate, &req.EndDate, &req.HalfDay,
		&req.Reason, &req.AttachmentPath,
		&req.Status, &req.ApproverID, &req.ApproveComment,
		&req.CreatedAt, &req.UpdatedAt, &req.CancelledAt,
		&req.EmployeeCode, &req.EmployeeName,
		&req.DepartmentName,
		&req.LeaveTypeName, &req.LeaveTypeCode,
	)
	return req, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id,
			start_date, end_date, half_day,
			reason, attachment_path, status,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5,
			$6, $7, $8,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.HalfDay,
		request.Reason, request.AttachmentPath, request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		LEFT JOIN departments d ON e.department_id = d.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.id = $1
	`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		LEFT JOIN departments d ON e.department_id = d.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE ($1 = '' OR lr.employee_id = $1::uuid)
		AND ($2 = '' OR lr.status = $2)
		AND ($3 = 0 OR EXTRACT(YEAR FROM lr.start_date) = $3)
		ORDER BY lr.created_at DESC
	`

	rows, err := q.Query(ctx, query, filter.EmployeeID, string(filter.Status), filter.Year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// HasOverlapping implements leave.LeaveRequestRepository. Bounds are
// inclusive: touching ranges count as overlapping.
func (r *leaveRequestRepositoryImpl) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			AND status IN ('PENDING', 'APPROVED')
			AND start_date <= $3
			AND end_date >= $2
			AND ($4 = '' OR id <> $4::uuid)
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, start, end, excludeID).Scan(&exists)
	return exists, err
}

// UpdateStatusFromPending implements leave.LeaveRequestRepository. The
// status guard in the WHERE clause makes the transition atomic: a request
// already decided by a racing approver yields zero affected rows.
func (r *leaveRequestRepositoryImpl) UpdateStatusFromPending(ctx context.Context, id string, status leave.LeaveRequestStatus, approverID *string, comment string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_requests
		SET status = $2,
		    approver_id = $3,
		    approve_comment = $4,
		    updated_at = NOW()
		WHERE id = $1
		AND status = 'PENDING'
	`

	result, err := q.Exec(ctx, query, id, status, approverID, comment)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return leave.ErrInvalidStateTransition
	}

	return nil
}

// CancelFromPending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) CancelFromPending(ctx context.Context, id string, cancelledAt time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_requests
		SET status = 'CANCELLED',
		    cancelled_at = $2,
		    updated_at = NOW()
		WHERE id = $1
		AND status = 'PENDING'
	`

	result, err := q.Exec(ctx, query, id, cancelledAt)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return leave.ErrInvalidStateTransition
	}

	return nil
}
