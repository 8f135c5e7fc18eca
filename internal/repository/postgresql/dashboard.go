package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.Repository {
	return &dashboardRepositoryImpl{db: db}
}

// CountByStatus implements dashboard.Repository.
func (r *dashboardRepositoryImpl) CountByStatus(ctx context.Context, year int) (dashboard.StatusCounts, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'APPROVED'),
			COUNT(*) FILTER (WHERE status = 'REJECTED'),
			COUNT(*) FILTER (WHERE status = 'CANCELLED')
		FROM leave_requests
		WHERE EXTRACT(YEAR FROM start_date) = $1
	`

	var counts dashboard.StatusCounts
	err := q.QueryRow(ctx, query, year).Scan(
		&counts.Pending, &counts.Approved, &counts.Rejected, &counts.Cancelled,
	)
	return counts, err
}

// MonthlyRequestCounts implements dashboard.Repository. Months without
// requests are filled with zero so the caller always gets twelve entries.
func (r *dashboardRepositoryImpl) MonthlyRequestCounts(ctx context.Context, year int) ([]dashboard.MonthlyCount, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT EXTRACT(MONTH FROM start_date)::int AS month, COUNT(*)
		FROM leave_requests
		WHERE EXTRACT(YEAR FROM start_date) = $1
		GROUP BY month
	`

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byMonth := make(map[int]int)
	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, err
		}
		byMonth[month] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := make([]dashboard.MonthlyCount, 0, 12)
	for month := 1; month <= 12; month++ {
		counts = append(counts, dashboard.MonthlyCount{Month: month, Count: byMonth[month]})
	}
	return counts, nil
}

// TopDepartments implements dashboard.Repository.
func (r *dashboardRepositoryImpl) TopDepartments(ctx context.Context, year, limit int) ([]dashboard.DepartmentCount, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT d.name, COUNT(*)
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN departments d ON e.department_id = d.id
		WHERE lr.status = 'APPROVED'
		AND EXTRACT(YEAR FROM lr.start_date) = $1
		GROUP BY d.name
		ORDER BY COUNT(*) DESC, d.name
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, year, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]dashboard.DepartmentCount, 0)
	for rows.Next() {
		var dc dashboard.DepartmentCount
		if err := rows.Scan(&dc.DepartmentName, &dc.Count); err != nil {
			return nil, err
		}
		departments = append(departments, dc)
	}

	return departments, nil
}

// TopEmployees implements dashboard.Repository.
func (r *dashboardRepositoryImpl) TopEmployees(ctx context.Context, year, limit int) ([]dashboard.EmployeeCount, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT e.employee_code, e.full_name, COUNT(*)
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE lr.status = 'APPROVED'
		AND EXTRACT(YEAR FROM lr.start_date) = $1
		GROUP BY e.employee_code, e.full_name
		ORDER BY COUNT(*) DESC, e.employee_code
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, year, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]dashboard.EmployeeCount, 0)
	for rows.Next() {
		var ec dashboard.EmployeeCount
		if err := rows.Scan(&ec.EmployeeCode, &ec.FullName, &ec.Count); err != nil {
			return nil, err
		}
		employees = append(employees, ec)
	}

	return employees, nil
}

// UpcomingApproved implements dashboard.Repository.
func (r *dashboardRepositoryImpl) UpcomingApproved(ctx context.Context, from, to time.Time) ([]dashboard.UpcomingLeave, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT e.employee_code, e.full_name, lt.name,
		       to_char(lr.start_date, 'YYYY-MM-DD'),
		       to_char(lr.end_date, 'YYYY-MM-DD'),
		       lr.half_day
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.status = 'APPROVED'
		AND lr.start_date BETWEEN $1 AND $2
		ORDER BY lr.start_date, e.employee_code
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	upcoming := make([]dashboard.UpcomingLeave, 0)
	for rows.Next() {
		var ul dashboard.UpcomingLeave
		if err := rows.Scan(
			&ul.EmployeeCode, &ul.FullName, &ul.LeaveTypeName,
			&ul.StartDate, &ul.EndDate, &ul.HalfDay,
		); err != nil {
			return nil, err
		}
		upcoming = append(upcoming, ul)
	}

	return upcoming, nil
}
