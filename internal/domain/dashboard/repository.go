package dashboard

import (
	"context"
	"time"
)

// Repository - aggregation queries over leave_requests
type Repository interface {
	CountByStatus(ctx context.Context, year int) (StatusCounts, error)
	MonthlyRequestCounts(ctx context.Context, year int) ([]MonthlyCount, error)
	TopDepartments(ctx context.Context, year, limit int) ([]DepartmentCount, error)
	TopEmployees(ctx context.Context, year, limit int) ([]EmployeeCount, error)
	UpcomingApproved(ctx context.Context, from, to time.Time) ([]UpcomingLeave, error)
}
