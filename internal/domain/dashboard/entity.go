package dashboard

import "github.com/shopspring/decimal"

// StatusCounts holds the number of leave requests per status for a year.
type StatusCounts struct {
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
}

// MonthlyCount is the number of requests submitted in one month.
type MonthlyCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

// DepartmentCount ranks a department by approved requests.
type DepartmentCount struct {
	DepartmentName string `json:"department_name"`
	Count          int    `json:"count"`
}

// EmployeeCount ranks an employee by approved requests.
type EmployeeCount struct {
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	Count        int    `json:"count"`
}

// UpcomingLeave is an approved leave starting within the lookahead window.
type UpcomingLeave struct {
	EmployeeCode  string `json:"employee_code"`
	FullName      string `json:"full_name"`
	LeaveTypeName string `json:"leave_type_name"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	HalfDay       bool   `json:"half_day"`
}

// Summary is the company-wide dashboard for one calendar year.
type Summary struct {
	Year            int               `json:"year"`
	ActiveEmployees int               `json:"active_employees"`
	Requests        StatusCounts      `json:"requests"`
	TotalLeaveDays  decimal.Decimal   `json:"total_leave_days"`
	AvgLeaveDays    decimal.Decimal   `json:"avg_leave_days"`
	MonthlyRequests []MonthlyCount    `json:"monthly_requests"`
	TopDepartments  []DepartmentCount `json:"top_departments"`
	TopEmployees    []EmployeeCount   `json:"top_employees"`
	UpcomingLeaves  []UpcomingLeave   `json:"upcoming_leaves"`
}
