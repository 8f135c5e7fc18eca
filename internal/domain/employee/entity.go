package employee

import "time"

type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Email        string
	PasswordHash string
	DepartmentID *string
	ManagerID    *string
	Role         Role
	JoinDate     *time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relationships (for responses)
	DepartmentName *string
}

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleCEO      Role = "ceo"
)

type Department struct {
	ID   string
	Code string
	Name string
}
