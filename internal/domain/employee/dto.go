package employee

import (
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/validator"
)

type LoginRequest struct {
	EmployeeCode string `json:"employee_code"`
	Password     string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is required",
		})
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must match the XX-0000 format",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   int64            `json:"expires_at"`
	Employee    EmployeeResponse `json:"employee"`
}

type EmployeeResponse struct {
	ID             string     `json:"id"`
	EmployeeCode   string     `json:"employee_code"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Role           Role       `json:"role"`
	DepartmentName *string    `json:"department_name,omitempty"`
	JoinDate       *time.Time `json:"join_date,omitempty"`
}

func ToEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		EmployeeCode:   e.EmployeeCode,
		FullName:       e.FullName,
		Email:          e.Email,
		Role:           e.Role,
		DepartmentName: e.DepartmentName,
		JoinDate:       e.JoinDate,
	}
}
