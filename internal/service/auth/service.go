package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	employees employee.EmployeeRepository
	jwt       jwt.Service
}

func NewService(employees employee.EmployeeRepository, jwtService jwt.Service) *Service {
	return &Service{
		employees: employees,
		jwt:       jwtService,
	}
}

// Login authenticates an employee by code and password. Lookup misses and
// password mismatches collapse into the same error so the response never
// reveals which half was wrong.
func (s *Service) Login(ctx context.Context, req employee.LoginRequest) (employee.TokenResponse, error) {
	emp, err := s.employees.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.TokenResponse{}, employee.ErrInvalidCredentials
		}
		return employee.TokenResponse{}, fmt.Errorf("failed to get employee by code: %w", err)
	}

	if !emp.IsActive {
		return employee.TokenResponse{}, employee.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return employee.TokenResponse{}, employee.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(emp.ID, emp.EmployeeCode, emp.Role)
	if err != nil {
		return employee.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return employee.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Employee:    employee.ToEmployeeResponse(emp),
	}, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
