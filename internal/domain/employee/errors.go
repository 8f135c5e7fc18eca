package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("Employee not found")
	ErrEmployeeCodeExists = errors.New("Employee code already exists")
	ErrInvalidCredentials = errors.New("Invalid employee code or password")

	ErrInvalidToken          = errors.New("Invalid or expired token")
	ErrManagerAccessRequired = errors.New("Manager access required")
	ErrCEOAccessRequired     = errors.New("CEO access required")
)
