package handler

import (
	"github.com/asaskevich/govalidator"

	dErrors "presensi/pkg/domain-errors"
	authmw "presensi/pkg/platform/middleware/auth"
)

// LoginRequest carries the credentials for token issuance.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email must be a valid address")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

// CreateUserRequest registers an account. Only admins reach this endpoint.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email must be a valid address")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	switch r.Role {
	case authmw.RoleEmployee, authmw.RoleAdmin:
	default:
		return dErrors.New(dErrors.CodeValidation, "role must be employee or admin")
	}
	return nil
}
