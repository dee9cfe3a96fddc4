package handler

import (
	"strings"

	dErrors "certledger/pkg/domain-errors"
)

// RegisterRequest is the HTTP request body for POST /auth/register.
type RegisterRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	Role              string `json:"role"`
	SecretWord        string `json:"secret_word"`
	Email             string `json:"email"`
	InstitutionDomain string `json:"institution_domain"`
	RoleCode          string `json:"role_code"`
}

func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" || r.Role == "" || r.SecretWord == "" {
		return dErrors.New(dErrors.CodeValidation, "username, password, role and secret_word are required")
	}
	r.Email = strings.TrimSpace(r.Email)
	r.InstitutionDomain = strings.TrimSpace(r.InstitutionDomain)
	r.RoleCode = strings.TrimSpace(r.RoleCode)
	return nil
}

// LoginRequest is the HTTP request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "username and password are required")
	}
	return nil
}

// ResetPasswordRequest is the HTTP request body for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Username    string `json:"username"`
	Secret      string `json:"secret"`
	NewPassword string `json:"new_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Secret == "" || r.NewPassword == "" {
		return dErrors.New(dErrors.CodeValidation, "username, secret and new_password are required")
	}
	return nil
}
