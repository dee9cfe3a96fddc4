package handler

import (
	"strings"

	dErrors "certledger/pkg/domain-errors"
)

// RequestInstitutionRequest is the HTTP request body for POST
// /institution-request.
type RequestInstitutionRequest struct {
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r *RequestInstitutionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Domain = strings.TrimSpace(r.Domain)
	r.Email = strings.TrimSpace(r.Email)
	if r.Name == "" || r.Domain == "" || r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "name, domain and email are required")
	}
	r.Message = strings.TrimSpace(r.Message)
	return nil
}

// DecideInstitutionRequest is the HTTP request body for POST
// /approve-institution and POST /reject-institution.
type DecideInstitutionRequest struct {
	Domain string `json:"domain"`
}

func (r *DecideInstitutionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Domain = strings.TrimSpace(r.Domain)
	if r.Domain == "" {
		return dErrors.New(dErrors.CodeValidation, "domain is required")
	}
	return nil
}
