package handler

import (
	"strings"

	dErrors "certledger/pkg/domain-errors"
)

// SubmitRequest is the HTTP request body for POST /submit.
type SubmitRequest struct {
	CertificateID string `json:"certificate_id"`
}

func (r *SubmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CertificateID = strings.TrimSpace(r.CertificateID)
	if r.CertificateID == "" {
		return dErrors.New(dErrors.CodeValidation, "certificate_id is required")
	}
	return nil
}

// VerifyRequest is the HTTP request body for POST /verify. Username is
// optional; the service treats an absent username as a guest.
type VerifyRequest struct {
	CertificateID string `json:"certificate_id"`
	Username      string `json:"username"`
}

func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CertificateID = strings.TrimSpace(r.CertificateID)
	if r.CertificateID == "" {
		return dErrors.New(dErrors.CodeValidation, "certificate_id is required")
	}
	r.Username = strings.TrimSpace(r.Username)
	return nil
}

// AskRequest is the HTTP request body for POST /ask-ai.
type AskRequest struct {
	CertificateID string `json:"certificate_id"`
	Question      string `json:"question"`
	Lang          string `json:"lang"`
	Username      string `json:"username"`
}

func (r *AskRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CertificateID = strings.TrimSpace(r.CertificateID)
	r.Question = strings.TrimSpace(r.Question)
	if r.CertificateID == "" || r.Question == "" {
		return dErrors.New(dErrors.CodeValidation, "certificate_id and question are required")
	}
	r.Lang = strings.TrimSpace(r.Lang)
	r.Username = strings.TrimSpace(r.Username)
	return nil
}

// HistoryRequest is the HTTP request body for POST /verifier-history.
type HistoryRequest struct {
	Username string `json:"username"`
}

func (r *HistoryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	return nil
}
