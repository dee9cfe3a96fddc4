// Package domainerrors provides coded errors shared across services and
// transports. Services attach a Code when translating infrastructure failures
// or rejecting input; the HTTP layer maps codes to status lines without
// inspecting message text.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping and retry decisions.
type Code string

const (
	// CodeBadRequest covers malformed request envelopes (bad JSON, wrong shape).
	CodeBadRequest Code = "bad_request"
	// CodeValidation covers requests with missing or invalid required fields.
	CodeValidation Code = "validation_error"
	// CodeInvalidInput covers domain-primitive parse failures at trust boundaries.
	CodeInvalidInput Code = "invalid_input"
	// CodeUnauthorized covers missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden covers authenticated callers lacking permission (e.g. a
	// registrar code mismatch).
	CodeForbidden Code = "forbidden"
	// CodeNotFound covers lookups with no matching record.
	CodeNotFound Code = "not_found"
	// CodeConflict covers uniqueness violations and invalid state transitions.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation covers broken domain invariants. These usually get
	// translated to CodeConflict before reaching a transport.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeTimeout covers deadline expiry on outbound calls.
	CodeTimeout Code = "timeout"
	// CodeUnavailable covers external collaborator failures (ledger RPC errors).
	// Callers may retry; submissions stay idempotent via the on-chain check.
	CodeUnavailable Code = "unavailable"
	// CodeInternal covers storage and other unexpected failures. Descriptions
	// are withheld from clients.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Use New or Wrap rather than constructing
// directly so the code is never left empty.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with a short human-readable message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal when err is not a
// domain error. Uncoded errors must never leak details to clients.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the client-safe message for err. Uncoded errors map to a
// generic message.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps a code to its HTTP status line.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvariantViolation:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
