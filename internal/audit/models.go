package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	Actor     string
	Action    Action
	Subject   string
	Detail    string
	RequestID string
}

// Action names the audited operation.
type Action string

const (
	ActionInstitutionRequested Action = "institution_requested"
	ActionInstitutionApproved  Action = "institution_approved"
	ActionInstitutionRejected  Action = "institution_rejected"
	ActionUserRegistered       Action = "user_registered"
	ActionPasswordReset        Action = "password_reset"
)
