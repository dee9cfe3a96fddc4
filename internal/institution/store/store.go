package store

import (
	"context"

	"certledger/internal/institution/models"
)

// CodeFunc produces a candidate registrar code. The store calls it repeatedly
// until the code is unused among approved institutions.
type CodeFunc func() (string, error)

// Store persists pending requests and approved institutions. Both collections
// live behind one store so that ApproveDomain can validate and mutate them in
// a single critical section.
type Store interface {
	// AppendPending records a registration request. Requests for a domain
	// that already has pending entries are appended, not deduplicated.
	AppendPending(ctx context.Context, req models.PendingRequest) error

	// ListPending returns all pending requests in submission order.
	ListPending(ctx context.Context) ([]models.PendingRequest, error)

	// ListApproved returns all approved institutions.
	ListApproved(ctx context.Context) ([]models.Institution, error)

	// FindApprovedByDomain returns the institution with the exact given
	// domain, or sentinel.ErrNotFound.
	FindApprovedByDomain(ctx context.Context, domain string) (*models.Institution, error)

	// ApproveDomain converts the first pending request with the exact given
	// domain into an approved institution and removes every pending request
	// for that domain. The lookup, the uniqueness check against approved
	// institutions, the code assignment, and both mutations happen inside one
	// critical section.
	//
	// Returns sentinel.ErrNotFound when no pending request matches the domain
	// and sentinel.ErrConflict when an approved institution already holds the
	// candidate's domain or name.
	ApproveDomain(ctx context.Context, domain string, newCode CodeFunc) (*models.Institution, error)

	// RemovePending deletes every pending request with the exact given domain
	// and returns how many were removed. Removing zero is not an error.
	RemovePending(ctx context.Context, domain string) (int, error)
}
