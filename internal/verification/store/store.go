// Package store persists the append-only verification and question logs.
// Implementations are interface-driven so the service can run against memory,
// Postgres, or Redis without rewiring business code.
package store

import (
	"context"

	"certledger/internal/verification/models"
)

// VerificationLogStore holds the positive verification cache. Username matches
// are case-insensitive in every implementation.
type VerificationLogStore interface {
	// Exists reports whether (username, certificateID) was verified before.
	Exists(ctx context.Context, username, certificateID string) (bool, error)

	// Append records a successful verification. Entries are never updated.
	Append(ctx context.Context, entry models.VerificationLogEntry) error

	// ListByUser returns all verification entries for the username.
	ListByUser(ctx context.Context, username string) ([]models.VerificationLogEntry, error)
}

// QuestionLogStore holds the AI inquiry audit trail.
type QuestionLogStore interface {
	Append(ctx context.Context, entry models.QuestionLogEntry) error
	ListByUser(ctx context.Context, username string) ([]models.QuestionLogEntry, error)
}
