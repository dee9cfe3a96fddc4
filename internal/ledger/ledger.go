// Package ledger talks to the certificate registry contract on an external
// append-only chain. The chain is the single source of truth for certificate
// existence; nothing in this process caches its answers.
package ledger

import "context"

// Client is the contract every ledger implementation must satisfy. There is
// deliberately no retry or cancellation of an in-flight submission: once a
// transaction is sent it cannot be retracted, and the existence check before
// every submission is the only dedup mechanism.
type Client interface {
	// Submit registers a certificate identifier on the ledger and returns the
	// transaction reference.
	Submit(ctx context.Context, certificateID string) (string, error)

	// IsSubmitted reports whether the identifier already exists on the ledger.
	IsSubmitted(ctx context.Context, certificateID string) (bool, error)

	// Health reports whether the ledger endpoint is reachable.
	Health(ctx context.Context) error
}
