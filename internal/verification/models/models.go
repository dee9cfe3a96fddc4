package models

import "time"

// Usernames with special handling. Guest verifications are never logged, so
// they always re-query the ledger; anonymous is the default author of AI
// question log entries.
const (
	GuestUsername     = "guest"
	AnonymousUsername = "anonymous"
)

// VerificationStatus is the outcome of a Verify call.
type VerificationStatus string

const (
	StatusVerified VerificationStatus = "Certificate Verified"
	StatusNotFound VerificationStatus = "Certificate Not Found"
)

// VerificationLogEntry records a successful verification for a non-guest user.
//
// Invariants:
//   - Append-only: entries are never updated or deleted
//   - At most one entry per (lowercased username, certificate ID) matters;
//     presence acts as a positive cache trusted without re-querying the ledger
type VerificationLogEntry struct {
	Username      string    `json:"username"`
	CertificateID string    `json:"certificate_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// QuestionLogEntry records one AI-assisted inquiry, including answers whose
// text encodes a collaborator failure. Append-only; read back only for the
// per-user history view.
type QuestionLogEntry struct {
	Username      string    `json:"username"`
	CertificateID string    `json:"certificate_id"`
	Question      string    `json:"question"`
	Lang          string    `json:"lang"`
	Answer        string    `json:"answer"`
	Timestamp     time.Time `json:"timestamp"`
}

// HistoryEntryKind tags merged history rows by origin.
type HistoryEntryKind string

const (
	KindVerification HistoryEntryKind = "verification"
	KindQuestion     HistoryEntryKind = "question"
)

// HistoryEntry is one row of the merged, timestamp-descending history view.
// Timestamp is ISO-8601 UTC so lexicographic order matches chronological order.
type HistoryEntry struct {
	Kind          HistoryEntryKind `json:"kind"`
	Username      string           `json:"username"`
	CertificateID string           `json:"certificate_id"`
	Question      string           `json:"question,omitempty"`
	Answer        string           `json:"answer,omitempty"`
	Lang          string           `json:"lang,omitempty"`
	Timestamp     string           `json:"timestamp"`
}

// FormatTimestamp renders timestamps the way history entries carry them.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
