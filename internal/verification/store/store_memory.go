package store

import (
	"context"
	"strings"
	"sync"

	"certledger/internal/verification/models"
)

// In-memory stores keep the initial implementation lightweight and testable.
// They intentionally favor clarity over performance.

// InMemoryVerificationLog is an append-only, mutex-guarded verification log.
type InMemoryVerificationLog struct {
	mu      sync.RWMutex
	entries map[string][]models.VerificationLogEntry
}

func NewInMemoryVerificationLog() *InMemoryVerificationLog {
	return &InMemoryVerificationLog{entries: make(map[string][]models.VerificationLogEntry)}
}

func (s *InMemoryVerificationLog) Exists(_ context.Context, username, certificateID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries[strings.ToLower(username)] {
		if entry.CertificateID == certificateID {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryVerificationLog) Append(_ context.Context, entry models.VerificationLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(entry.Username)
	s.entries[key] = append(s.entries[key], entry)
	return nil
}

func (s *InMemoryVerificationLog) ListByUser(_ context.Context, username string) ([]models.VerificationLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.VerificationLogEntry{}, s.entries[strings.ToLower(username)]...), nil
}

// InMemoryQuestionLog is the in-memory question audit trail.
type InMemoryQuestionLog struct {
	mu      sync.RWMutex
	entries map[string][]models.QuestionLogEntry
}

func NewInMemoryQuestionLog() *InMemoryQuestionLog {
	return &InMemoryQuestionLog{entries: make(map[string][]models.QuestionLogEntry)}
}

func (s *InMemoryQuestionLog) Append(_ context.Context, entry models.QuestionLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(entry.Username)
	s.entries[key] = append(s.entries[key], entry)
	return nil
}

func (s *InMemoryQuestionLog) ListByUser(_ context.Context, username string) ([]models.QuestionLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.QuestionLogEntry{}, s.entries[strings.ToLower(username)]...), nil
}
