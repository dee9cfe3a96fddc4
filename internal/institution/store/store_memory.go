package store

import (
	"context"
	"sync"

	"certledger/internal/institution/models"
	"certledger/pkg/platform/sentinel"
)

// MemoryStore is an in-process Store for tests and single-node deployments.
type MemoryStore struct {
	mu sync.Mutex
	st state
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) AppendPending(_ context.Context, req models.PendingRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.appendPending(req)
	return nil
}

func (m *MemoryStore) ListPending(_ context.Context) ([]models.PendingRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PendingRequest, len(m.st.Pending))
	copy(out, m.st.Pending)
	return out, nil
}

func (m *MemoryStore) ListApproved(_ context.Context) ([]models.Institution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Institution, len(m.st.Approved))
	copy(out, m.st.Approved)
	return out, nil
}

func (m *MemoryStore) FindApprovedByDomain(_ context.Context, domain string) (*models.Institution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inst := m.st.findApproved(domain); inst != nil {
		return inst, nil
	}
	return nil, sentinel.ErrNotFound
}

func (m *MemoryStore) ApproveDomain(_ context.Context, domain string, newCode CodeFunc) (*models.Institution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.approve(domain, newCode)
}

func (m *MemoryStore) RemovePending(_ context.Context, domain string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.removePending(domain), nil
}
