package store

import (
	"context"
	"sync"

	"certledger/internal/auth/models"
	"certledger/pkg/platform/sentinel"
)

// MemoryUserStore is an in-process UserStore for tests and single-node
// deployments.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[string]models.User{}}
}

func (m *MemoryUserStore) Create(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.users[user.Username]; taken {
		return sentinel.ErrConflict
	}
	m.users[user.Username] = user
	return nil
}

func (m *MemoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}

func (m *MemoryUserStore) UpdatePassword(_ context.Context, username, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return sentinel.ErrNotFound
	}
	user.PasswordHash = passwordHash
	m.users[username] = user
	return nil
}
