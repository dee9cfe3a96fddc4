package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"certledger/internal/auth/models"
	"certledger/pkg/platform/sentinel"
)

type MemoryUserSuite struct {
	suite.Suite
	store *MemoryUserStore
	ctx   context.Context
}

func (s *MemoryUserSuite) SetupTest() {
	s.store = NewMemoryUserStore()
	s.ctx = context.Background()
}

func TestMemoryUserSuite(t *testing.T) {
	suite.Run(t, new(MemoryUserSuite))
}

func (s *MemoryUserSuite) user(username string) models.User {
	return models.User{
		ID:             uuid.New(),
		Username:       username,
		PasswordHash:   "hash-one",
		Role:           models.RoleVerifier,
		SecretWordHash: "hash-two",
	}
}

func (s *MemoryUserSuite) TestCreateAndFind() {
	s.Require().NoError(s.store.Create(s.ctx, s.user("alice")))

	found, err := s.store.FindByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", found.Username)

	_, err = s.store.FindByUsername(s.ctx, "ghost")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryUserSuite) TestDuplicateUsernameConflicts() {
	s.Require().NoError(s.store.Create(s.ctx, s.user("alice")))
	s.Require().ErrorIs(s.store.Create(s.ctx, s.user("alice")), sentinel.ErrConflict)
}

func (s *MemoryUserSuite) TestUpdatePassword() {
	s.Require().NoError(s.store.Create(s.ctx, s.user("alice")))
	s.Require().NoError(s.store.UpdatePassword(s.ctx, "alice", "rotated"))

	found, err := s.store.FindByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("rotated", found.PasswordHash)

	s.Require().ErrorIs(s.store.UpdatePassword(s.ctx, "ghost", "x"), sentinel.ErrNotFound)
}

func (s *MemoryUserSuite) TestFindReturnsACopy() {
	s.Require().NoError(s.store.Create(s.ctx, s.user("alice")))

	found, err := s.store.FindByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	found.PasswordHash = "mutated"

	again, err := s.store.FindByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("hash-one", again.PasswordHash)
}
