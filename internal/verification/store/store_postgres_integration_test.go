//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	"certledger/internal/verification/models"
	"certledger/pkg/testutil/containers"
)

type PostgresLogSuite struct {
	suite.Suite
	postgres      *containers.PostgresContainer
	verifications *PostgresVerificationLog
	questions     *PostgresQuestionLog
	ctx           context.Context
}

func TestPostgresLogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLogSuite))
}

func (s *PostgresLogSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.verifications = NewPostgresVerificationLog(s.postgres.DB)
	s.questions = NewPostgresQuestionLog(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresLogSuite) TearDownSuite() {
	s.postgres.Close(context.Background())
}

func (s *PostgresLogSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "verified_logs", "questions_logs"))
}

func (s *PostgresLogSuite) TestVerificationRoundTrip() {
	entry := models.VerificationLogEntry{
		Username:      "Alice",
		CertificateID: "CERT-1",
		Timestamp:     time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.verifications.Append(s.ctx, entry))

	ok, err := s.verifications.Exists(s.ctx, "aLiCe", "CERT-1")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.verifications.Exists(s.ctx, "alice", "CERT-2")
	s.Require().NoError(err)
	s.False(ok)

	entries, err := s.verifications.ListByUser(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("CERT-1", entries[0].CertificateID)
	s.True(entry.Timestamp.Equal(entries[0].Timestamp))
}

func (s *PostgresLogSuite) TestQuestionRoundTrip() {
	entry := models.QuestionLogEntry{
		Username:      "bob",
		CertificateID: "CERT-9",
		Question:      "is this real",
		Lang:          "en",
		Answer:        "yes",
		Timestamp:     time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.questions.Append(s.ctx, entry))

	entries, err := s.questions.ListByUser(s.ctx, "BOB")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("is this real", entries[0].Question)
	s.Equal("yes", entries[0].Answer)
}

func (s *PostgresLogSuite) TestListIsScopedToUser() {
	s.Require().NoError(s.verifications.Append(s.ctx, models.VerificationLogEntry{
		Username: "alice", CertificateID: "CERT-1", Timestamp: time.Now().UTC(),
	}))
	s.Require().NoError(s.verifications.Append(s.ctx, models.VerificationLogEntry{
		Username: "bob", CertificateID: "CERT-2", Timestamp: time.Now().UTC(),
	}))

	entries, err := s.verifications.ListByUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("CERT-1", entries[0].CertificateID)
}
