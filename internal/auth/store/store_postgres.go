package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"certledger/internal/auth/models"
	"certledger/pkg/platform/sentinel"
)

const pqUniqueViolation = "23505"

// PostgresUserStore persists accounts in PostgreSQL. The unique index on
// username turns concurrent duplicate registrations into ErrConflict.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password, role, secret_word, email, institution_domain)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
	`, user.ID, user.Username, user.PasswordHash, user.Role, user.SecretWordHash, user.Email, user.InstitutionDomain)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var (
		user              models.User
		email             sql.NullString
		institutionDomain sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password, role, secret_word, email, institution_domain
		FROM users
		WHERE username = $1
	`, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
		&user.SecretWordHash, &email, &institutionDomain,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	user.Email = email.String
	user.InstitutionDomain = institutionDomain.String
	return &user, nil
}

func (s *PostgresUserStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $2 WHERE username = $1
	`, username, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
