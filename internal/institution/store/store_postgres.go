package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"certledger/internal/institution/models"
	"certledger/pkg/platform/sentinel"
)

const pqUniqueViolation = "23505"

// PostgresStore persists the onboarding dataset in PostgreSQL. ApproveDomain
// runs in a single transaction; unique indexes on the institutions table
// back up the in-transaction checks against concurrent approvals from other
// processes.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) AppendPending(ctx context.Context, req models.PendingRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_institutions (name, domain, email, message)
		VALUES ($1, $2, $3, $4)
	`, req.Name, req.Domain, req.Email, req.Message)
	if err != nil {
		return fmt.Errorf("append pending institution: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListPending(ctx context.Context) ([]models.PendingRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, domain, email, message
		FROM pending_institutions
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list pending institutions: %w", err)
	}
	defer rows.Close()

	var reqs []models.PendingRequest
	for rows.Next() {
		var req models.PendingRequest
		if err := rows.Scan(&req.Name, &req.Domain, &req.Email, &req.Message); err != nil {
			return nil, fmt.Errorf("scan pending institution: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending institutions: %w", err)
	}
	return reqs, nil
}

func (s *PostgresStore) ListApproved(ctx context.Context) ([]models.Institution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, domain, code
		FROM institutions
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	defer rows.Close()

	var insts []models.Institution
	for rows.Next() {
		var inst models.Institution
		if err := rows.Scan(&inst.Name, &inst.Domain, &inst.Code); err != nil {
			return nil, fmt.Errorf("scan institution: %w", err)
		}
		insts = append(insts, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate institutions: %w", err)
	}
	return insts, nil
}

func (s *PostgresStore) FindApprovedByDomain(ctx context.Context, domain string) (*models.Institution, error) {
	var inst models.Institution
	err := s.db.QueryRowContext(ctx, `
		SELECT name, domain, code
		FROM institutions
		WHERE domain = $1
	`, domain).Scan(&inst.Name, &inst.Domain, &inst.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find institution: %w", err)
	}
	return &inst, nil
}

func (s *PostgresStore) ApproveDomain(ctx context.Context, domain string, newCode CodeFunc) (*models.Institution, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin approve: %w", err)
	}
	defer tx.Rollback()

	var match models.PendingRequest
	err = tx.QueryRowContext(ctx, `
		SELECT name, domain, email, message
		FROM pending_institutions
		WHERE domain = $1
		ORDER BY id
		LIMIT 1
		FOR UPDATE
	`, domain).Scan(&match.Name, &match.Domain, &match.Email, &match.Message)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find pending institution: %w", err)
	}

	var conflict bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM institutions
			WHERE LOWER(domain) = LOWER($1)
			   OR LOWER(TRIM(name)) = LOWER(TRIM($2))
		)
	`, match.Domain, match.Name).Scan(&conflict)
	if err != nil {
		return nil, fmt.Errorf("check institution uniqueness: %w", err)
	}
	if conflict {
		return nil, sentinel.ErrConflict
	}

	code, err := s.unusedCode(ctx, tx, newCode)
	if err != nil {
		return nil, err
	}

	inst := models.Institution{Name: match.Name, Domain: match.Domain, Code: code}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO institutions (name, domain, code)
		VALUES ($1, $2, $3)
	`, inst.Name, inst.Domain, inst.Code); err != nil {
		if isUniqueViolation(err) {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("insert institution: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM pending_institutions WHERE domain = $1
	`, domain); err != nil {
		return nil, fmt.Errorf("clear pending institutions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("commit approve: %w", err)
	}
	return &inst, nil
}

func (s *PostgresStore) RemovePending(ctx context.Context, domain string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM pending_institutions WHERE domain = $1
	`, domain)
	if err != nil {
		return 0, fmt.Errorf("remove pending institutions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("remove pending institutions: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) unusedCode(ctx context.Context, tx *sql.Tx, newCode CodeFunc) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := newCode()
		if err != nil {
			return "", err
		}
		var inUse bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM institutions WHERE code = $1)
		`, code).Scan(&inUse)
		if err != nil {
			return "", fmt.Errorf("check registrar code: %w", err)
		}
		if !inUse {
			return code, nil
		}
	}
	return "", fmt.Errorf("no unused registrar code after %d attempts", maxCodeAttempts)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
