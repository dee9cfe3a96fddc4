package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"certledger/internal/verification/models"
)

// PostgresVerificationLog persists verification entries in PostgreSQL.
type PostgresVerificationLog struct {
	db *sql.DB
}

func NewPostgresVerificationLog(db *sql.DB) *PostgresVerificationLog {
	return &PostgresVerificationLog{db: db}
}

func (s *PostgresVerificationLog) Exists(ctx context.Context, username, certificateID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM verified_logs
		WHERE LOWER(username) = LOWER($1) AND certificate_id = $2
		LIMIT 1
	`, username, certificateID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("find verification log: %w", err)
	}
	return true, nil
}

func (s *PostgresVerificationLog) Append(ctx context.Context, entry models.VerificationLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verified_logs (username, certificate_id, verified_at)
		VALUES ($1, $2, $3)
	`, entry.Username, entry.CertificateID, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("append verification log: %w", err)
	}
	return nil
}

func (s *PostgresVerificationLog) ListByUser(ctx context.Context, username string) ([]models.VerificationLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, certificate_id, verified_at
		FROM verified_logs
		WHERE LOWER(username) = LOWER($1)
	`, username)
	if err != nil {
		return nil, fmt.Errorf("list verification log: %w", err)
	}
	defer rows.Close()

	var entries []models.VerificationLogEntry
	for rows.Next() {
		var entry models.VerificationLogEntry
		if err := rows.Scan(&entry.Username, &entry.CertificateID, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan verification log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification log: %w", err)
	}
	return entries, nil
}

// PostgresQuestionLog persists question entries in PostgreSQL.
type PostgresQuestionLog struct {
	db *sql.DB
}

func NewPostgresQuestionLog(db *sql.DB) *PostgresQuestionLog {
	return &PostgresQuestionLog{db: db}
}

func (s *PostgresQuestionLog) Append(ctx context.Context, entry models.QuestionLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO questions_logs (username, certificate_id, question, lang, answer, asked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.Username, entry.CertificateID, entry.Question, entry.Lang, entry.Answer, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("append question log: %w", err)
	}
	return nil
}

func (s *PostgresQuestionLog) ListByUser(ctx context.Context, username string) ([]models.QuestionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, certificate_id, question, lang, answer, asked_at
		FROM questions_logs
		WHERE LOWER(username) = LOWER($1)
	`, username)
	if err != nil {
		return nil, fmt.Errorf("list question log: %w", err)
	}
	defer rows.Close()

	var entries []models.QuestionLogEntry
	for rows.Next() {
		var entry models.QuestionLogEntry
		if err := rows.Scan(&entry.Username, &entry.CertificateID, &entry.Question, &entry.Lang, &entry.Answer, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan question log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question log: %w", err)
	}
	return entries, nil
}
