package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"certledger/internal/verification/models"
)

// Redis-backed log stores. Each user gets a sorted set keyed by timestamp so
// listing stays ordered; a plain set per user backs the existence check.

type RedisVerificationLog struct {
	client *redis.Client
}

func NewRedisVerificationLog(client *redis.Client) *RedisVerificationLog {
	return &RedisVerificationLog{client: client}
}

func verificationSetKey(username string) string {
	return "certledger:verified:set:" + strings.ToLower(username)
}

func verificationLogKey(username string) string {
	return "certledger:verified:log:" + strings.ToLower(username)
}

func (s *RedisVerificationLog) Exists(ctx context.Context, username, certificateID string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, verificationSetKey(username), certificateID).Result()
	if err != nil {
		return false, fmt.Errorf("find verification log: %w", err)
	}
	return ok, nil
}

func (s *RedisVerificationLog) Append(ctx context.Context, entry models.VerificationLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal verification entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, verificationSetKey(entry.Username), entry.CertificateID)
	pipe.ZAdd(ctx, verificationLogKey(entry.Username), redis.Z{
		Score:  float64(entry.Timestamp.UnixNano()),
		Member: payload,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append verification log: %w", err)
	}
	return nil
}

func (s *RedisVerificationLog) ListByUser(ctx context.Context, username string) ([]models.VerificationLogEntry, error) {
	raw, err := s.client.ZRange(ctx, verificationLogKey(username), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list verification log: %w", err)
	}
	entries := make([]models.VerificationLogEntry, 0, len(raw))
	for _, member := range raw {
		var entry models.VerificationLogEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			return nil, fmt.Errorf("decode verification entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type RedisQuestionLog struct {
	client *redis.Client
}

func NewRedisQuestionLog(client *redis.Client) *RedisQuestionLog {
	return &RedisQuestionLog{client: client}
}

func questionLogKey(username string) string {
	return "certledger:questions:log:" + strings.ToLower(username)
}

func (s *RedisQuestionLog) Append(ctx context.Context, entry models.QuestionLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal question entry: %w", err)
	}
	err = s.client.ZAdd(ctx, questionLogKey(entry.Username), redis.Z{
		Score:  float64(entry.Timestamp.UnixNano()),
		Member: payload,
	}).Err()
	if err != nil {
		return fmt.Errorf("append question log: %w", err)
	}
	return nil
}

func (s *RedisQuestionLog) ListByUser(ctx context.Context, username string) ([]models.QuestionLogEntry, error) {
	raw, err := s.client.ZRange(ctx, questionLogKey(username), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list question log: %w", err)
	}
	entries := make([]models.QuestionLogEntry, 0, len(raw))
	for _, member := range raw {
		var entry models.QuestionLogEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			return nil, fmt.Errorf("decode question entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
