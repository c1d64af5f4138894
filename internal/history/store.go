package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultHistoryTTL = 30 * 24 * time.Hour

// Store persists chat rows per conversation in Redis, newest first.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewStore(redisClient *redis.Client, ttl time.Duration, tracer trace.Tracer) *Store {
	if redisClient == nil {
		panic("history: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultHistoryTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("assistant.internal.history")
	}
	return &Store{
		redis:  redisClient,
		ttl:    ttl,
		tracer: tracer,
	}
}

// Append stores one chat row for the conversation.
func (s *Store) Append(ctx context.Context, chatID string, role Role, body string) error {
	ctx, span := s.tracer.Start(ctx, "history.append")
	defer span.End()

	row := RawMessage{
		Body:      &body,
		IsUser:    role == RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(row)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("history: failed to marshal row: %w", err)
	}

	pipe := s.redis.TxPipeline()
	pipe.LPush(ctx, chatKey(chatID), data)
	pipe.Expire(ctx, chatKey(chatID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("history: failed to persist row: %w", err)
	}
	return nil
}

// Recent returns up to limit rows for the conversation, newest first,
// mirroring a descending-order fetch from the backing table.
func (s *Store) Recent(ctx context.Context, chatID string, limit int) ([]RawMessage, error) {
	ctx, span := s.tracer.Start(ctx, "history.recent")
	defer span.End()

	if limit <= 0 {
		limit = 10
	}
	values, err := s.redis.LRange(ctx, chatKey(chatID), 0, int64(limit-1)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("history: failed to load rows: %w", err)
	}

	rows := make([]RawMessage, 0, len(values))
	for _, v := range values {
		var row RawMessage
		if err := json.Unmarshal([]byte(v), &row); err != nil {
			// A corrupt row is dropped rather than failing the read;
			// the normalizer applies the same policy downstream.
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func chatKey(chatID string) string {
	return fmt.Sprintf("chat_history:%s", chatID)
}
