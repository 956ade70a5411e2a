package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Raj7122/agentchat/message"
)

// RedisStore implements Store using Redis lists, one list per session.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisConfig holds Redis connection settings for transcript storage.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewRedisStore creates a Redis-backed transcript store.
func NewRedisStore(config *RedisConfig) *RedisStore {
	if config == nil {
		config = &RedisConfig{Addr: "localhost:6379"}
	}
	if config.Prefix == "" {
		config.Prefix = "agentchat:session:"
	}
	if config.TTL == 0 {
		config.TTL = 24 * time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisStore{
		client: client,
		prefix: config.Prefix,
		ttl:    config.TTL,
	}
}

// Append pushes messages onto the session list and refreshes its TTL.
func (s *RedisStore) Append(ctx context.Context, sessionID string, msgs ...*message.Message) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	if len(msgs) == 0 {
		return nil
	}

	key := s.key(sessionID)
	values := make([]any, 0, len(msgs))
	for _, msg := range msgs {
		raw, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		values = append(values, raw)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append transcript: %w", err)
	}
	return nil
}

// History returns the full session transcript.
func (s *RedisStore) History(ctx context.Context, sessionID string) ([]*message.Message, error) {
	raw, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	msgs := make([]*message.Message, 0, len(raw))
	for _, item := range raw {
		var msg message.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode transcript message: %w", err)
		}
		msgs = append(msgs, &msg)
	}
	return msgs, nil
}

// Clear removes the session transcript.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete transcript: %w", err)
	}
	return nil
}

// Close releases the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}
