package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cognitive-core/agent-gateway/internal/types"
)

const historyKeyPrefix = "session:history:"

// RedisStore keeps session history in Redis lists. It is the opt-in backend
// for deployments that want history to survive gateway restarts; the
// delegation path behaves identically with either store.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// GetOrCreate returns the session ID, generating one when empty
func (s *RedisStore) GetOrCreate(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = newSessionID()
	}
	// Touch the key so the TTL tracks activity, not creation
	if err := s.rdb.Expire(ctx, s.key(sessionID), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to touch session: %w", err)
	}
	return sessionID, nil
}

// AppendExchange records one user/assistant round trip
func (s *RedisStore) AppendExchange(ctx context.Context, sessionID, userText, assistantText string) error {
	messages := []types.Message{
		{Role: types.RoleUser, Content: userText},
		{Role: types.RoleAssistant, Content: assistantText},
	}

	key := s.key(sessionID)
	pipe := s.rdb.Pipeline()
	for _, msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		pipe.RPush(ctx, key, string(data))
	}
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append session history: %w", err)
	}
	return nil
}

// History returns the recorded messages in conversation order
func (s *RedisStore) History(ctx context.Context, sessionID string) ([]types.Message, error) {
	items, err := s.rdb.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}

	messages := make([]types.Message, 0, len(items))
	for _, item := range items {
		var msg types.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("corrupt session history entry: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Ping checks Redis connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) key(sessionID string) string {
	return historyKeyPrefix + sessionID
}
