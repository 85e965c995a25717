package grocery

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists check state as one hash per user. It suits
// deployments where toggles are frequent and the relational store should
// not take a write per tap.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore on an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(userID string) string {
	return "plateplanner:checks:" + userID
}

// LoadChecks retrieves the stored check state for a user. A missing hash
// yields an empty state.
func (s *RedisStore) LoadChecks(ctx context.Context, userID string) (CheckState, error) {
	fields, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load check state: %w", err)
	}

	state := make(CheckState, len(fields))
	for name, v := range fields {
		state[name] = v == "1"
	}
	return state, nil
}

// SaveChecks replaces the user's hash with the given state. The delete
// and rewrite run in one pipeline so a reader never sees a half-written
// state.
func (s *RedisStore) SaveChecks(ctx context.Context, userID string, state CheckState) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(userID))
	if len(state) > 0 {
		fields := make(map[string]interface{}, len(state))
		for name, checked := range state {
			v := "0"
			if checked {
				v = "1"
			}
			fields[name] = v
		}
		pipe.HSet(ctx, s.key(userID), fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save check state: %w", err)
	}
	return nil
}
