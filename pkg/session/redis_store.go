package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists sessions in Redis with per-key TTL. Useful when the
// session working set should live apart from the document store.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an already-connected Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(token string) string { return "floracart:session:" + token }

func (s *RedisStore) Put(ctx context.Context, token string, identity Identity, ttl time.Duration) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("session: redis marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("session: redis put: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (Identity, bool, error) {
	val, err := s.rdb.Get(ctx, redisKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, fmt.Errorf("session: redis get: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal([]byte(val), &identity); err != nil {
		return Identity{}, false, fmt.Errorf("session: redis unmarshal: %w", err)
	}
	return identity, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, redisKey(token)).Err(); err != nil {
		return fmt.Errorf("session: redis delete: %w", err)
	}
	return nil
}
