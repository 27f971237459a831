package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/schoolhub/school-console/internal/core/ports"
)

// DefaultPrefix namespaces the console keys.
const DefaultPrefix = "console:"

// StateStore persists session state as plain string keys.
// Key format: <prefix><key>
type StateStore struct {
	client redis.Cmdable
	prefix string
}

// NewStateStore wraps client. An empty prefix uses DefaultPrefix.
func NewStateStore(client redis.Cmdable, prefix string) *StateStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &StateStore{client: client, prefix: prefix}
}

func (s *StateStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value without expiry. Token lifetime is enforced by the codec.
func (s *StateStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *StateStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *StateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var _ ports.PersistenceStore = (*StateStore)(nil)
