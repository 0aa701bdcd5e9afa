package tokens

import (
	"context"
	"fmt"

	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"github.com/redis/go-redis/v9"
)

const (
	accessField  = "access_token"
	refreshField = "refresh_token"
)

// RedisStore keeps the token pair in one Redis hash
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a Redis backend storing the pair under key
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load reads both hash fields at once
func (s *RedisStore) Load(ctx context.Context) (*tokens.Pair, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}
	if len(values) == 0 {
		return nil, tokens.ErrNotFound
	}

	return &tokens.Pair{
		AccessToken:  values[accessField],
		RefreshToken: values[refreshField],
	}, nil
}

// Save sets both hash fields in a single HSET
func (s *RedisStore) Save(ctx context.Context, pair tokens.Pair) error {
	err := s.client.HSet(ctx, s.key,
		accessField, pair.AccessToken,
		refreshField, pair.RefreshToken,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
