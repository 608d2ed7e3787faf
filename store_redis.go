package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const defaultRedisSlotKey = "session:token"

// RedisTokenStore keeps the slot in Redis, for clients whose durable state
// lives in a shared store rather than on local disk.
type RedisTokenStore struct {
	client redis.UniversalClient
	key    string
}

var _ TokenStore = (*RedisTokenStore)(nil)

// NewRedisTokenStore returns a slot stored under key; an empty key uses
// "session:token". One logical session per key.
func NewRedisTokenStore(client redis.UniversalClient, key string) *RedisTokenStore {
	if key == "" {
		key = defaultRedisSlotKey
	}
	return &RedisTokenStore{
		client: client,
		key:    key,
	}
}

func (r *RedisTokenStore) Read(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

func (r *RedisTokenStore) Write(ctx context.Context, token string) error {
	return r.client.Set(ctx, r.key, token, 0).Err()
}

func (r *RedisTokenStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
