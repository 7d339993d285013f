package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const likesKeyPrefix = "stock:likes:"

// Compile-time check to ensure RedisStore implements LikeStore
var _ LikeStore = (*RedisStore)(nil)

// RedisStore keeps each symbol's likers as a redis set. SADD plus SCARD run
// inside one MULTI/EXEC, so the returned count is the post-mutation size
// and concurrent likes of the same symbol serialize on the server.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) RegisterLikeAndCount(ctx context.Context, symbol, liker string) (int, error) {
	key := likesKeyPrefix + symbol

	pipe := r.client.TxPipeline()
	if liker != "" {
		pipe.SAdd(ctx, key, liker)
	}
	card := pipe.SCard(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("register like for %s: %w", symbol, err)
	}
	return int(card.Val()), nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
