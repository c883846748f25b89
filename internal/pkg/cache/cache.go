// Package cache keeps token lookups out of the database when Redis is configured.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by TokenCache.Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// TokenCache maps token jti to account id.
type TokenCache interface {
	Get(ctx context.Context, jti string) (int64, error)
	Set(ctx context.Context, jti string, accountID int64, ttl time.Duration) error
	Delete(ctx context.Context, jti ...string) error
}

const tokenKeyPrefix = "token:auth:"

type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Get(ctx context.Context, jti string) (int64, error) {
	val, err := r.rdb.Get(ctx, tokenKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrMiss
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrMiss
	}
	return id, nil
}

func (r *Redis) Set(ctx context.Context, jti string, accountID int64, ttl time.Duration) error {
	return r.rdb.Set(ctx, tokenKeyPrefix+jti, accountID, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, jti ...string) error {
	if len(jti) == 0 {
		return nil
	}
	keys := make([]string, len(jti))
	for i, j := range jti {
		keys[i] = tokenKeyPrefix + j
	}
	return r.rdb.Del(ctx, keys...).Err()
}

// Nop never caches anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (int64, error)              { return 0, ErrMiss }
func (Nop) Set(context.Context, string, int64, time.Duration) error { return nil }
func (Nop) Delete(context.Context, ...string) error                 { return nil }
