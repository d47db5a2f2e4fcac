// Package cache stores computed aggregates in redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/stats"
)

// Redis stores JSON encoded values under prefixed keys.
type Redis struct {
	c      *redis.Client
	prefix string
}

var _ stats.Cache = (*Redis)(nil)

func NewRedis(c *redis.Client, prefix string) *Redis {
	return &Redis{c: c, prefix: prefix}
}

// Open connects to the configured redis server. It returns a Nop cache when no address is configured.
func Open(ctx context.Context, conf *core.Config) (stats.Cache, func() error, error) {
	if conf.Redis.Addr == "" {
		return Nop{}, func() error { return nil }, nil
	}
	c := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, nil, errors.Wrap(err, "pinging redis")
	}
	return NewRedis(c, conf.Redis.Prefix), c.Close, nil
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Get(ctx context.Context, key string, dst interface{}) error {
	val, err := r.c.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return core.ErrCacheMiss
		}
		return errors.Wrap(err, "redis get")
	}
	return errors.Wrap(json.Unmarshal(val, dst), "decoding cached value")
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "encoding cached value")
	}
	return errors.Wrap(r.c.Set(ctx, r.key(key), b, ttl).Err(), "redis set")
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, r.key(k))
	}
	return errors.Wrap(r.c.Del(ctx, prefixed...).Err(), "redis del")
}

// Nop never stores anything: every Get misses.
type Nop struct{}

var _ stats.Cache = Nop{}

func (Nop) Get(context.Context, string, interface{}) error                { return core.ErrCacheMiss }
func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (Nop) Delete(context.Context, ...string) error                       { return nil }
