// Package cache is a read-through cache over Redis. Entries are keyed by
// (entity type, scope) and invalidated explicitly after each successful
// mutation affecting that scope; a short TTL bounds staleness when an
// invalidation is missed. Cache failures degrade to store reads, never
// to request failures.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultTTL = 30 * time.Second

type Cache struct {
	rdb    *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

func New(rdb *redis.Client, logger *zap.Logger, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		rdb:    rdb,
		logger: logger,
		ttl:    ttl,
	}
}

// Key builds "entity:scope1:scope2" keys, e.g. standings for board 7 is
// "standings:7".
func Key(entity string, scope ...int) string {
	parts := make([]string, 0, len(scope)+1)
	parts = append(parts, entity)
	for _, s := range scope {
		parts = append(parts, strconv.Itoa(s))
	}
	return strings.Join(parts, ":")
}

// GetJSON reports whether the key was present and decoded into dest.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops the given keys after a mutation on their scope.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
