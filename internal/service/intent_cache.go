package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/metrics"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

// IntentCache keeps model-derived intents in Redis. A nil cache is a no-op.
type IntentCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewIntentCache returns nil when ttl is not positive.
func NewIntentCache(rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *IntentCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &IntentCache{rdb: rdb, ttl: ttl, logger: logger}
}

// IntentCacheKey derives the cache key for a query and category list.
func IntentCacheKey(query string, categories []string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.Join(strings.Fields(query), " "))))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(categories, ",")))
	return "intent:" + hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached intent. Errors count as misses.
func (c *IntentCache) Get(ctx context.Context, query string, categories []string) (*model.SearchIntent, bool) {
	if c == nil {
		return nil, false
	}

	key := IntentCacheKey(query, categories)
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("intent cache get failed", zap.Error(err))
			metrics.IntentCacheTotal.WithLabelValues("error").Inc()
			return nil, false
		}
		metrics.IntentCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var intent model.SearchIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		c.logger.Warn("intent cache entry corrupt", zap.String("key", key), zap.Error(err))
		metrics.IntentCacheTotal.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.IntentCacheTotal.WithLabelValues("hit").Inc()
	return &intent, true
}

// Set stores an intent. Failures are logged only.
func (c *IntentCache) Set(ctx context.Context, query string, categories []string, intent *model.SearchIntent) {
	if c == nil || intent == nil {
		return
	}

	data, err := json.Marshal(intent)
	if err != nil {
		c.logger.Warn("marshal intent for cache", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, IntentCacheKey(query, categories), data, c.ttl).Err(); err != nil {
		c.logger.Warn("intent cache set failed", zap.Error(err))
	}
}
