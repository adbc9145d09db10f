package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/engine"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/services"
)

var _ services.AnalyticsCache = (*RedisAnalyticsCache)(nil)

const DefaultAnalyticsTTL = 10 * time.Minute

// RedisAnalyticsCache stores computed analytics as JSON under the key built
// by the stats service. Keys already encode the whole input, so entries are
// never invalidated, only expired.
//
// Every call goes through a circuit breaker: while Redis keeps failing the
// cache behaves as always-miss and requests fall through to the engine.
type RedisAnalyticsCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewRedisAnalyticsCache(client *redis.Client, ttl time.Duration) *RedisAnalyticsCache {
	if ttl <= 0 {
		ttl = DefaultAnalyticsTTL
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "redis-analytics-cache",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[CACHE] Circuit %s: %s -> %s", name, from, to)
		},
	})

	return &RedisAnalyticsCache{
		client:  client,
		ttl:     ttl,
		breaker: breaker,
	}
}

func (c *RedisAnalyticsCache) Get(ctx context.Context, key string) (*engine.Analytics, bool) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.client.Get(ctx, key).Bytes()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CACHE] Redis read error: %v", err)
		}
		return nil, false
	}

	var a engine.Analytics
	if err := json.Unmarshal(data, &a); err != nil {
		log.Printf("[CACHE] Corrupted analytics under %s, cleaning up key", key)
		c.client.Del(ctx, key)
		return nil, false
	}
	return &a, true
}

func (c *RedisAnalyticsCache) Set(ctx context.Context, key string, a *engine.Analytics) {
	data, err := json.Marshal(a)
	if err != nil {
		log.Printf("[CACHE] Failed to encode analytics: %v", err)
		return
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, data, c.ttl).Err()
	})
	if err != nil {
		log.Printf("[CACHE] Redis set error: %v", err)
	}
}
