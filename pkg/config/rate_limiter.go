package config

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	. "bookingapp/pkg/tracing"
)

type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, resetTime time.Time, err error)
}

type RateLimiter struct {
	store   RateLimitStore
	config  map[string]RateLimitEndpointConfig
	logger  *zap.Logger
	metrics *AppMetrics
	mutex   sync.RWMutex
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(logger *zap.Logger, metrics *AppMetrics, store RateLimitStore, configs map[string]RateLimitConfig) *RateLimiter {
	endpoints := make(map[string]RateLimitEndpointConfig, len(configs)+1)

	for path, cfg := range configs {
		endpoints[path] = RateLimitEndpointConfig{
			Requests: cfg.Requests,
			Window:   cfg.Window,
			KeyFunc:  GetClientIP,
		}
	}

	if _, ok := endpoints["default"]; !ok {
		endpoints["default"] = RateLimitEndpointConfig{
			Requests: 60,
			Window:   time.Minute,
			KeyFunc:  GetClientIP,
		}
	}

	return &RateLimiter{
		store:   store,
		config:  endpoints,
		logger:  logger,
		metrics: metrics,
	}
}

// NewRateLimitStore picks the store named in cfg.
func NewRateLimitStore(cfg *AppConfig) RateLimitStore {
	if cfg.RateLimitStore == StoreRedis {
		return NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	return NewMemoryStore()
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path
		config := rl.configFor(methodPath, path)
		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, config.KeyFunc(c))

		allowed, remaining, resetTime, err := rl.store.Allow(c.Request.Context(), key, config.Requests, config.Window)

		if err != nil {
			rl.logger.Error("Rate limit check failed",
				zap.String("key", key),
				zap.String("path", path),
				zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, "ip")
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", config.Requests),
				zap.Duration("window", config.Window))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", config.Requests, config.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, "ip")
		}

		c.Next()
	}
}

func (rl *RateLimiter) configFor(methodPath, path string) RateLimitEndpointConfig {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	if config, ok := rl.config[methodPath]; ok {
		return config
	}

	if config, ok := rl.config[path]; ok {
		return config
	}

	return rl.config["default"]
}

func (rl *RateLimiter) SetConfig(path string, config RateLimitEndpointConfig) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if config.KeyFunc == nil {
		config.KeyFunc = GetClientIP
	}

	rl.config[path] = config
}

// MemoryStore keeps counters in process. Each replica limits on its own.
type MemoryStore struct {
	cache *cache.Cache
	mutex sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(5*time.Minute, 10*time.Minute)}
}

func (ms *MemoryStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Time, error) {
	now := time.Now()

	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if entry, found := ms.cache.Get(key); found {
		rateLimitEntry := entry.(RateLimitEntry)

		if now.Before(rateLimitEntry.ResetTime) {
			if rateLimitEntry.Count >= limit {
				return false, 0, rateLimitEntry.ResetTime, nil
			}

			rateLimitEntry.Count++
			ms.cache.Set(key, rateLimitEntry, time.Until(rateLimitEntry.ResetTime))

			return true, limit - rateLimitEntry.Count, rateLimitEntry.ResetTime, nil
		}
	}

	resetTime := now.Add(window)
	ms.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, window)

	return true, limit - 1, resetTime, nil
}

func (ms *MemoryStore) ItemCount() int {
	return ms.cache.ItemCount()
}

// RedisStore shares counters between replicas with INCR and a window TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (rs *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Time, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)

	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})

	if err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incr.Val())
	remaining := ttl.Val()

	if remaining <= 0 {
		remaining = window
	}

	resetTime := time.Now().Add(remaining)

	if count > limit {
		return false, 0, resetTime, nil
	}

	return true, limit - count, resetTime, nil
}
