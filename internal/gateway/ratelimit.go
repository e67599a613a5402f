package gateway

import (
	"context"
	"fmt"
	"time"

	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// NewRedisClient creates the Redis client backing the gateway rate limiter.
func NewRedisClient(addr string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, DB: db})
}

// RedisRateLimiterStore is a fixed-window rate limiter usable as an echo
// middleware.RateLimiterStore. Counters live in Redis under
// ratelimit:<identifier>:<window_index> and expire with the window, so
// multiple gateway instances share one budget per caller.
type RedisRateLimiterStore struct {
	client *redis.Client
	window time.Duration
	max    int64
	log    zerolog.Logger
}

func NewRedisRateLimiterStore(client *redis.Client, window time.Duration, max int, log zerolog.Logger) *RedisRateLimiterStore {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiterStore{client: client, window: window, max: int64(max), log: log}
}

// Allow reports whether the identifier may proceed in the current window.
// Redis failures fail open: rate limiting protects upstreams, it is not an
// availability dependency.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	key := s.key(identifier)
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.log.Warn().Err(err).Msg("rate limiter redis unavailable, failing open")
		return true, nil
	}
	if n == 1 {
		s.client.Expire(ctx, key, s.window)
	}
	return n <= s.max, nil
}

func (s *RedisRateLimiterStore) key(identifier string) string {
	windowIdx := time.Now().Unix() / int64(s.window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%d", identifier, windowIdx)
}

// newRateLimiterStore picks the Redis store when an address is configured
// and the in-process token bucket store otherwise.
func newRateLimiterStore(redisAddr string, redisDB int, window time.Duration, max int, log zerolog.Logger) echomiddleware.RateLimiterStore {
	if redisAddr != "" {
		return NewRedisRateLimiterStore(NewRedisClient(redisAddr, redisDB), window, max, log)
	}
	return echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(max) / window.Seconds()),
		Burst:     max,
		ExpiresIn: 3 * window,
	})
}
