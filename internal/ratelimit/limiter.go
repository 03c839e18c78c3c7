// Package ratelimit provides per-IP request limiting for the report API,
// Redis-backed when available with an in-memory fallback.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	Burst             int
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		Burst:             20,
	}
}

// Limiter provides distributed rate limiting with an in-memory fallback
// when Redis is not configured or unreachable.
type Limiter struct {
	config       Config
	redisLimiter *redis_rate.Limiter

	mu        sync.Mutex
	fallback  map[string]*fallbackEntry
	lastSweep time.Time
}

type fallbackEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter. redisURL may be empty; a failed connection
// degrades to in-memory limiting rather than refusing to start.
func New(redisURL string, config Config) *Limiter {
	l := &Limiter{
		config:    config,
		fallback:  make(map[string]*fallbackEntry),
		lastSweep: time.Now(),
	}

	if redisURL == "" {
		slog.Warn("Redis not configured, rate limiting is in-memory only")
		return l
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Error("Invalid Redis URL, rate limiting is in-memory only", "error", err)
		return l
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Redis ping failed, rate limiting is in-memory only", "error", err)
		return l
	}

	l.redisLimiter = redis_rate.NewLimiter(client)
	slog.Info("Redis rate limiter initialized")
	return l
}

// Allow reports whether the client identified by key may proceed, and the
// suggested retry delay when it may not.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l.redisLimiter != nil {
		res, err := l.redisLimiter.Allow(ctx, "ratelimit:ip:"+key, redis_rate.Limit{
			Rate:   l.config.RequestsPerMinute,
			Burst:  l.config.Burst,
			Period: time.Minute,
		})
		if err == nil {
			return res.Allowed > 0, res.RetryAfter
		}
		slog.Warn("Redis rate limit check failed, using fallback", "error", err)
	}

	return l.allowFallback(key)
}

func (l *Limiter) allowFallback(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Opportunistic sweep so idle client entries don't accumulate.
	if time.Since(l.lastSweep) > 10*time.Minute {
		for k, e := range l.fallback {
			if time.Since(e.lastSeen) > 10*time.Minute {
				delete(l.fallback, k)
			}
		}
		l.lastSweep = time.Now()
	}

	e, ok := l.fallback[key]
	if !ok {
		e = &fallbackEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(l.config.RequestsPerMinute)/60), l.config.Burst),
		}
		l.fallback[key] = e
	}
	e.lastSeen = time.Now()

	if e.limiter.Allow() {
		return true, 0
	}
	return false, time.Second
}
