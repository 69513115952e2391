// Package ratelimit implements a sliding-window limiter on Redis sorted
// sets, with an HTTP middleware for the statement endpoints. A nil Redis
// client disables limiting entirely.
package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter tracks request timestamps per key in a Redis sorted set and
// counts the entries inside the trailing window.
type Limiter struct {
	Client *redis.Client
	Prefix string
	Window time.Duration
	Max    int
}

// Allow registers an event for the key and reports whether it stays within
// the limit, along with the remaining allowance and the window reset time.
func (l Limiter) Allow(r *http.Request, key string) (allowed bool, remaining int, reset time.Time, err error) {
	now := time.Now()
	reset = now.Add(l.Window)
	if l.Client == nil || l.Max <= 0 || l.Window <= 0 {
		return true, l.Max, reset, nil
	}

	ctx := r.Context()
	redisKey := l.Prefix + key
	cutoff := float64(now.Add(-l.Window).UnixNano())

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("%f", cutoff))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.Window)
	if _, err = pipe.Exec(ctx); err != nil {
		return false, 0, reset, err
	}

	current := int(countCmd.Val())
	remaining = l.Max - current
	if remaining < 0 {
		remaining = 0
	}
	return current <= l.Max, remaining, reset, nil
}

// Middleware enforces the limit keyed by KeyFunc before delegating. Limiter
// errors fail open: a broken Redis must not take billing down with it.
type Middleware struct {
	Limiter Limiter
	KeyFunc func(*http.Request) string
	OnError func(error)
}

// Handler wraps next with rate limiting.
func (m Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.KeyFunc == nil {
			next.ServeHTTP(w, r)
			return
		}
		allowed, remaining, resetAt, err := m.Limiter.Allow(r, m.KeyFunc(r))
		if err != nil {
			if m.OnError != nil {
				m.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(m.Limiter.Max))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			headers.Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
