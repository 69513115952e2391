package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, window time.Duration, max int) (Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return Limiter{Client: client, Prefix: "rl:", Window: window, Max: max}, mr
}

func TestAllowSlidingWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t, 2*time.Second, 2)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements", nil)

	for i := 0; i < 2; i++ {
		allowed, remaining, _, err := limiter.Allow(req, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, allowed, "request %d should pass", i)
		require.Equal(t, 2-(i+1), remaining)
	}

	allowed, remaining, _, err := limiter.Allow(req, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, 0, remaining)

	// other keys are unaffected
	allowed, _, _, err = limiter.Allow(req, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, allowed)

	mr.FastForward(2 * time.Second)
	allowed, _, _, err = limiter.Allow(req, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestAllowDisabledWithoutClient(t *testing.T) {
	limiter := Limiter{Window: time.Second, Max: 1}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for i := 0; i < 5; i++ {
		allowed, _, _, err := limiter.Allow(req, "any")
		require.NoError(t, err)
		require.True(t, allowed)
	}
}

func TestMiddlewareHeadersAndRejection(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute, 1)
	handler := Middleware{
		Limiter: limiter,
		KeyFunc: func(r *http.Request) string { return r.RemoteAddr },
	}.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.NotEmpty(t, second.Header().Get("Retry-After"))
}
