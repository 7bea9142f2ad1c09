// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rdb := newTestRedis(t)

	handler := NewRateLimiter(rdb, RateLimitConfig{
		Limit: PerMinute(10, 10),
	}).Handler(okHandler())

	for range 5 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/themes", nil)
		req.RemoteAddr = "203.0.113.7:52000"
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiterBlocksPastBurst(t *testing.T) {
	rdb := newTestRedis(t)

	handler := NewRateLimiter(rdb, RateLimitConfig{
		Limit: PerMinute(2, 2),
	}).Handler(okHandler())

	var lastCode int
	var lastRec *httptest.ResponseRecorder
	for range 5 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/themes", nil)
		req.RemoteAddr = "203.0.113.8:52000"
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
		lastRec = rec
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
	assert.NotEmpty(t, lastRec.Header().Get("Retry-After"))
	assert.Contains(t, lastRec.Body.String(), "RATE_LIMITED")
}

func TestRateLimiterKeysByForwardedFor(t *testing.T) {
	rdb := newTestRedis(t)

	handler := NewRateLimiter(rdb, RateLimitConfig{
		Limit: PerMinute(1, 1),
	}).Handler(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.Header.Set("X-Forwarded-For", "198.51.100.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same client is now exhausted.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, first.Clone(context.Background()))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client address is unaffected.
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("X-Forwarded-For", "198.51.100.2")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterBypass(t *testing.T) {
	rdb := newTestRedis(t)

	handler := NewRateLimiter(rdb, RateLimitConfig{
		Limit: PerMinute(1, 1),
		BypassFunc: func(r *http.Request) bool {
			return r.URL.Path == "/healthz"
		},
	}).Handler(okHandler())

	for range 10 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiterFailOpenOnRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	handler := NewRateLimiter(rdb, RateLimitConfig{
		Limit:    PerMinute(100, 100),
		FailOpen: true,
	}).Handler(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(rec, req)

	// The in-process fallback limiter answers when redis is gone, and a
	// generous limit still admits the request.
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlanRateLimiterPremiumOutlastsFree(t *testing.T) {
	rdb := newTestRedis(t)

	plans := map[string]PlanConfig{
		"free":    {RequestsPerMinute: 2, BurstSize: 2},
		"premium": {RequestsPerMinute: 100, BurstSize: 100},
	}

	handler := PlanRateLimiter(rdb, plans)(okHandler())

	send := func(accountID, plan string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/presentations", nil)
		ctx := context.WithValue(req.Context(), AccountIDKey, accountID)
		ctx = context.WithValue(ctx, AccountPlanKey, plan)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		return rec.Code
	}

	var freeCodes []int
	for range 5 {
		freeCodes = append(freeCodes, send("acct-free", "free"))
	}
	assert.Contains(t, freeCodes, http.StatusTooManyRequests)

	for range 5 {
		assert.Equal(t, http.StatusOK, send("acct-premium", "premium"))
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t,
		"/v1/presentations/{id}",
		normalizeEndpoint(
			"/v1/presentations/6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		),
	)
	assert.Equal(t, "/v1/accounts/{id}", normalizeEndpoint("/v1/accounts/42"))
	assert.Equal(t, "/v1/themes", normalizeEndpoint("/v1/themes"))
}

func TestPerMinute(t *testing.T) {
	limit := PerMinute(60, 10)
	assert.Equal(t, 60, limit.Rate)
	assert.Equal(t, 10, limit.Burst)
	assert.Equal(t, time.Minute, limit.Period)
}
