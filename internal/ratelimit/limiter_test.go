package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
)

type countingMetrics struct {
	blocks, redisErrors, fallbacks int64
}

func (m *countingMetrics) IncrementRateLimitIPBlock()    { atomic.AddInt64(&m.blocks, 1) }
func (m *countingMetrics) IncrementRateLimitRedisError() { atomic.AddInt64(&m.redisErrors, 1) }
func (m *countingMetrics) IncrementRateLimitFallback()   { atomic.AddInt64(&m.fallbacks, 1) }

func newFallbackLimiter(t *testing.T, cfg Config) (*RateLimiter, *countingMetrics) {
	t.Helper()
	metrics := &countingMetrics{}
	limiter := NewRateLimiter(&RedisClient{enabled: false}, cfg, metrics)
	t.Cleanup(limiter.Close)
	return limiter, metrics
}

func TestRateLimiterFallbackMode(t *testing.T) {
	limiter, metrics := newFallbackLimiter(t, DefaultConfig())

	ctx := context.Background()
	rateLimit := Rate{Limit: 5, Period: time.Minute}

	for i := 0; i < 5; i++ {
		result, err := limiter.Allow(ctx, "test:key", rateLimit)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
		assert.Equal(t, 4-i, result.Remaining)
	}

	result, err := limiter.Allow(ctx, "test:key", rateLimit)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
	assert.GreaterOrEqual(t, result.RetryAfter, time.Second)
	assert.EqualValues(t, 6, metrics.fallbacks)
}

func TestRateLimiterMultipleKeys(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())

	ctx := context.Background()
	rateLimit := Rate{Limit: 3, Period: time.Minute}

	for _, key := range []string{"a", "b", "c"} {
		for i := 0; i < 3; i++ {
			result, err := limiter.Allow(ctx, key, rateLimit)
			require.NoError(t, err)
			assert.True(t, result.Allowed, "key %s request %d", key, i+1)
		}
		result, err := limiter.Allow(ctx, key, rateLimit)
		require.NoError(t, err)
		assert.False(t, result.Allowed, "key %s 4th request", key)
	}
}

func TestRateLimiterInvalidRate(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())

	tests := []Rate{
		{Limit: 0, Period: time.Minute},
		{Limit: 5, Period: 0},
		{Limit: -1, Period: time.Second},
	}
	for _, r := range tests {
		_, err := limiter.Allow(context.Background(), "k", r)
		assert.Error(t, err)
	}
}

func TestRateLimiterReset(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, Config{IPLimitPerMin: 1})
	ctx := context.Background()

	first, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	blocked, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	require.NoError(t, limiter.Reset(ctx, "10.0.0.1"))
	again, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, again.Allowed)
}

func TestRateLimiterStats(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())

	for i := 0; i < 3; i++ {
		_, _ = limiter.AllowIP(context.Background(), "10.0.0.1")
	}
	_, _ = limiter.AllowIP(context.Background(), "10.0.0.2")

	stats := limiter.GetStats()
	assert.Equal(t, false, stats["redis_enabled"])
	assert.Equal(t, 60, stats["ip_limit_per_min"])
	assert.Equal(t, 2, stats["fallback_limiters"])
	assert.NotContains(t, stats, "redis_pool")
}

func TestRateLimiterConcurrency(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())

	rateLimit := Rate{Limit: 100, Period: time.Hour}
	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				result, err := limiter.Allow(context.Background(), "concurrent", rateLimit)
				if assert.NoError(t, err) && result.Allowed {
					atomic.AddInt64(&allowed, 1)
				}
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 100, allowed)
}

func TestDisabledRedisClient(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.False(t, client.IsEnabled())
	assert.Error(t, client.HealthCheck(context.Background()))
	assert.NoError(t, client.Close())
	assert.Equal(t, false, client.GetPoolStats()["enabled"])

	var nilClient *RedisClient
	assert.False(t, nilClient.IsEnabled())
}

func TestIPRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, metrics := newFallbackLimiter(t, Config{IPLimitPerMin: 2, ExemptPaths: []string{"/health"}})

	r := gin.New()
	r.Use(limiter.IPRateLimitMiddleware())
	r.GET("/api/v1/model", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "192.0.2.1:1234"
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, get("/api/v1/model").Code)
	second := get("/api/v1/model")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "2", second.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	blocked := get("/api/v1/model")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), string(apperrors.CategoryRateLimit))
	assert.EqualValues(t, 1, metrics.blocks)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get("/health").Code)
	}
}
