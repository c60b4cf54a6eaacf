package cache

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	hits, misses int64
}

func (m *countingMetrics) IncrementCacheHit()  { atomic.AddInt64(&m.hits, 1) }
func (m *countingMetrics) IncrementCacheMiss() { atomic.AddInt64(&m.misses, 1) }

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCacheGetSet(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("v"), "text/plain")
	item, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), item.Data)
	assert.Equal(t, "text/plain", item.ContentType)
	assert.Equal(t, 1, c.Size())

	c.Delete("k")
	assert.Equal(t, 0, c.Size())
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Millisecond)
	defer c.Close()

	c.Set("k", []byte("v"), "text/plain")
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestCacheStatsAndClear(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Close()

	c.Set("a", nil, "")
	c.Set("b", nil, "")
	stats := c.Stats()
	assert.Equal(t, 2, stats["total_items"])
	assert.Equal(t, 2, stats["active_items"])
	assert.Equal(t, 60.0, stats["ttl_seconds"])

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestMiddleware(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Close()
	metrics := &countingMetrics{}

	var calls int64
	r := gin.New()
	r.Use(c.Middleware(metrics, "/api/v1/analytics"))
	r.GET("/api/v1/analytics/summary", func(ctx *gin.Context) {
		n := atomic.AddInt64(&calls, 1)
		ctx.JSON(http.StatusOK, gin.H{"call": n, "weather": ctx.Query("weather")})
	})
	r.GET("/api/v1/model", func(ctx *gin.Context) {
		atomic.AddInt64(&calls, 1)
		ctx.JSON(http.StatusOK, gin.H{})
	})
	r.GET("/api/v1/analytics/groups/:field", func(ctx *gin.Context) {
		ctx.JSON(http.StatusBadRequest, gin.H{})
	})

	get := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	first := get("/api/v1/analytics/summary?weather=Rainy")
	second := get("/api/v1/analytics/summary?weather=Rainy")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
	assert.EqualValues(t, 1, calls)

	get("/api/v1/analytics/summary?weather=Clear")
	assert.EqualValues(t, 2, calls)

	get("/api/v1/model")
	get("/api/v1/model")
	assert.EqualValues(t, 4, calls)

	get("/api/v1/analytics/groups/bogus")
	get("/api/v1/analytics/groups/bogus")
	assert.Equal(t, 2, c.Size())

	assert.EqualValues(t, 1, metrics.hits)
	assert.EqualValues(t, 4, metrics.misses)
}
