package security

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSecurityConfig(t *testing.T) {
	config := DefaultSecurityConfig()

	assert.Equal(t, int64(64<<10), config.MaxBodyBytes)
	assert.Equal(t, 32, config.MaxFieldLength)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
	assert.NotEmpty(t, config.AllowedOrigins)
	assert.False(t, config.EnableHSTS)
}

func TestSanitizeField(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean", "Rainy", "Rainy"},
		{"surrounding whitespace", "  Night \n", "Night"},
		{"control characters", "Hi\x00gh\x07", "High"},
		{"too long", strings.Repeat("a", 40), strings.Repeat("a", 32)},
		{"multibyte truncation", strings.Repeat("é", 40), strings.Repeat("é", 32)},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sm.SanitizeField(tt.input))
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		hsts     bool
		wantHSTS bool
	}{
		{"plain http", false, false},
		{"hsts enabled", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultSecurityConfig()
			config.EnableHSTS = tt.hsts
			sm := NewSecurityMiddleware(config)

			r := gin.New()
			r.Use(sm.SecurityHeaders)
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			headers := w.Header()
			assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
			assert.Equal(t, "SAMEORIGIN", headers.Get("X-Frame-Options"))
			assert.Equal(t, "1; mode=block", headers.Get("X-XSS-Protection"))
			assert.Equal(t, "strict-origin-when-cross-origin", headers.Get("Referrer-Policy"))

			csp := headers.Get("Content-Security-Policy")
			assert.Contains(t, csp, "default-src 'self'")
			assert.Contains(t, csp, "https://go-echarts.github.io")
			assert.Contains(t, csp, "frame-src 'self'")

			assert.Equal(t, tt.wantHSTS, headers.Get("Strict-Transport-Security") != "")
		})
	}
}

func TestValidateContentType(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())

	r := gin.New()
	r.Use(sm.ValidateContentType)
	r.POST("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name           string
		contentType    string
		expectedStatus int
	}{
		{"valid JSON", "application/json", http.StatusOK},
		{"JSON with charset", "Application/JSON; charset=utf-8", http.StatusOK},
		{"valid form data", "application/x-www-form-urlencoded", http.StatusOK},
		{"invalid content type", "text/plain", http.StatusUnsupportedMediaType},
		{"no content type", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(`{"distance_km": 7.5}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestLimitBody(t *testing.T) {
	config := DefaultSecurityConfig()
	config.MaxBodyBytes = 16
	sm := NewSecurityMiddleware(config)

	r := gin.New()
	r.Use(sm.LimitBody)
	r.POST("/test", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	small := httptest.NewRecorder()
	r.ServeHTTP(small, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, small.Code)

	large := httptest.NewRecorder()
	r.ServeHTTP(large, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, large.Code)
}

func TestCORS(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())

	r := gin.New()
	r.Use(sm.CORS())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name           string
		origin         string
		method         string
		expectedStatus int
		allowOrigin    string
	}{
		{"allowed origin", "http://localhost:3000", http.MethodGet, http.StatusOK, "http://localhost:3000"},
		{"disallowed origin", "http://evil.example", http.MethodGet, http.StatusForbidden, ""},
		{"preflight", "http://localhost:5173", http.MethodOptions, http.StatusNoContent, "http://localhost:5173"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			}

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.allowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSAllowsAnyOriginWhenUnset(t *testing.T) {
	config := DefaultSecurityConfig()
	config.AllowedOrigins = nil
	sm := NewSecurityMiddleware(config)

	r := gin.New()
	r.Use(sm.CORS())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestTimeout(t *testing.T) {
	config := DefaultSecurityConfig()
	config.RequestTimeout = time.Millisecond
	sm := NewSecurityMiddleware(config)

	r := gin.New()
	r.Use(sm.RequestTimeout)

	var ctxErr error
	r.GET("/test", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			ctxErr = c.Request.Context().Err()
			c.Status(http.StatusGatewayTimeout)
		case <-time.After(time.Second):
			c.Status(http.StatusOK)
		}
	})

	w := httptest.NewRecorder()
	start := time.Now()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	require.Error(t, ctxErr)
	assert.Equal(t, "0", w.Header().Get("X-Timeout"))
}
