package security

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxBodyBytes   int64         `json:"max_body_bytes"`
	MaxFieldLength int           `json:"max_field_length"`
	AllowedOrigins []string      `json:"allowed_origins"`
	RequestTimeout time.Duration `json:"request_timeout"`
	EnableHSTS     bool          `json:"enable_hsts"`
	// ChartAssetsHost is allowed as a script source so embedded charts load
	ChartAssetsHost string `json:"chart_assets_host"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxBodyBytes:    64 << 10,
		MaxFieldLength:  32,
		AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		RequestTimeout:  30 * time.Second,
		ChartAssetsHost: "https://go-echarts.github.io",
	}
}

// SecurityMiddleware provides request hardening middleware
type SecurityMiddleware struct {
	config SecurityConfig
	csp    string
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{
		config: config,
		csp:    buildCSPPolicy(config.ChartAssetsHost),
	}
}

// Config returns the active configuration
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// charts render inline scripts, and the result page embeds them as same-origin frames
func buildCSPPolicy(assetsHost string) string {
	scriptSrc := "'self' 'unsafe-inline'"
	if assetsHost != "" {
		scriptSrc += " " + assetsHost
	}
	return "default-src 'self'; " +
		"script-src " + scriptSrc + "; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"frame-src 'self'; " +
		"frame-ancestors 'self'; " +
		"base-uri 'self'; " +
		"form-action 'self'"
}

// SanitizeField trims whitespace, drops control characters and truncates a
// categorical request field to MaxFieldLength runes
func (sm *SecurityMiddleware) SanitizeField(input string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if sm.config.MaxFieldLength > 0 {
		if runes := []rune(cleaned); len(runes) > sm.config.MaxFieldLength {
			cleaned = string(runes[:sm.config.MaxFieldLength])
		}
	}
	return cleaned
}

// SecurityHeaders adds security headers to responses
func (sm *SecurityMiddleware) SecurityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "SAMEORIGIN")
	c.Header("X-XSS-Protection", "1; mode=block")

	if sm.config.EnableHSTS || c.Request.TLS != nil {
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}

	c.Header("Content-Security-Policy", sm.csp)
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Header("Permissions-Policy", "geolocation=(), camera=(), microphone=()")

	c.Next()
}

var allowedContentTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// ValidateContentType rejects request bodies that are not JSON or form data
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	contentType := strings.ToLower(c.GetHeader("Content-Type"))

	if contentType != "" {
		found := false
		for _, allowed := range allowedContentTypes {
			if strings.Contains(contentType, allowed) {
				found = true
				break
			}
		}

		if !found {
			appErr := apperrors.NewValidationError("unsupported content type", contentType)
			apperrors.LogError(c, appErr)
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, appErr.ToResponse())
			return
		}
	}

	c.Next()
}

// LimitBody caps the request body at MaxBodyBytes
func (sm *SecurityMiddleware) LimitBody(c *gin.Context) {
	if sm.config.MaxBodyBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sm.config.MaxBodyBytes)
	}
	c.Next()
}

// RequestTimeout bounds the request context. Handlers observe it through
// c.Request.Context().
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// CORS builds the cross-origin policy. An empty origin list allows any
// origin without credentials.
func (sm *SecurityMiddleware) CORS() gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Cache-Control", "X-Requested-With"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After", "X-Cache"},
		MaxAge:        12 * time.Hour,
	}
	if len(sm.config.AllowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = sm.config.AllowedOrigins
	}
	return cors.New(config)
}
