// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
)

// Config is the validated service configuration
type Config struct {
	Port        string
	DataDir     string
	ModelPath   string
	DatasetPath string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitPerMin int
	CacheTTL        time.Duration
	RequestTimeout  time.Duration
	AllowedOrigins  []string
	EnableHSTS      bool

	LogLevel string
	GinMode  string

	LateThresholdMin float64
	RandomSeed       int64
}

// Load reads the process environment
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads configuration through getenv, applying defaults for unset
// keys. All malformed values are reported together.
func LoadFrom(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	dataDir := p.str("DATA_DIR", "./data")
	cfg := &Config{
		Port:        p.str("PORT", "8080"),
		DataDir:     dataDir,
		ModelPath:   p.str("MODEL_PATH", filepath.Join(dataDir, "eta_model.json")),
		DatasetPath: p.str("DATASET_PATH", filepath.Join(dataDir, "Food_Delivery_Times_final.csv")),
		DatabaseURL: p.str("DATABASE_URL", ""),

		RedisAddr:     p.str("REDIS_ADDR", ""),
		RedisPassword: p.str("REDIS_PASSWORD", ""),
		RedisDB:       p.integer("REDIS_DB", 0),

		RateLimitPerMin: p.integer("RATE_LIMIT_PER_MIN", 60),
		CacheTTL:        p.duration("CACHE_TTL", 15*time.Minute),
		RequestTimeout:  p.duration("REQUEST_TIMEOUT", 30*time.Second),
		AllowedOrigins:  p.list("ALLOWED_ORIGINS"),
		EnableHSTS:      p.boolean("ENABLE_HSTS", false),

		LogLevel: p.str("LOG_LEVEL", "info"),
		GinMode:  p.str("GIN_MODE", "release"),

		LateThresholdMin: p.float("LATE_THRESHOLD_MIN", 40),
		RandomSeed:       int64(p.integer("RANDOM_SEED", 0)),
	}

	cfg.validate(&p)
	if len(p.problems) > 0 {
		return nil, apperrors.NewConfigurationError(strings.Join(p.problems, "; "), nil)
	}
	return cfg, nil
}

func (c *Config) validate(p *parser) {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		p.fail("PORT", c.Port, "must be a port number")
	}
	if c.RateLimitPerMin < 1 {
		p.fail("RATE_LIMIT_PER_MIN", strconv.Itoa(c.RateLimitPerMin), "must be positive")
	}
	if c.CacheTTL <= 0 {
		p.fail("CACHE_TTL", c.CacheTTL.String(), "must be positive")
	}
	if c.RequestTimeout <= 0 {
		p.fail("REQUEST_TIMEOUT", c.RequestTimeout.String(), "must be positive")
	}
	if c.LateThresholdMin <= 0 {
		p.fail("LATE_THRESHOLD_MIN", fmt.Sprint(c.LateThresholdMin), "must be positive")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		p.fail("GIN_MODE", c.GinMode, "must be debug, release or test")
	}
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

type parser struct {
	getenv   func(string) string
	problems []string
}

func (p *parser) fail(key, value, reason string) {
	p.problems = append(p.problems, fmt.Sprintf("%s=%q %s", key, value, reason))
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, "is not an integer")
		return def
	}
	return v
}

func (p *parser) float(key string, def float64) float64 {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, "is not a number")
		return def
	}
	return v
}

func (p *parser) boolean(key string, def bool) bool {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, "is not a boolean")
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, "is not a duration")
		return def
	}
	return v
}

func (p *parser) list(key string) []string {
	var out []string
	for _, part := range strings.Split(p.getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
