package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/delivery-eta/docs"
	"github.com/ZanzyTHEbar/delivery-eta/internal/cache"
	"github.com/ZanzyTHEbar/delivery-eta/internal/config"
	"github.com/ZanzyTHEbar/delivery-eta/internal/database"
	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
	"github.com/ZanzyTHEbar/delivery-eta/internal/frontend"
	"github.com/ZanzyTHEbar/delivery-eta/internal/middleware"
	"github.com/ZanzyTHEbar/delivery-eta/internal/model"
	"github.com/ZanzyTHEbar/delivery-eta/internal/monitoring"
	"github.com/ZanzyTHEbar/delivery-eta/internal/prediction"
	"github.com/ZanzyTHEbar/delivery-eta/internal/ratelimit"
	"github.com/ZanzyTHEbar/delivery-eta/internal/resilience"
	"github.com/ZanzyTHEbar/delivery-eta/internal/security"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

// cachedPrefixes are the GET routes whose responses depend only on the
// dataset and the query string
var cachedPrefixes = []string{"/api/v1/analytics", "/charts/analytics", "/charts/interaction"}

// datasetStore is the read side of the dataset store used by the handlers
type datasetStore interface {
	Deliveries(ctx context.Context, scope types.Scope) ([]types.Delivery, error)
	LatestImport(ctx context.Context) (*database.ImportBatch, error)
}

// server holds every dependency the handlers need. service is nil when the
// model failed to load; modelErr then explains why.
type server struct {
	cfg      *config.Config
	logger   *monitoring.Logger
	metrics  *monitoring.Metrics
	engine   *model.Engine
	service  *prediction.Service
	modelErr error
	datasets datasetStore
	db       *database.DB
	pages    *frontend.Pages
	cache    *cache.Cache
	limiter  *ratelimit.RateLimiter
	security *security.SecurityMiddleware
	health   *resilience.HealthRegistry

	compression *middleware.CompressionMiddleware
}

type serverDeps struct {
	cfg      *config.Config
	logger   *monitoring.Logger
	metrics  *monitoring.Metrics
	engine   *model.Engine
	modelErr error
	rng      prediction.RandomSource
	datasets datasetStore
	db       *database.DB
	redis    *ratelimit.RedisClient
}

func newServer(deps serverDeps) (*server, error) {
	pages, err := frontend.NewPages()
	if err != nil {
		return nil, err
	}

	secConfig := security.DefaultSecurityConfig()
	secConfig.AllowedOrigins = deps.cfg.AllowedOrigins
	secConfig.RequestTimeout = deps.cfg.RequestTimeout
	secConfig.EnableHSTS = deps.cfg.EnableHSTS

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.IPLimitPerMin = deps.cfg.RateLimitPerMin
	limiterConfig.ExemptPaths = append(limiterConfig.ExemptPaths, "/cache/stats")

	s := &server{
		cfg:      deps.cfg,
		logger:   deps.logger,
		metrics:  deps.metrics,
		engine:   deps.engine,
		modelErr: deps.modelErr,
		datasets: deps.datasets,
		db:       deps.db,
		pages:    pages,
		cache:    cache.NewCache(deps.cfg.CacheTTL),
		limiter:  ratelimit.NewRateLimiter(deps.redis, limiterConfig, deps.metrics),
		security: security.NewSecurityMiddleware(secConfig),
		health:   resilience.NewHealthRegistry(2 * time.Second),

		compression: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
	}

	if deps.engine != nil {
		s.service = prediction.NewService(deps.engine, deps.rng)
	} else if s.modelErr == nil {
		s.modelErr = apperrors.NewModelLoadError(deps.cfg.ModelPath, errors.New("model not loaded"))
	}

	s.health.Register("model", false, func(context.Context) error {
		if s.service == nil {
			return s.modelErr
		}
		return nil
	})
	if deps.db != nil {
		s.health.Register("database", true, deps.db.PingContext)
	}
	if deps.redis.IsEnabled() {
		s.health.Register("redis", false, deps.redis.HealthCheck)
	}

	return s, nil
}

// Close stops background goroutines
func (s *server) Close() {
	s.cache.Close()
	s.limiter.Close()
}

func (s *server) setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger))
	r.Use(s.compression.Handler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(apperrors.ErrorHandler())
	r.Use(s.security.SecurityHeaders)
	r.Use(s.security.CORS())
	r.Use(s.security.RequestTimeout)
	r.Use(s.security.ValidateContentType)
	r.Use(s.security.LimitBody)
	r.Use(s.limiter.IPRateLimitMiddleware())
	r.Use(s.cache.Middleware(s.metrics, cachedPrefixes...))

	if static, err := frontend.StaticFS(); err == nil {
		r.StaticFS("/static", http.FS(static))
	}
	r.GET("/", s.handleForm)
	r.POST("/simulate", s.handleSimulatePage)

	charts := r.Group("/charts")
	{
		charts.GET("/gauge", s.requireModel, s.handleGaugeChart)
		charts.GET("/sensitivity", s.requireModel, s.handleSensitivityChart)
		charts.GET("/analytics/:field", s.handleGroupChart)
		charts.GET("/interaction", s.handleInteractionChart)
	}

	api := r.Group("/api/v1")
	{
		api.POST("/predict", s.requireModel, s.handlePredict)
		api.POST("/sweep", s.requireModel, s.handleSweep)
		api.POST("/simulate", s.requireModel, s.handleSimulate)
		api.GET("/model", s.requireModel, s.handleModel)

		analytics := api.Group("/analytics")
		analytics.GET("/summary", s.handleSummary)
		analytics.GET("/groups/:field", s.handleGroups)
		analytics.GET("/interaction", s.handleInteraction)
		analytics.GET("/escalation", s.handleEscalation)
		analytics.GET("/courier", s.handleCourier)
	}

	r.GET("/health", s.handleHealth)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/metrics", func(c *gin.Context) {
		stats := s.metrics.GetStats()
		stats["rate_limiter"] = s.limiter.GetStats()
		stats["compression"] = s.compression.GetStats()
		if s.db != nil {
			stats["database"] = s.db.GetPoolStats()
		}
		c.JSON(http.StatusOK, stats)
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.cache.Stats())
	})

	return r
}

// requireModel answers 503 with the load error while no model is loaded
func (s *server) requireModel(c *gin.Context) {
	if s.service == nil {
		apperrors.Abort(c, s.modelErr)
		return
	}
	c.Next()
}

// handleHealth godoc
// @Summary Service health
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (s *server) handleHealth(c *gin.Context) {
	report := s.health.Check(c.Request.Context())

	response := gin.H{
		"status":       report.Status,
		"timestamp":    time.Now().Format(time.RFC3339),
		"version":      version,
		"model_loaded": s.service != nil,
		"components":   report.Components,
	}

	if report.Status == resilience.LevelUnavailable {
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// fail counts the error against the matching metric and aborts with it
func (s *server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		s.metrics.IncrementValidationError()
	case errors.Is(err, apperrors.ErrInference), errors.Is(err, apperrors.ErrSchemaMismatch):
		s.metrics.IncrementInferenceError()
	}
	apperrors.Abort(c, err)
}
