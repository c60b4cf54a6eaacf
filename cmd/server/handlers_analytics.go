package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/delivery-eta/internal/database"
	"github.com/ZanzyTHEbar/delivery-eta/internal/dataset"
	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

type summaryResponse struct {
	Scope      types.Scope           `json:"scope"`
	Summary    dataset.Summary       `json:"summary"`
	Options    dataset.ScopeOptions  `json:"options"`
	LastImport *database.ImportBatch `json:"last_import,omitempty"`
}

type escalationResponse struct {
	Scope             types.Scope `json:"scope"`
	EscalationPct     float64     `json:"escalation_pct"`
	BaselineMean      float64     `json:"baseline_mean"`
	BaselineAvailable bool        `json:"baseline_available"`
	Count             int         `json:"count"`
}

// bindScope reads the time_of_day, traffic_level and weather filters
func (s *server) bindScope(c *gin.Context) (types.Scope, bool) {
	var scope types.Scope
	if err := c.ShouldBindQuery(&scope); err != nil {
		s.fail(c, apperrors.NewValidationError("Invalid scope", err.Error()))
		return scope, false
	}
	scope.TimeOfDay = s.security.SanitizeField(scope.TimeOfDay)
	scope.TrafficLevel = s.security.SanitizeField(scope.TrafficLevel)
	scope.Weather = s.security.SanitizeField(scope.Weather)
	return scope, true
}

// loadScoped returns the full dataset and the slice inside scope
func (s *server) loadScoped(c *gin.Context, scope types.Scope) (all, scoped []types.Delivery, ok bool) {
	all, err := s.datasets.Deliveries(c.Request.Context(), types.Scope{})
	if err != nil {
		s.fail(c, apperrors.WrapError(err, "failed to load deliveries"))
		return nil, nil, false
	}
	return all, dataset.Apply(all, scope), true
}

// handleSummary godoc
// @Summary Headline delivery KPIs for a scope
// @Tags analytics
// @Produce json
// @Param time_of_day query string false "Time of day filter"
// @Param traffic_level query string false "Traffic level filter"
// @Param weather query string false "Weather filter"
// @Success 200 {object} summaryResponse
// @Router /api/v1/analytics/summary [get]
func (s *server) handleSummary(c *gin.Context) {
	scope, ok := s.bindScope(c)
	if !ok {
		return
	}
	all, scoped, ok := s.loadScoped(c, scope)
	if !ok {
		return
	}

	response := summaryResponse{
		Scope:   scope,
		Summary: dataset.Summarize(scoped, s.cfg.LateThresholdMin),
		Options: dataset.Options(all),
	}
	if batch, err := s.datasets.LatestImport(c.Request.Context()); err == nil {
		response.LastImport = batch
	}

	c.JSON(http.StatusOK, response)
}

// handleGroups godoc
// @Summary Delivery time statistics per level of a field
// @Tags analytics
// @Produce json
// @Param field path string true "time_of_day, traffic_level, weather, courier_experience_yrs, courier_experience_category or vehicle_type"
// @Success 200 {array} dataset.GroupStat
// @Failure 400 {object} apperrors.Response
// @Router /api/v1/analytics/groups/{field} [get]
func (s *server) handleGroups(c *gin.Context) {
	stats, ok := s.groupStats(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *server) groupStats(c *gin.Context) ([]dataset.GroupStat, bool) {
	scope, ok := s.bindScope(c)
	if !ok {
		return nil, false
	}
	_, scoped, ok := s.loadScoped(c, scope)
	if !ok {
		return nil, false
	}

	stats, err := dataset.GroupBy(scoped, c.Param("field"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return stats, true
}

// handleInteraction godoc
// @Summary Traffic by weather mean delivery time
// @Tags analytics
// @Produce json
// @Success 200 {object} dataset.InteractionMatrix
// @Router /api/v1/analytics/interaction [get]
func (s *server) handleInteraction(c *gin.Context) {
	matrix, ok := s.interaction(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, matrix)
}

func (s *server) interaction(c *gin.Context) (dataset.InteractionMatrix, bool) {
	scope, ok := s.bindScope(c)
	if !ok {
		return dataset.InteractionMatrix{}, false
	}
	_, scoped, ok := s.loadScoped(c, scope)
	if !ok {
		return dataset.InteractionMatrix{}, false
	}
	return dataset.Interaction(scoped), true
}

// handleEscalation godoc
// @Summary Scoped mean relative to the low traffic clear weather baseline
// @Tags analytics
// @Produce json
// @Param time_of_day query string false "Time of day filter"
// @Param traffic_level query string false "Traffic level filter"
// @Param weather query string false "Weather filter"
// @Success 200 {object} escalationResponse
// @Router /api/v1/analytics/escalation [get]
func (s *server) handleEscalation(c *gin.Context) {
	scope, ok := s.bindScope(c)
	if !ok {
		return
	}
	all, scoped, ok := s.loadScoped(c, scope)
	if !ok {
		return
	}

	baseline, available := dataset.BaselineMean(all)
	c.JSON(http.StatusOK, escalationResponse{
		Scope:             scope,
		EscalationPct:     dataset.StructuralEscalation(scoped, all),
		BaselineMean:      baseline,
		BaselineAvailable: available,
		Count:             len(scoped),
	})
}

// handleCourier godoc
// @Summary Courier execution metrics
// @Tags analytics
// @Produce json
// @Param min_experience_yrs query number false "Minimum courier experience"
// @Param max_distance_km query number false "Maximum distance, 0 for no limit"
// @Success 200 {object} dataset.CourierReport
// @Failure 400 {object} apperrors.Response
// @Router /api/v1/analytics/courier [get]
func (s *server) handleCourier(c *gin.Context) {
	var filter dataset.CourierFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		s.fail(c, apperrors.NewValidationError("Invalid courier filter", err.Error()))
		return
	}
	if filter.MinExperienceYrs < 0 || filter.MaxDistanceKm < 0 {
		s.fail(c, apperrors.NewValidationError("Courier filter values must not be negative"))
		return
	}

	all, err := s.datasets.Deliveries(c.Request.Context(), types.Scope{})
	if err != nil {
		s.fail(c, apperrors.WrapError(err, "failed to load deliveries"))
		return
	}

	c.JSON(http.StatusOK, dataset.CourierEfficiency(all, filter))
}
