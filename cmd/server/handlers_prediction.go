package main

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
	"github.com/ZanzyTHEbar/delivery-eta/internal/model"
	"github.com/ZanzyTHEbar/delivery-eta/internal/prediction"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

type predictResponse struct {
	Prediction prediction.Result     `json:"prediction"`
	Risk       prediction.RiskStyle  `json:"risk"`
	Insight    prediction.Insight    `json:"insight"`
	Request    types.DeliveryRequest `json:"request"`
}

type modelResponse struct {
	Model    model.Info `json:"model"`
	Source   string     `json:"source"`
	LoadedAt time.Time  `json:"loaded_at"`
}

// sanitizeRequest trims and bounds the free-text fields before validation
func (s *server) sanitizeRequest(req *types.DeliveryRequest) {
	req.TrafficLevel = s.security.SanitizeField(req.TrafficLevel)
	req.CourierExperienceCategory = s.security.SanitizeField(req.CourierExperienceCategory)
	req.Weather = s.security.SanitizeField(req.Weather)
	req.TimeOfDay = s.security.SanitizeField(req.TimeOfDay)
	req.VehicleType = s.security.SanitizeField(req.VehicleType)
}

// bindJSON decodes the request body. Decoding problems and omitted fields
// are validation errors; range and enum checks happen in the prediction
// service.
func (s *server) bindJSON(c *gin.Context) (types.DeliveryRequest, bool) {
	var in types.DeliveryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, apperrors.NewValidationError("Invalid request body", err.Error()))
		return types.DeliveryRequest{}, false
	}
	req, err := prediction.FromInput(in)
	if err != nil {
		s.fail(c, err)
		return req, false
	}
	s.sanitizeRequest(&req)
	return req, true
}

// dropBlankNumbers treats empty form and query values as omitted. Gin
// binds an empty string to 0.
func dropBlankNumbers(values url.Values, in *types.DeliveryInput) {
	blank := func(key string) bool {
		return strings.TrimSpace(values.Get(key)) == ""
	}
	if blank("distance_km") {
		in.DistanceKm = nil
	}
	if blank("preparation_time_min") {
		in.PreparationTimeMin = nil
	}
	if blank("courier_experience_yrs") {
		in.CourierExperienceYrs = nil
	}
}

// handlePredict godoc
// @Summary Predict delivery time
// @Tags prediction
// @Accept json
// @Produce json
// @Param request body types.DeliveryInput true "Delivery parameters"
// @Success 200 {object} predictResponse
// @Failure 400 {object} apperrors.Response
// @Failure 422 {object} apperrors.Response
// @Failure 503 {object} apperrors.Response
// @Router /api/v1/predict [post]
func (s *server) handlePredict(c *gin.Context) {
	req, ok := s.bindJSON(c)
	if !ok {
		return
	}

	start := time.Now()
	result, err := s.service.Predict(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.IncrementPrediction()
	s.logger.PredictionLogger(req.DistanceKm, result.PointEstimate, string(result.RiskTier), time.Since(start))

	c.JSON(http.StatusOK, predictResponse{
		Prediction: result,
		Risk:       prediction.StyleFor(result.RiskTier),
		Insight:    prediction.StrategicInsight(result.RiskTier),
		Request:    req,
	})
}

// handleSweep godoc
// @Summary Run the distance sensitivity sweep
// @Tags prediction
// @Accept json
// @Produce json
// @Param request body types.DeliveryInput true "Delivery parameters"
// @Success 200 {object} prediction.ScenarioSet
// @Failure 400 {object} apperrors.Response
// @Failure 503 {object} apperrors.Response
// @Router /api/v1/sweep [post]
func (s *server) handleSweep(c *gin.Context) {
	req, ok := s.bindJSON(c)
	if !ok {
		return
	}

	start := time.Now()
	set, err := s.service.Sweep(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.IncrementSweep()
	s.logger.SweepLogger(req.DistanceKm, set.Impact, string(set.Sensitivity), time.Since(start))

	c.JSON(http.StatusOK, set)
}

// handleSimulate godoc
// @Summary Predict, sweep and narrate one delivery
// @Tags prediction
// @Accept json
// @Produce json
// @Param request body types.DeliveryInput true "Delivery parameters"
// @Success 200 {object} prediction.Simulation
// @Failure 400 {object} apperrors.Response
// @Failure 503 {object} apperrors.Response
// @Router /api/v1/simulate [post]
func (s *server) handleSimulate(c *gin.Context) {
	req, ok := s.bindJSON(c)
	if !ok {
		return
	}

	sim, ok := s.simulate(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sim)
}

// simulate runs one full interaction and records its metrics. On failure
// the error has already been written.
func (s *server) simulate(c *gin.Context, req types.DeliveryRequest) (prediction.Simulation, bool) {
	start := time.Now()
	sim, err := s.service.Simulate(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return sim, false
	}

	s.metrics.IncrementPrediction()
	s.metrics.IncrementSweep()
	s.logger.PredictionLogger(req.DistanceKm, sim.Prediction.PointEstimate, string(sim.Prediction.RiskTier), time.Since(start))
	return sim, true
}

// handleModel godoc
// @Summary Describe the loaded model
// @Tags prediction
// @Produce json
// @Success 200 {object} modelResponse
// @Failure 503 {object} apperrors.Response
// @Router /api/v1/model [get]
func (s *server) handleModel(c *gin.Context) {
	c.JSON(http.StatusOK, modelResponse{
		Model:    s.engine.Info(),
		Source:   s.engine.Source(),
		LoadedAt: s.engine.LoadedAt(),
	})
}
