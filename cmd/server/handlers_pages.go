package main

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/delivery-eta/internal/charts"
	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
	"github.com/ZanzyTHEbar/delivery-eta/internal/frontend"
	"github.com/ZanzyTHEbar/delivery-eta/internal/prediction"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

func (s *server) handleForm(c *gin.Context) {
	view := frontend.NewFormView(prediction.DefaultRequest())
	view.ModelMissing = s.service == nil
	s.pages.RenderForm(c, http.StatusOK, view)
}

// handleSimulatePage runs the form submission and renders the result page.
// Problems re-render the form with the submitted values kept.
func (s *server) handleSimulatePage(c *gin.Context) {
	var in types.DeliveryInput
	bindErr := c.ShouldBind(&in)
	dropBlankNumbers(c.Request.Form, &in)
	req, err := prediction.FromInput(in)
	s.sanitizeRequest(&req)

	view := frontend.NewFormView(req)
	view.ModelMissing = s.service == nil

	if bindErr != nil {
		s.metrics.IncrementValidationError()
		view.Message = "Please fill in every field."
		s.pages.RenderForm(c, http.StatusBadRequest, view)
		return
	}
	if s.service == nil {
		apperrors.LogError(c, apperrors.ToAppError(s.modelErr))
		view.Message = "Prediction model unavailable."
		s.pages.RenderForm(c, http.StatusServiceUnavailable, view)
		return
	}

	start := time.Now()
	var sim prediction.Simulation
	if err == nil {
		sim, err = s.service.Simulate(c.Request.Context(), req)
	}
	if err != nil {
		appErr := apperrors.ToAppError(err)
		apperrors.LogError(c, appErr)
		if errors.Is(appErr, apperrors.ErrValidation) {
			s.metrics.IncrementValidationError()
			view.Errors = appErr.Fields
		} else if errors.Is(appErr, apperrors.ErrInference) || errors.Is(appErr, apperrors.ErrSchemaMismatch) {
			s.metrics.IncrementInferenceError()
		}
		view.Message = appErr.ToResponse().Message
		s.pages.RenderForm(c, appErr.HTTPStatus, view)
		return
	}

	s.metrics.IncrementPrediction()
	s.metrics.IncrementSweep()
	s.logger.PredictionLogger(req.DistanceKm, sim.Prediction.PointEstimate, string(sim.Prediction.RiskTier), time.Since(start))

	s.pages.RenderResult(c, frontend.NewResultView(sim))
}

// bindChartRequest reads a delivery request from the chart query string
func (s *server) bindChartRequest(c *gin.Context) (types.DeliveryRequest, bool) {
	var in types.DeliveryInput
	if err := c.ShouldBindQuery(&in); err != nil {
		s.fail(c, apperrors.NewValidationError("Invalid chart parameters", err.Error()))
		return types.DeliveryRequest{}, false
	}
	dropBlankNumbers(c.Request.URL.Query(), &in)
	req, err := prediction.FromInput(in)
	if err != nil {
		s.fail(c, err)
		return req, false
	}
	s.sanitizeRequest(&req)
	return req, true
}

func (s *server) handleGaugeChart(c *gin.Context) {
	req, ok := s.bindChartRequest(c)
	if !ok {
		return
	}
	result, err := s.service.Predict(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderChart(c, charts.ETAGauge(result))
}

func (s *server) handleSensitivityChart(c *gin.Context) {
	req, ok := s.bindChartRequest(c)
	if !ok {
		return
	}
	set, err := s.service.Sweep(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderChart(c, charts.SensitivityLine(set))
}

func (s *server) handleGroupChart(c *gin.Context) {
	stats, ok := s.groupStats(c)
	if !ok {
		return
	}
	s.renderChart(c, charts.GroupBar(c.Param("field"), stats))
}

func (s *server) handleInteractionChart(c *gin.Context) {
	matrix, ok := s.interaction(c)
	if !ok {
		return
	}
	s.renderChart(c, charts.InteractionHeatMap(matrix))
}

func (s *server) renderChart(c *gin.Context, chart charts.Renderer) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		s.fail(c, apperrors.NewInternalError("Failed to render chart", err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
