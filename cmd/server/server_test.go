package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/delivery-eta/internal/config"
	"github.com/ZanzyTHEbar/delivery-eta/internal/database"
	"github.com/ZanzyTHEbar/delivery-eta/internal/dataset"
	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
	"github.com/ZanzyTHEbar/delivery-eta/internal/model"
	"github.com/ZanzyTHEbar/delivery-eta/internal/monitoring"
	"github.com/ZanzyTHEbar/delivery-eta/internal/prediction"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

var (
	tinyModelPath   = filepath.Join("..", "..", "internal", "model", "testdata", "tiny.json")
	deliveriesCSV   = filepath.Join("..", "..", "internal", "dataset", "testdata", "deliveries.csv")
	missingModelErr = apperrors.NewModelLoadError("missing.json", nil)
)

type testOption func(*serverDeps)

func withoutModel() testOption {
	return func(d *serverDeps) {
		d.engine = nil
		d.modelErr = missingModelErr
	}
}

func withRateLimit(perMin int) testOption {
	return func(d *serverDeps) { d.cfg.RateLimitPerMin = perMin }
}

// newTestServer builds the full router over a temporary SQLite store seeded
// with the dataset fixture and the tiny three tree model. Band draws are
// fixed at the midpoint, so every band is the estimate +/- 3.5 minutes.
func newTestServer(t *testing.T, options ...testOption) (*server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadFrom(func(string) string { return "" })
	require.NoError(t, err)
	cfg.RateLimitPerMin = 10000

	ctx := context.Background()
	db, err := database.NewDB(ctx, t.TempDir(), "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	datasets := database.NewDatasetService(database.NewRepository(db))
	_, err = datasets.ImportFile(ctx, deliveriesCSV)
	require.NoError(t, err)

	engine, err := model.LoadEngine(tinyModelPath)
	require.NoError(t, err)

	deps := serverDeps{
		cfg:      cfg,
		logger:   monitoring.NewLoggerWithWriter(io.Discard, slog.LevelError),
		metrics:  monitoring.NewMetrics(),
		engine:   engine,
		rng:      prediction.FixedSource(0.5),
		datasets: datasets,
		db:       db,
	}
	for _, opt := range options {
		opt(&deps)
	}

	s, err := newServer(deps)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s, s.setupRouter()
}

func defaultRequest() types.DeliveryRequest {
	return types.DeliveryRequest{
		TrafficLevel:              "Low",
		CourierExperienceCategory: "Expert",
		Weather:                   "Sunny",
		TimeOfDay:                 "Morning",
		VehicleType:               "Car",
		DistanceKm:                10,
		PreparationTimeMin:        15,
		CourierExperienceYrs:      5,
	}
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestPredictEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	w := postJSON(r, "/api/v1/predict", defaultRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp predictResponse
	decode(t, w, &resp)

	// 10 base + 8 (distance > 5) - 1 (Low traffic) + 0 (10/6 < 2)
	assert.InDelta(t, 17.0, resp.Prediction.PointEstimate, 1e-9)
	assert.InDelta(t, 13.5, resp.Prediction.LowerBound, 1e-9)
	assert.InDelta(t, 20.5, resp.Prediction.UpperBound, 1e-9)
	assert.Equal(t, prediction.RiskLow, resp.Prediction.RiskTier)
	assert.Equal(t, "Low Risk", resp.Risk.Label)
	assert.NotEmpty(t, resp.Insight.Actions)
}

func TestPredictEndpoint_InvalidRequests(t *testing.T) {
	_, r := newTestServer(t)

	tests := []struct {
		name          string
		body          interface{}
		expectedField string
	}{
		{
			name: "unknown traffic level",
			body: func() types.DeliveryRequest {
				req := defaultRequest()
				req.TrafficLevel = "Gridlock"
				return req
			}(),
			expectedField: "traffic_level",
		},
		{
			name: "distance above maximum",
			body: func() types.DeliveryRequest {
				req := defaultRequest()
				req.DistanceKm = 50.5
				return req
			}(),
			expectedField: "distance_km",
		},
		{
			name: "preparation time zero",
			body: func() types.DeliveryRequest {
				req := defaultRequest()
				req.PreparationTimeMin = 0
				return req
			}(),
			expectedField: "preparation_time_min",
		},
		{
			name: "experience above maximum",
			body: func() types.DeliveryRequest {
				req := defaultRequest()
				req.CourierExperienceYrs = 21
				return req
			}(),
			expectedField: "courier_experience_yrs",
		},
		{
			name: "missing fields",
			body: map[string]interface{}{"distance_km": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/v1/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp apperrors.Response
			decode(t, w, &resp)
			assert.Equal(t, apperrors.CategoryValidation, resp.Category)
			if tt.expectedField != "" {
				assert.Contains(t, resp.Details, tt.expectedField)
			}
		})
	}
}

func TestPredictEndpoint_OmittedNumericFields(t *testing.T) {
	_, r := newTestServer(t)

	for _, field := range []string{"distance_km", "preparation_time_min", "courier_experience_yrs"} {
		t.Run(field, func(t *testing.T) {
			payload, err := json.Marshal(defaultRequest())
			require.NoError(t, err)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(payload, &body))
			delete(body, field)

			for _, path := range []string{"/api/v1/predict", "/api/v1/sweep", "/api/v1/simulate"} {
				w := postJSON(r, path, body)
				require.Equal(t, http.StatusBadRequest, w.Code, path)

				var resp apperrors.Response
				decode(t, w, &resp)
				assert.Equal(t, apperrors.CategoryValidation, resp.Category)
				assert.Equal(t, "is required", resp.Details[field])
				assert.Len(t, resp.Details, 1)
			}
		})
	}

	t.Run("null counts as omitted", func(t *testing.T) {
		payload, err := json.Marshal(defaultRequest())
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(payload, &body))
		body["courier_experience_yrs"] = nil

		w := postJSON(r, "/api/v1/predict", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("explicit zero experience is a value", func(t *testing.T) {
		req := defaultRequest()
		req.CourierExperienceYrs = 0

		w := postJSON(r, "/api/v1/predict", req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp predictResponse
		decode(t, w, &resp)
		assert.Equal(t, 0, resp.Request.CourierExperienceYrs)
	})
}

func TestPredictEndpoint_MalformedJSON(t *testing.T) {
	_, r := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictEndpoint_UnsupportedContentType(t *testing.T) {
	_, r := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader("<xml/>"))
	req.Header.Set("Content-Type", "application/xml")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestSweepEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	w := postJSON(r, "/api/v1/sweep", defaultRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var set prediction.ScenarioSet
	decode(t, w, &set)

	require.Len(t, set.Scenarios, 3)
	expected := []struct{ distance, eta float64 }{{8, 17}, {10, 17}, {12, 21}}
	for i, scenario := range set.Scenarios {
		assert.InDelta(t, expected[i].distance, scenario.DistanceKm, 1e-9)
		assert.InDelta(t, expected[i].eta, scenario.Result.PointEstimate, 1e-9)
	}
	assert.InDelta(t, 4.0, set.Impact, 1e-9)
	assert.Equal(t, prediction.RelativelyStable, set.Sensitivity)
}

func TestSimulateEndpoint(t *testing.T) {
	s, r := newTestServer(t)

	w := postJSON(r, "/api/v1/simulate", defaultRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sim prediction.Simulation
	decode(t, w, &sim)

	assert.Equal(t, defaultRequest(), sim.Request)
	assert.InDelta(t, 17.0, sim.Prediction.PointEstimate, 1e-9)
	assert.Len(t, sim.Scenarios.Scenarios, 3)
	assert.Contains(t, sim.Narrative.Interpretation, "relatively stable")

	stats := s.metrics.GetStats()
	assert.EqualValues(t, 1, stats["predictions"])
	assert.EqualValues(t, 1, stats["sweeps"])
}

func TestModelEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	w := get(r, "/api/v1/model")
	require.Equal(t, http.StatusOK, w.Code)

	var resp modelResponse
	decode(t, w, &resp)
	assert.Equal(t, "tiny-eta", resp.Model.Name)
	assert.Equal(t, 3, resp.Model.Trees)
	assert.Equal(t, tinyModelPath, resp.Source)
}

func TestPredictionRoutes_ModelMissing(t *testing.T) {
	_, r := newTestServer(t, withoutModel())

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "predict", method: http.MethodPost, path: "/api/v1/predict"},
		{name: "sweep", method: http.MethodPost, path: "/api/v1/sweep"},
		{name: "simulate", method: http.MethodPost, path: "/api/v1/simulate"},
		{name: "model", method: http.MethodGet, path: "/api/v1/model"},
		{name: "gauge chart", method: http.MethodGet, path: "/charts/gauge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			if tt.method == http.MethodPost {
				w = postJSON(r, tt.path, defaultRequest())
			} else {
				w = get(r, tt.path)
			}

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			var resp apperrors.Response
			decode(t, w, &resp)
			assert.Equal(t, apperrors.CategoryModelLoad, resp.Category)
		})
	}

	t.Run("analytics stay available", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(r, "/api/v1/analytics/summary").Code)
	})
}

func TestAnalyticsSummary(t *testing.T) {
	_, r := newTestServer(t)

	tests := []struct {
		name          string
		query         string
		expectedCount int
		expectedAvg   float64
		expectedLate  float64
	}{
		{name: "whole dataset", query: "", expectedCount: 6, expectedAvg: 230.0 / 6, expectedLate: 50},
		{name: "high traffic", query: "?traffic_level=High", expectedCount: 2, expectedAvg: 55, expectedLate: 100},
		{name: "All means no filter", query: "?weather=All", expectedCount: 6, expectedAvg: 230.0 / 6, expectedLate: 50},
		{name: "empty scope", query: "?weather=Hail", expectedCount: 0, expectedAvg: 0, expectedLate: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/api/v1/analytics/summary"+tt.query)
			require.Equal(t, http.StatusOK, w.Code)

			var resp summaryResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.expectedCount, resp.Summary.Count)
			assert.InDelta(t, tt.expectedAvg, resp.Summary.AvgDeliveryMin, 1e-9)
			assert.InDelta(t, tt.expectedLate, resp.Summary.LateRatePct, 1e-9)
			assert.Equal(t, []string{"Low", "Medium", "High"}, sortedByDataset(resp.Options.TrafficLevels))
			require.NotNil(t, resp.LastImport)
			assert.Equal(t, 6, resp.LastImport.RowsImported)
		})
	}
}

// sortedByDataset orders traffic levels by severity so the assertion does
// not depend on the alphabetical order Options returns
func sortedByDataset(levels []string) []string {
	order := []string{"Low", "Medium", "High"}
	out := make([]string, 0, len(levels))
	for _, want := range order {
		for _, got := range levels {
			if got == want {
				out = append(out, got)
			}
		}
	}
	return out
}

func TestAnalyticsGroups(t *testing.T) {
	_, r := newTestServer(t)

	w := get(r, "/api/v1/analytics/groups/traffic_level")
	require.Equal(t, http.StatusOK, w.Code)

	var stats []dataset.GroupStat
	decode(t, w, &stats)
	require.Len(t, stats, 3)
	assert.Equal(t, "Low", stats[0].Level)
	assert.InDelta(t, 25.0, stats[0].Mean, 1e-9)
	assert.Equal(t, "High", stats[2].Level)
	assert.InDelta(t, 55.0, stats[2].Mean, 1e-9)

	w = get(r, "/api/v1/analytics/groups/restaurant")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsEscalation(t *testing.T) {
	_, r := newTestServer(t)

	w := get(r, "/api/v1/analytics/escalation?traffic_level=High")
	require.Equal(t, http.StatusOK, w.Code)

	var resp escalationResponse
	decode(t, w, &resp)
	assert.True(t, resp.BaselineAvailable)
	assert.InDelta(t, 25.0, resp.BaselineMean, 1e-9)
	assert.InDelta(t, 120.0, resp.EscalationPct, 1e-9)
	assert.Equal(t, 2, resp.Count)
}

func TestAnalyticsInteractionAndCourier(t *testing.T) {
	_, r := newTestServer(t)

	w := get(r, "/api/v1/analytics/interaction")
	require.Equal(t, http.StatusOK, w.Code)
	var matrix dataset.InteractionMatrix
	decode(t, w, &matrix)
	assert.NotEmpty(t, matrix.Cells)

	w = get(r, "/api/v1/analytics/courier?min_experience_yrs=5")
	require.Equal(t, http.StatusOK, w.Code)
	var report dataset.CourierReport
	decode(t, w, &report)
	assert.Equal(t, 3, report.Count)

	w = get(r, "/api/v1/analytics/courier?max_distance_km=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsResponsesAreCached(t *testing.T) {
	s, r := newTestServer(t)

	first := get(r, "/api/v1/analytics/summary?time_of_day=Evening")
	second := get(r, "/api/v1/analytics/summary?time_of_day=Evening")

	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Empty(t, postJSON(r, "/api/v1/predict", defaultRequest()).Header().Get("X-Cache"))

	assert.Equal(t, 1, s.cache.Size())
}

func TestFormPage(t *testing.T) {
	_, r := newTestServer(t)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `action="/simulate"`)
	assert.NotContains(t, w.Body.String(), "model is unavailable")
}

func TestSimulatePage(t *testing.T) {
	_, r := newTestServer(t)

	form := url.Values{}
	form.Set("traffic_level", "Low")
	form.Set("courier_experience_category", "Expert")
	form.Set("weather", "Sunny")
	form.Set("time_of_day", "Morning")
	form.Set("vehicle_type", "Car")
	form.Set("distance_km", "10")
	form.Set("preparation_time_min", "15")
	form.Set("courier_experience_yrs", "5")

	post := func(values url.Values) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/simulate", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("renders the result", func(t *testing.T) {
		w := post(form)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "17.00")
		assert.Contains(t, body, "13.5")
		assert.Contains(t, body, "20.5")
		assert.Contains(t, body, "Low Risk")
		assert.Contains(t, body, "/charts/gauge?")
	})

	t.Run("invalid values re-render the form", func(t *testing.T) {
		bad := url.Values{}
		for k, v := range form {
			bad[k] = v
		}
		bad.Set("distance_km", "80")

		w := post(bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "distance_km")
		assert.Contains(t, w.Body.String(), `action="/simulate"`)
	})

	t.Run("blank numeric field re-renders the form", func(t *testing.T) {
		for _, field := range []string{"distance_km", "preparation_time_min", "courier_experience_yrs"} {
			partial := url.Values{}
			for k, v := range form {
				partial[k] = v
			}
			partial.Set(field, "")

			w := post(partial)
			assert.Equal(t, http.StatusBadRequest, w.Code, field)
			assert.Contains(t, w.Body.String(), "is required", field)
			assert.NotContains(t, w.Body.String(), "Estimated", field)
		}
	})

	t.Run("omitted numeric field re-renders the form", func(t *testing.T) {
		partial := url.Values{}
		for k, v := range form {
			partial[k] = v
		}
		partial.Del("courier_experience_yrs")

		w := post(partial)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "is required")
	})

	t.Run("missing model", func(t *testing.T) {
		_, noModel := newTestServer(t, withoutModel())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/simulate", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		noModel.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "model is unavailable")
	})
}

func TestChartEndpoints(t *testing.T) {
	_, r := newTestServer(t)
	query := "traffic_level=Low&courier_experience_category=Expert&weather=Sunny&time_of_day=Morning" +
		"&vehicle_type=Car&distance_km=10&preparation_time_min=15&courier_experience_yrs=5"

	tests := []struct {
		name     string
		path     string
		status   int
		contains string
	}{
		{name: "gauge", path: "/charts/gauge?" + query, status: http.StatusOK, contains: "Estimated Delivery Time"},
		{name: "sensitivity", path: "/charts/sensitivity?" + query, status: http.StatusOK, contains: "Distance Sensitivity"},
		{name: "group bar", path: "/charts/analytics/weather", status: http.StatusOK, contains: "Average Delivery Time by weather"},
		{name: "interaction heatmap", path: "/charts/interaction", status: http.StatusOK, contains: "Traffic x Weather"},
		{name: "unknown group field", path: "/charts/analytics/restaurant", status: http.StatusBadRequest},
		{name: "gauge without parameters", path: "/charts/gauge", status: http.StatusBadRequest},
		{name: "gauge without experience", path: "/charts/gauge?" + strings.TrimSuffix(query, "&courier_experience_yrs=5"), status: http.StatusBadRequest},
		{name: "sensitivity with blank distance", path: "/charts/sensitivity?" + strings.Replace(query, "distance_km=10", "distance_km=", 1), status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path)
			assert.Equal(t, tt.status, w.Code)
			if tt.contains != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
				assert.Contains(t, w.Body.String(), tt.contains)
			}
		})
	}
}

func TestRateLimitBlocksExcessRequests(t *testing.T) {
	_, r := newTestServer(t, withRateLimit(2))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/api/v1/analytics/summary").Code)
	}

	w := get(r, "/api/v1/analytics/summary")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// health probes are exempt
	assert.Equal(t, http.StatusOK, get(r, "/health").Code)
}

func TestSecurityHeadersOnPages(t *testing.T) {
	_, r := newTestServer(t)

	w := get(r, "/")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestMetricsAndCacheStatsEndpoints(t *testing.T) {
	_, r := newTestServer(t)
	postJSON(r, "/api/v1/predict", defaultRequest())

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]interface{}
	decode(t, w, &stats)
	assert.EqualValues(t, 1, stats["predictions"])
	assert.Contains(t, stats, "rate_limiter")
	assert.Contains(t, stats, "compression")
	require.Contains(t, stats, "database")
	pool, ok := stats["database"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sqlite3", pool["driver"])
	assert.Contains(t, pool, "open_connections")

	w = get(r, "/cache/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ttl_seconds")
}

func TestSwaggerDocIsRegistered(t *testing.T) {
	_, r := newTestServer(t)

	w := get(r, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/predict")
}

func TestChartPagesAreGzipped(t *testing.T) {
	_, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/charts/interaction", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Contains(t, string(body), "echarts")
}
