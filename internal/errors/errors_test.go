package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		err          *AppError
		category     ErrorCategory
		status       int
		message      string
		sentinel     error
		expectedText string
	}{
		{
			name:         "validation error",
			err:          NewValidationError("distance_km out of range", "0.0"),
			category:     CategoryValidation,
			status:       http.StatusBadRequest,
			sentinel:     ErrValidation,
			expectedText: "[VALIDATION_ERROR] distance_km out of range",
		},
		{
			name:         "schema mismatch",
			err:          NewSchemaMismatchError("feature vector does not match model schema", []string{"weather"}),
			category:     CategorySchemaMismatch,
			status:       http.StatusUnprocessableEntity,
			sentinel:     ErrSchemaMismatch,
			expectedText: "[SCHEMA_MISMATCH] feature vector does not match model schema",
		},
		{
			name:         "model load",
			err:          NewModelLoadError("data/missing.json", fmt.Errorf("no such file")),
			category:     CategoryModelLoad,
			status:       http.StatusServiceUnavailable,
			sentinel:     ErrModelLoad,
			expectedText: "[MODEL_LOAD_ERROR] Prediction model unavailable: no such file",
		},
		{
			name:         "inference",
			err:          NewInferenceError("unseen categorical level", nil),
			category:     CategoryInference,
			status:       http.StatusUnprocessableEntity,
			sentinel:     ErrInference,
			expectedText: "[INFERENCE_ERROR] unseen categorical level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.expectedText, tt.err.Error())
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.False(t, errors.Is(tt.err, ErrConfiguration))
		})
	}
}

func TestSentinelSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("sweep scenario 2: %w", NewInferenceError("model rejected vector", nil))

	assert.True(t, errors.Is(wrapped, ErrInference))
	assert.Equal(t, CategoryInference, ToAppError(wrapped).Category)
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category ErrorCategory
	}{
		{name: "plain error becomes internal", err: fmt.Errorf("boom"), category: CategoryInternal},
		{name: "context canceled becomes timeout", err: context.Canceled, category: CategoryTimeout},
		{name: "deadline exceeded becomes timeout", err: context.DeadlineExceeded, category: CategoryTimeout},
		{name: "app error is kept", err: NewValidationError("bad"), category: CategoryValidation},
		{
			name:     "raw builder becomes internal",
			err:      errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("raw"),
			category: CategoryInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.category, appErr.Category)
		})
	}

	assert.Nil(t, ToAppError(nil))
}

func TestToResponseHidesCause(t *testing.T) {
	appErr := NewModelLoadError("data/eta_model.json", fmt.Errorf("unexpected EOF"))
	resp := appErr.ToResponse()

	assert.Equal(t, "MODEL_LOAD_ERROR", resp.Code)
	assert.Equal(t, "Prediction model unavailable", resp.Message)
	assert.Equal(t, map[string]string{"artifact": "data/eta_model.json"}, resp.Details)
}

func TestValidationErrorWithMap(t *testing.T) {
	appErr := NewValidationErrorWithMap(map[string]string{
		"distance_km":          "must be between 0.1 and 50",
		"preparation_time_min": "must be between 1 and 120",
	})

	assert.Equal(t, CategoryValidation, appErr.Category)
	assert.Len(t, appErr.ToResponse().Details, 2)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewInferenceError("unseen categorical level", nil))
	})
	r.GET("/abort", func(c *gin.Context) {
		Abort(c, NewSchemaMismatchError("missing features", []string{"weather"}))
	})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{path: "/fail", status: http.StatusUnprocessableEntity, code: "INFERENCE_ERROR"},
		{path: "/abort", status: http.StatusUnprocessableEntity, code: "SCHEMA_MISMATCH"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)

			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestRecoveryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RecoveryHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("model handle was nil")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "model handle was nil")
}
