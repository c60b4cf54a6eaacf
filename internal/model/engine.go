package model

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
)

// Feature is one named model input. Categorical features carry a level
// name, numeric ones a number.
type Feature struct {
	Name        string  `json:"name"`
	Numeric     float64 `json:"numeric,omitempty"`
	Category    string  `json:"category,omitempty"`
	Categorical bool    `json:"categorical"`
}

// NumericFeature builds a numeric feature
func NumericFeature(name string, value float64) Feature {
	return Feature{Name: name, Numeric: value}
}

// CategoricalFeature builds a categorical feature
func CategoricalFeature(name, level string) Feature {
	return Feature{Name: name, Category: level, Categorical: true}
}

// Value renders the feature value for logs and API payloads
func (f Feature) Value() string {
	if f.Categorical {
		return f.Category
	}
	return fmt.Sprintf("%g", f.Numeric)
}

// Vector is an ordered list of features
type Vector []Feature

// Names returns the feature names in order
func (v Vector) Names() []string {
	names := make([]string, len(v))
	for i, f := range v {
		names[i] = f.Name
	}
	return names
}

// Engine is the single inference handle shared by every request. It is
// built once in main and injected into the services that need it.
type Engine struct {
	ensemble *Ensemble
	source   string
	loadedAt time.Time
}

// NewEngine wraps an already loaded ensemble
func NewEngine(ensemble *Ensemble, source string) *Engine {
	return &Engine{ensemble: ensemble, source: source, loadedAt: time.Now()}
}

// LoadEngine loads the artifact at path and wraps it in an Engine
func LoadEngine(path string) (*Engine, error) {
	ensemble, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewEngine(ensemble, path), nil
}

// FeatureNames returns the schema the vector passed to Predict must follow
func (e *Engine) FeatureNames() []string {
	return e.ensemble.FeatureNames()
}

// Info describes the loaded model
func (e *Engine) Info() Info {
	return e.ensemble.Info()
}

// Source returns where the artifact was loaded from
func (e *Engine) Source() string {
	return e.source
}

// LoadedAt returns when the engine was constructed
func (e *Engine) LoadedAt() time.Time {
	return e.loadedAt
}

// Predict scores one vector. The vector's names and order must equal the
// schema exactly; anything else is a schema mismatch. Values the model
// cannot encode are inference errors. Neither is retried.
func (e *Engine) Predict(v Vector) (float64, error) {
	schema := e.ensemble.FeatureNames()
	if err := checkSchema(schema, v); err != nil {
		return 0, err
	}

	row := make([]float64, len(v))
	for i, f := range v {
		switch {
		case f.Categorical:
			code, err := e.ensemble.Encode(f.Name, f.Category)
			if err != nil {
				return 0, apperrors.NewInferenceError("model rejected feature vector", err)
			}
			row[i] = code
		case e.ensemble.IsCategorical(f.Name):
			return 0, apperrors.NewInferenceError("model rejected feature vector",
				fmt.Errorf("feature %q expects a category, got a number", f.Name))
		default:
			row[i] = f.Numeric
		}
	}

	eta, err := e.ensemble.PredictRow(row)
	if err != nil {
		return 0, apperrors.NewInferenceError("model rejected feature vector", err)
	}
	return eta, nil
}

func checkSchema(schema []string, v Vector) error {
	present := make(map[string]struct{}, len(v))
	for _, f := range v {
		present[f.Name] = struct{}{}
	}

	var missing []string
	for _, name := range schema {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewSchemaMismatchError(
			fmt.Sprintf("feature vector is missing %s", strings.Join(missing, ", ")), missing)
	}

	if len(v) != len(schema) {
		return apperrors.NewSchemaMismatchError(
			fmt.Sprintf("feature vector has %d features, model expects %d", len(v), len(schema)), nil)
	}

	for i, name := range schema {
		if v[i].Name != name {
			return apperrors.NewSchemaMismatchError(
				fmt.Sprintf("feature %d is %q, model expects %q", i, v[i].Name, name), nil)
		}
	}

	return nil
}
