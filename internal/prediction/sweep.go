package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/ZanzyTHEbar/delivery-eta/internal/model"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

// DistanceShifts are the kilometre offsets evaluated by a sweep
var DistanceShifts = []float64{-2, 0, 2}

// SensitivityTier describes how much the ETA moves across a sweep
type SensitivityTier string

const (
	HighlySensitive     SensitivityTier = "highly sensitive"
	ModeratelySensitive SensitivityTier = "moderately sensitive"
	RelativelyStable    SensitivityTier = "relatively stable"
)

// Impact thresholds in minutes, exclusive on the lower side
const (
	HighImpactAboveMin     = 15.0
	ModerateImpactAboveMin = 7.0
)

// ClassifySensitivity maps a sweep impact to its tier
func ClassifySensitivity(impact float64) SensitivityTier {
	switch {
	case impact > HighImpactAboveMin:
		return HighlySensitive
	case impact > ModerateImpactAboveMin:
		return ModeratelySensitive
	default:
		return RelativelyStable
	}
}

// Predictor is the inference contract the service depends on
type Predictor interface {
	Schema
	Predict(v model.Vector) (float64, error)
}

// Scenario is one point of a sweep
type Scenario struct {
	Shift      float64 `json:"shift_km"`
	DistanceKm float64 `json:"distance_km"`
	Result     Result  `json:"result"`
}

// ScenarioSet is the outcome of a full sweep
type ScenarioSet struct {
	Scenarios   []Scenario      `json:"scenarios"`
	Impact      float64         `json:"impact"`
	Sensitivity SensitivityTier `json:"sensitivity"`
}

// ShiftedDistance applies shift and floors the result at MinDistanceKm
func ShiftedDistance(distanceKm, shift float64) float64 {
	return math.Max(MinDistanceKm, distanceKm+shift)
}

// Sweeper re-predicts a request across DistanceShifts
type Sweeper struct {
	assembler *Assembler
	predictor Predictor
	annotator *Annotator
}

// NewSweeper wires a sweeper around one predictor
func NewSweeper(predictor Predictor, annotator *Annotator) *Sweeper {
	return &Sweeper{
		assembler: NewAssembler(predictor),
		predictor: predictor,
		annotator: annotator,
	}
}

// Sweep evaluates every shift in order. The first failure aborts the sweep
// and no partial set is returned. Cancellation is checked before each
// prediction.
func (s *Sweeper) Sweep(ctx context.Context, req types.DeliveryRequest) (ScenarioSet, error) {
	scenarios := make([]Scenario, 0, len(DistanceShifts))
	low, high := math.Inf(1), math.Inf(-1)

	for _, shift := range DistanceShifts {
		if err := ctx.Err(); err != nil {
			return ScenarioSet{}, err
		}

		shifted := req
		shifted.DistanceKm = ShiftedDistance(req.DistanceKm, shift)

		vector, err := s.assembler.Assemble(shifted)
		if err != nil {
			return ScenarioSet{}, err
		}
		eta, err := s.predictor.Predict(vector)
		if err != nil {
			return ScenarioSet{}, fmt.Errorf("scenario at %+.0f km: %w", shift, err)
		}

		low = math.Min(low, eta)
		high = math.Max(high, eta)
		scenarios = append(scenarios, Scenario{
			Shift:      shift,
			DistanceKm: shifted.DistanceKm,
			Result:     s.annotator.Annotate(eta),
		})
	}

	impact := high - low
	return ScenarioSet{
		Scenarios:   scenarios,
		Impact:      impact,
		Sensitivity: ClassifySensitivity(impact),
	}, nil
}
