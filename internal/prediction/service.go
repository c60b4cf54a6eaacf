package prediction

import (
	"context"

	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

// Simulation is everything one user interaction produces
type Simulation struct {
	Request    types.DeliveryRequest `json:"request"`
	Prediction Result                `json:"prediction"`
	Scenarios  ScenarioSet           `json:"scenarios"`
	Narrative  Narrative             `json:"narrative"`
}

// Service runs predictions and sweeps against one shared predictor
type Service struct {
	predictor Predictor
	assembler *Assembler
	annotator *Annotator
	sweeper   *Sweeper
}

// NewService wires the assembler, annotator and sweeper around predictor
func NewService(predictor Predictor, rng RandomSource) *Service {
	annotator := NewAnnotator(rng)
	return &Service{
		predictor: predictor,
		assembler: NewAssembler(predictor),
		annotator: annotator,
		sweeper:   NewSweeper(predictor, annotator),
	}
}

// FeatureNames exposes the schema of the underlying predictor
func (s *Service) FeatureNames() []string {
	return s.predictor.FeatureNames()
}

// Predict validates req and returns one annotated estimate
func (s *Service) Predict(ctx context.Context, req types.DeliveryRequest) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	vector, err := s.assembler.Assemble(req)
	if err != nil {
		return Result{}, err
	}
	eta, err := s.predictor.Predict(vector)
	if err != nil {
		return Result{}, err
	}
	return s.annotator.Annotate(eta), nil
}

// Sweep validates req and runs the distance sensitivity sweep
func (s *Service) Sweep(ctx context.Context, req types.DeliveryRequest) (ScenarioSet, error) {
	if err := Validate(req); err != nil {
		return ScenarioSet{}, err
	}
	return s.sweeper.Sweep(ctx, req)
}

// Simulate runs the prediction, then the sweep, and selects the narrative
func (s *Service) Simulate(ctx context.Context, req types.DeliveryRequest) (Simulation, error) {
	result, err := s.Predict(ctx, req)
	if err != nil {
		return Simulation{}, err
	}
	set, err := s.sweeper.Sweep(ctx, req)
	if err != nil {
		return Simulation{}, err
	}

	return Simulation{
		Request:    req,
		Prediction: result,
		Scenarios:  set,
		Narrative:  NewNarrative(result, set),
	}, nil
}
