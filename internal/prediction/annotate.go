package prediction

import (
	"math/rand"
	"sync"
	"time"
)

// RiskTier buckets a point estimate
type RiskTier string

const (
	RiskLow      RiskTier = "Low"
	RiskModerate RiskTier = "Moderate"
	RiskHigh     RiskTier = "High"
)

// Tier thresholds in minutes. Both cuts are exclusive on the lower side:
// exactly 45 is Moderate and exactly 30 is Low.
const (
	HighRiskAboveMin     = 45.0
	ModerateRiskAboveMin = 30.0
)

// ClassifyRisk maps an ETA to its tier
func ClassifyRisk(eta float64) RiskTier {
	switch {
	case eta > HighRiskAboveMin:
		return RiskHigh
	case eta > ModerateRiskAboveMin:
		return RiskModerate
	default:
		return RiskLow
	}
}

// The band half-width is drawn uniformly from [BandMinMin, BandMaxMin).
// It is a heuristic placeholder, not an interval derived from model
// residuals.
const (
	BandMinMin = 2.0
	BandMaxMin = 5.0
)

// RandomSource supplies uniform draws in [0, 1)
type RandomSource interface {
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// NewRandomSource returns a goroutine safe source. A zero seed seeds from
// the clock.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{rnd: rand.New(rand.NewSource(seed))}
}

// FixedSource always returns the same draw. Values outside [0, 1) are
// clamped into range.
type FixedSource float64

func (f FixedSource) Float64() float64 {
	switch {
	case f < 0:
		return 0
	case f >= 1:
		return 0.999999
	default:
		return float64(f)
	}
}

// Result is an annotated estimate. It is built once per prediction and never
// modified.
type Result struct {
	PointEstimate float64  `json:"point_estimate"`
	LowerBound    float64  `json:"lower_bound"`
	UpperBound    float64  `json:"upper_bound"`
	Stability     float64  `json:"stability"`
	RiskTier      RiskTier `json:"risk_tier"`
}

// Annotator attaches the heuristic band and risk tier to an estimate
type Annotator struct {
	rng RandomSource
}

// NewAnnotator creates an annotator drawing band widths from rng
func NewAnnotator(rng RandomSource) *Annotator {
	return &Annotator{rng: rng}
}

// Annotate draws one band half-width and applies it to both sides
func (a *Annotator) Annotate(point float64) Result {
	noise := BandMinMin + (BandMaxMin-BandMinMin)*a.rng.Float64()
	return Result{
		PointEstimate: point,
		LowerBound:    point - noise,
		UpperBound:    point + noise,
		Stability:     noise,
		RiskTier:      ClassifyRisk(point),
	}
}
