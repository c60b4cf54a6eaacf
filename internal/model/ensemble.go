package model

import (
	"fmt"
	"math"
)

// Ensemble is a loaded, validated tree ensemble. It is never mutated after
// construction and is safe for concurrent use.
type Ensemble struct {
	artifact Artifact
	index    map[string]int
	levels   map[string]map[string]int
}

// NewEnsemble validates artifact and indexes it for prediction
func NewEnsemble(artifact Artifact) (*Ensemble, error) {
	if err := artifact.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}

	e := &Ensemble{
		artifact: artifact,
		index:    make(map[string]int, len(artifact.FeatureNames)),
		levels:   make(map[string]map[string]int, len(artifact.Categories)),
	}
	for i, name := range artifact.FeatureNames {
		e.index[name] = i
	}
	for feature, levels := range artifact.Categories {
		codes := make(map[string]int, len(levels))
		for i, level := range levels {
			codes[level] = i
		}
		e.levels[feature] = codes
	}

	return e, nil
}

// FeatureNames returns the ordered schema the model was trained with
func (e *Ensemble) FeatureNames() []string {
	names := make([]string, len(e.artifact.FeatureNames))
	copy(names, e.artifact.FeatureNames)
	return names
}

// IsCategorical reports whether feature is encoded from a level name
func (e *Ensemble) IsCategorical(feature string) bool {
	_, ok := e.levels[feature]
	return ok
}

// Levels returns the known levels of a categorical feature
func (e *Ensemble) Levels(feature string) []string {
	levels := e.artifact.Categories[feature]
	out := make([]string, len(levels))
	copy(out, levels)
	return out
}

// Encode turns a level name into the value the trees split on
func (e *Ensemble) Encode(feature, level string) (float64, error) {
	codes, ok := e.levels[feature]
	if !ok {
		return 0, fmt.Errorf("feature %q is not categorical", feature)
	}
	code, ok := codes[level]
	if !ok {
		return 0, fmt.Errorf("unseen level %q for feature %q", level, feature)
	}
	return float64(code), nil
}

// PredictRow scores an encoded row laid out in schema order
func (e *Ensemble) PredictRow(row []float64) (float64, error) {
	if len(row) != len(e.artifact.FeatureNames) {
		return 0, fmt.Errorf("row has %d values, model expects %d", len(row), len(e.artifact.FeatureNames))
	}
	for i, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("feature %q is not a finite number", e.artifact.FeatureNames[i])
		}
	}

	sum := e.artifact.BaseScore
	for t := range e.artifact.Trees {
		leaf, err := e.walk(t, row)
		if err != nil {
			return 0, err
		}
		sum += leaf
	}
	return sum, nil
}

func (e *Ensemble) walk(t int, row []float64) (float64, error) {
	nodes := e.artifact.Trees[t].Nodes
	i := 0
	for steps := 0; steps < len(nodes); steps++ {
		node := nodes[i]
		if node.Leaf != nil {
			return *node.Leaf, nil
		}
		if row[e.index[node.Feature]] < node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
	return 0, fmt.Errorf("tree %d did not reach a leaf", t)
}

// Info describes the loaded model for API consumers
type Info struct {
	Name      string        `json:"name"`
	Version   string        `json:"version"`
	Objective string        `json:"objective"`
	Trees     int           `json:"trees"`
	Features  []FeatureInfo `json:"features"`
}

// FeatureInfo describes one schema entry
type FeatureInfo struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Levels []string `json:"levels,omitempty"`
}

// Info summarises the artifact without exposing the trees
func (e *Ensemble) Info() Info {
	info := Info{
		Name:      e.artifact.Name,
		Version:   e.artifact.Version,
		Objective: e.artifact.Objective,
		Trees:     len(e.artifact.Trees),
		Features:  make([]FeatureInfo, 0, len(e.artifact.FeatureNames)),
	}
	for _, name := range e.artifact.FeatureNames {
		fi := FeatureInfo{Name: name, Kind: "numeric"}
		if e.IsCategorical(name) {
			fi.Kind = "categorical"
			fi.Levels = e.Levels(name)
		}
		info.Features = append(info.Features, fi)
	}
	return info
}
