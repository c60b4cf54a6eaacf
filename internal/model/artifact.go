package model

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
)

// Node is one entry of a tree. A node carrying a Leaf value has no children.
type Node struct {
	Feature   string   `json:"feature,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
	Left      int      `json:"left,omitempty"`
	Right     int      `json:"right,omitempty"`
	Leaf      *float64 `json:"leaf,omitempty"`
}

// Tree is a flat node list rooted at index 0
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Artifact is the serialized form of a trained gradient boosted ensemble.
// Categorical features are encoded as the index of the level in Categories.
type Artifact struct {
	Name         string              `json:"name"`
	Version      string              `json:"version"`
	Objective    string              `json:"objective"`
	FeatureNames []string            `json:"feature_names"`
	Categories   map[string][]string `json:"categories"`
	BaseScore    float64             `json:"base_score"`
	Trees        []Tree              `json:"trees"`
}

// Load reads and validates the artifact at path. Any failure is reported as
// a model load error, so the caller can refuse to serve predictions.
func Load(path string) (*Ensemble, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewModelLoadError(path, fmt.Errorf("failed to open model artifact: %w", err))
	}
	defer file.Close()

	var artifact Artifact
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&artifact); err != nil {
		return nil, apperrors.NewModelLoadError(path, fmt.Errorf("failed to decode model artifact: %w", err))
	}

	ensemble, err := NewEnsemble(artifact)
	if err != nil {
		return nil, apperrors.NewModelLoadError(path, err)
	}

	return ensemble, nil
}

// Validate checks the structural invariants the tree walk relies on
func (a *Artifact) Validate() error {
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("artifact declares no features")
	}

	schema := make(map[string]struct{}, len(a.FeatureNames))
	for _, name := range a.FeatureNames {
		if name == "" {
			return fmt.Errorf("artifact declares an empty feature name")
		}
		if _, dup := schema[name]; dup {
			return fmt.Errorf("duplicate feature %q", name)
		}
		schema[name] = struct{}{}
	}

	for feature, levels := range a.Categories {
		if _, ok := schema[feature]; !ok {
			return fmt.Errorf("categorical feature %q is not in the schema", feature)
		}
		if len(levels) == 0 {
			return fmt.Errorf("categorical feature %q has no levels", feature)
		}
		seen := make(map[string]struct{}, len(levels))
		for _, level := range levels {
			if _, dup := seen[level]; dup {
				return fmt.Errorf("categorical feature %q repeats level %q", feature, level)
			}
			seen[level] = struct{}{}
		}
	}

	if len(a.Trees) == 0 {
		return fmt.Errorf("artifact contains no trees")
	}

	for t, tree := range a.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", t)
		}
		for i, node := range tree.Nodes {
			if node.Leaf != nil {
				continue
			}
			if _, ok := schema[node.Feature]; !ok {
				return fmt.Errorf("tree %d node %d splits on unknown feature %q", t, i, node.Feature)
			}
			// children always follow their parent, which rules out cycles
			for _, child := range []int{node.Left, node.Right} {
				if child <= i || child >= len(tree.Nodes) {
					return fmt.Errorf("tree %d node %d has child %d out of range", t, i, child)
				}
			}
		}
	}

	return nil
}
