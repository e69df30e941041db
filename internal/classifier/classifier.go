// Package classifier fits the binary real/fake event model. Two families
// are supported: a single CART decision tree and an AdaBoost ensemble of
// depth-1 stumps. Fitting is a whole-batch operation; there is no
// incremental update path.
package classifier

import (
	"errors"
	"fmt"
	"strings"

	"pulse/internal/dataset"
)

// Kind selects a model family.
type Kind string

const (
	KindTree     Kind = "tree"
	KindAdaBoost Kind = "adaboost"
)

// ParseKind converts a configuration value into a known Kind.
func ParseKind(value string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindTree:
		return KindTree, true
	case KindAdaBoost:
		return KindAdaBoost, true
	default:
		return "", false
	}
}

// Params are passed through to the selected family; irrelevant fields are
// ignored.
type Params struct {
	// MaxDepth bounds tree growth (tree kind).
	MaxDepth int
	// MinLeaf is the minimum row count in a leaf (tree kind).
	MinLeaf int
	// Rounds is the number of boosting iterations (adaboost kind).
	Rounds int
}

// Model is a fitted binary classifier over feature rows.
type Model interface {
	// Predict maps a feature row to a 0/1 label.
	Predict(row []float64) int
	// Describe summarizes the fitted model for operator output.
	Describe() string
}

// Fit trains a model of the requested kind on the assembled set.
func Fit(kind Kind, set *dataset.Set, params Params) (Model, error) {
	if set == nil || len(set.Rows) == 0 {
		return nil, errors.New("fit: empty training set")
	}
	if len(set.Rows) != len(set.Labels) {
		return nil, fmt.Errorf("fit: %d rows but %d labels", len(set.Rows), len(set.Labels))
	}

	switch kind {
	case KindTree:
		return fitTree(set.Rows, set.Labels, uniformWeights(len(set.Rows)), treeParams{
			maxDepth: defaultPositive(params.MaxDepth, 8),
			minLeaf:  defaultPositive(params.MinLeaf, 5),
		}), nil
	case KindAdaBoost:
		return fitAdaBoost(set.Rows, set.Labels, defaultPositive(params.Rounds, 50))
	default:
		return nil, fmt.Errorf("fit: unknown classifier kind %q", kind)
	}
}

func uniformWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	return weights
}

func defaultPositive(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
