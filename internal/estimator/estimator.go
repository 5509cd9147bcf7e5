package estimator

import (
	"fmt"
	"sort"
)

// Algorithm names accepted in configuration and stored in artifacts.
const (
	AlgorithmGBT    = "gbt"
	AlgorithmLinear = "linear"
)

// Regressor is the opaque learned function the pricing pipeline depends on.
// Implementations must be deterministic given fixed training data and
// hyperparameters, and immutable after Fit. Predict carries no non-negativity
// guarantee; downstream adjustment logic tolerates negative estimates.
type Regressor interface {
	Fit(features [][]float64, targets []float64) error
	Predict(features []float64) float64
	// FeatureImportances returns one non-negative score per feature column,
	// normalized to sum to 1 when any feature was used at all.
	FeatureImportances() []float64
}

// Hyperparameters configures the boosted-tree regressor. Every field is
// tunable from the config file; nothing here is hard-coded at call sites.
type Hyperparameters struct {
	LearningRate    float64 `yaml:"learning_rate"`
	MaxDepth        int     `yaml:"max_depth"`
	MinChildWeight  float64 `yaml:"min_child_weight"`
	Subsample       float64 `yaml:"subsample"`
	ColsampleByTree float64 `yaml:"colsample_bytree"`
	NEstimators     int     `yaml:"n_estimators"`
	Seed            int64   `yaml:"seed"`
}

// DefaultHyperparameters returns the tuning used when the config is silent.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		LearningRate:    0.1,
		MaxDepth:        5,
		MinChildWeight:  1,
		Subsample:       0.8,
		ColsampleByTree: 0.8,
		NEstimators:     200,
		Seed:            42,
	}
}

// Validate rejects hyperparameter values the trainer cannot work with.
func (h Hyperparameters) Validate() error {
	if h.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %g", h.LearningRate)
	}
	if h.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be >= 1, got %d", h.MaxDepth)
	}
	if h.MinChildWeight < 1 {
		return fmt.Errorf("min_child_weight must be >= 1, got %g", h.MinChildWeight)
	}
	if h.Subsample <= 0 || h.Subsample > 1 {
		return fmt.Errorf("subsample must be in (0, 1], got %g", h.Subsample)
	}
	if h.ColsampleByTree <= 0 || h.ColsampleByTree > 1 {
		return fmt.Errorf("colsample_bytree must be in (0, 1], got %g", h.ColsampleByTree)
	}
	if h.NEstimators < 1 {
		return fmt.Errorf("n_estimators must be >= 1, got %d", h.NEstimators)
	}
	return nil
}

// New constructs an unfitted regressor for the given algorithm name.
func New(algorithm string, hp Hyperparameters) (Regressor, error) {
	switch algorithm {
	case AlgorithmGBT:
		return NewGradientBoosted(hp), nil
	case AlgorithmLinear:
		return NewLeastSquares(), nil
	default:
		return nil, fmt.Errorf("unknown estimator algorithm: %q", algorithm)
	}
}

// Importance pairs a feature name with its importance score.
type Importance struct {
	Feature string
	Score   float64
}

// RankImportances zips names with scores and sorts by score descending.
// Ties break on name so the ranking is stable across runs.
func RankImportances(names []string, scores []float64) []Importance {
	n := len(names)
	if len(scores) < n {
		n = len(scores)
	}
	ranked := make([]Importance, n)
	for i := 0; i < n; i++ {
		ranked[i] = Importance{Feature: names[i], Score: scores[i]}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Feature < ranked[j].Feature
	})
	return ranked
}
