package estimator

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// TreeNode is one node of a regression tree. Exported so trained trees can be
// persisted as-is by the artifact store.
type TreeNode struct {
	Feature   int       `msgpack:"feature"`
	Threshold float64   `msgpack:"threshold"`
	Left      *TreeNode `msgpack:"left"`
	Right     *TreeNode `msgpack:"right"`
	Value     float64   `msgpack:"value"`
	Leaf      bool      `msgpack:"leaf"`
}

func (n *TreeNode) predict(x []float64) float64 {
	for !n.Leaf {
		if x[n.Feature] < n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// GradientBoosted is a gradient-boosted ensemble of regression trees under
// squared loss: each round fits a tree to the current residuals and adds it
// scaled by the learning rate. Deterministic for a fixed seed.
type GradientBoosted struct {
	Params    Hyperparameters `msgpack:"params"`
	Base      float64         `msgpack:"base"`
	Trees     []*TreeNode     `msgpack:"trees"`
	Gains     []float64       `msgpack:"gains"`
	NFeatures int             `msgpack:"n_features"`
}

// NewGradientBoosted creates an unfitted boosted-tree regressor.
func NewGradientBoosted(hp Hyperparameters) *GradientBoosted {
	return &GradientBoosted{Params: hp}
}

// Fit trains the ensemble. The state is immutable afterwards.
func (g *GradientBoosted) Fit(features [][]float64, targets []float64) error {
	if err := g.Params.Validate(); err != nil {
		return err
	}
	if len(features) == 0 {
		return errors.New("no training samples")
	}
	if len(features) != len(targets) {
		return fmt.Errorf("feature/target length mismatch: %d vs %d", len(features), len(targets))
	}

	n := len(features)
	g.NFeatures = len(features[0])
	g.Gains = make([]float64, g.NFeatures)
	g.Trees = make([]*TreeNode, 0, g.Params.NEstimators)

	g.Base = mean(targets)
	residuals := make([]float64, n)
	for i, y := range targets {
		residuals[i] = y - g.Base
	}

	rng := rand.New(rand.NewSource(g.Params.Seed))
	rowCount := int(float64(n)*g.Params.Subsample + 0.5)
	if rowCount < 1 {
		rowCount = 1
	}
	colCount := int(float64(g.NFeatures)*g.Params.ColsampleByTree + 0.5)
	if colCount < 1 {
		colCount = 1
	}

	for t := 0; t < g.Params.NEstimators; t++ {
		rows := rng.Perm(n)[:rowCount]
		sort.Ints(rows)
		cols := rng.Perm(g.NFeatures)[:colCount]
		sort.Ints(cols)

		tree := g.buildTree(features, residuals, rows, cols, 0)
		g.Trees = append(g.Trees, tree)

		for i := range residuals {
			residuals[i] -= g.Params.LearningRate * tree.predict(features[i])
		}
	}
	return nil
}

// Predict returns the ensemble estimate for one feature vector.
func (g *GradientBoosted) Predict(features []float64) float64 {
	p := g.Base
	for _, tree := range g.Trees {
		p += g.Params.LearningRate * tree.predict(features)
	}
	return p
}

// FeatureImportances reports accumulated squared-error gain per feature,
// normalized to sum to 1.
func (g *GradientBoosted) FeatureImportances() []float64 {
	out := make([]float64, len(g.Gains))
	var total float64
	for _, v := range g.Gains {
		total += v
	}
	if total == 0 {
		return out
	}
	for i, v := range g.Gains {
		out[i] = v / total
	}
	return out
}

func (g *GradientBoosted) buildTree(features [][]float64, residuals []float64, rows, cols []int, depth int) *TreeNode {
	if depth >= g.Params.MaxDepth || float64(len(rows)) < 2*g.Params.MinChildWeight {
		return &TreeNode{Leaf: true, Value: meanAt(residuals, rows)}
	}

	feature, threshold, gain, ok := g.bestSplit(features, residuals, rows, cols)
	if !ok {
		return &TreeNode{Leaf: true, Value: meanAt(residuals, rows)}
	}
	g.Gains[feature] += gain

	var left, right []int
	for _, i := range rows {
		if features[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      g.buildTree(features, residuals, left, cols, depth+1),
		Right:     g.buildTree(features, residuals, right, cols, depth+1),
	}
}

// bestSplit scans every candidate feature for the threshold maximizing the
// squared-error reduction, honoring MinChildWeight on both children.
func (g *GradientBoosted) bestSplit(features [][]float64, residuals []float64, rows, cols []int) (feature int, threshold, gain float64, ok bool) {
	parentSum, parentSq := sums(residuals, rows)
	n := float64(len(rows))
	parentSSE := parentSq - parentSum*parentSum/n

	type pair struct{ v, r float64 }
	pairs := make([]pair, len(rows))

	for _, f := range cols {
		for i, row := range rows {
			pairs[i] = pair{v: features[row][f], r: residuals[row]}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].v < pairs[j].v })

		var leftSum, leftSq float64
		for i := 0; i < len(pairs)-1; i++ {
			leftSum += pairs[i].r
			leftSq += pairs[i].r * pairs[i].r
			if pairs[i].v == pairs[i+1].v {
				continue
			}
			nl := float64(i + 1)
			nr := n - nl
			if nl < g.Params.MinChildWeight || nr < g.Params.MinChildWeight {
				continue
			}
			rightSum := parentSum - leftSum
			rightSq := parentSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if improvement := parentSSE - sse; improvement > gain {
				feature = f
				threshold = (pairs[i].v + pairs[i+1].v) / 2
				gain = improvement
				ok = true
			}
		}
	}
	return feature, threshold, gain, ok
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanAt(values []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += values[i]
	}
	return sum / float64(len(idx))
}

func sums(values []float64, idx []int) (sum, sq float64) {
	for _, i := range idx {
		sum += values[i]
		sq += values[i] * values[i]
	}
	return sum, sq
}
