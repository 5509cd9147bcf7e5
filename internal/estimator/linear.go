package estimator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LeastSquares is the alternative regressor implementation: ordinary least
// squares solved by QR factorization. It exists so the pipeline's dependence
// on the Regressor contract, not on any particular algorithm, stays honest.
type LeastSquares struct {
	Coefficients []float64 `msgpack:"coefficients"`
	Intercept    float64   `msgpack:"intercept"`
}

// NewLeastSquares creates an unfitted least-squares regressor.
func NewLeastSquares() *LeastSquares {
	return &LeastSquares{}
}

// Fit solves min ||A·beta - y|| over the design matrix with a bias column.
func (l *LeastSquares) Fit(features [][]float64, targets []float64) error {
	if len(features) == 0 {
		return errors.New("no training samples")
	}
	if len(features) != len(targets) {
		return fmt.Errorf("feature/target length mismatch: %d vs %d", len(features), len(targets))
	}

	n := len(features)
	d := len(features[0])
	if n < d+1 {
		return fmt.Errorf("need at least %d samples for %d features, got %d", d+1, d, n)
	}

	a := mat.NewDense(n, d+1, nil)
	for i, row := range features {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewDense(n, 1, targets)

	var qr mat.QR
	qr.Factorize(a)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return fmt.Errorf("least squares solve: %w", err)
	}

	l.Intercept = beta.At(0, 0)
	l.Coefficients = make([]float64, d)
	for j := 0; j < d; j++ {
		l.Coefficients[j] = beta.At(j+1, 0)
	}
	return nil
}

// Predict returns the linear estimate for one feature vector.
func (l *LeastSquares) Predict(features []float64) float64 {
	p := l.Intercept
	for j, c := range l.Coefficients {
		if j < len(features) {
			p += c * features[j]
		}
	}
	return p
}

// FeatureImportances reports |coefficient| per feature, normalized. Sensible
// here because the encoder standardizes the numeric features first.
func (l *LeastSquares) FeatureImportances() []float64 {
	out := make([]float64, len(l.Coefficients))
	var total float64
	for _, c := range l.Coefficients {
		total += math.Abs(c)
	}
	if total == 0 {
		return out
	}
	for i, c := range l.Coefficients {
		out[i] = math.Abs(c) / total
	}
	return out
}
