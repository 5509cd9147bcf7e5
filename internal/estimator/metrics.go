package estimator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Evaluation holds held-out diagnostics from a training run. Operator-facing
// output, not part of the pricing contract.
type Evaluation struct {
	RMSE      float64
	RSquared  float64
	TrainSize int
	TestSize  int
}

// RMSE computes the root-mean-squared-error between predictions and targets.
func RMSE(predictions, targets []float64) float64 {
	if len(predictions) == 0 || len(predictions) != len(targets) {
		return math.NaN()
	}
	var sse float64
	for i, p := range predictions {
		d := p - targets[i]
		sse += d * d
	}
	return math.Sqrt(sse / float64(len(predictions)))
}

// RSquared computes the coefficient of determination.
func RSquared(predictions, targets []float64) float64 {
	if len(predictions) == 0 || len(predictions) != len(targets) {
		return math.NaN()
	}
	return stat.RSquaredFrom(predictions, targets, nil)
}

// Evaluate fits nothing; it scores an already-trained regressor on a held-out
// set.
func Evaluate(reg Regressor, features [][]float64, targets []float64) Evaluation {
	predictions := make([]float64, len(features))
	for i, x := range features {
		predictions[i] = reg.Predict(x)
	}
	return Evaluation{
		RMSE:     RMSE(predictions, targets),
		RSquared: RSquared(predictions, targets),
		TestSize: len(targets),
	}
}
