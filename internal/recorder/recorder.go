package recorder

import "github.com/abhi24703/dynamicpricing/internal/model"

// TrainingRun holds the outcome of one training invocation.
type TrainingRun struct {
	ModelID   string
	Algorithm string
	Records   int
	TrainSize int
	TestSize  int
	RMSE      float64
	RSquared  float64
}

// Recorder persists quotes and training runs for later review.
type Recorder interface {
	RecordQuote(q *model.PriceQuote) error
	RecordTraining(run *TrainingRun) error
	Close() error
}
