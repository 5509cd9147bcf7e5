package pricing

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/abhi24703/dynamicpricing/internal/adjuster"
	"github.com/abhi24703/dynamicpricing/internal/dataset"
	"github.com/abhi24703/dynamicpricing/internal/encoder"
	"github.com/abhi24703/dynamicpricing/internal/estimator"
	"github.com/abhi24703/dynamicpricing/internal/model"
)

// ErrNotFitted is returned when prediction is attempted before Train (or
// Restore) has produced fitted state.
var ErrNotFitted = errors.New("pipeline is not fitted")

// Pipeline orchestrates encode → estimate → adjust. The fitted state (scaler,
// day encoding, regressor) is immutable after Train, so concurrent
// PredictPrice calls are safe without locking.
type Pipeline struct {
	regressor estimator.Regressor
	adjuster  *adjuster.Engine

	scaler  *encoder.FittedScaler
	dayEnc  *encoder.DayEncoding
	modelID string
}

// NewPipeline creates an unfitted pipeline around a regressor and an
// adjustment engine.
func NewPipeline(reg estimator.Regressor, adj *adjuster.Engine) *Pipeline {
	return &Pipeline{regressor: reg, adjuster: adj}
}

// Restore rebuilds a fitted pipeline from persisted artifacts so inference
// can run without retraining.
func Restore(reg estimator.Regressor, sc *encoder.FittedScaler, enc *encoder.DayEncoding, adj *adjuster.Engine, modelID string) *Pipeline {
	return &Pipeline{
		regressor: reg,
		adjuster:  adj,
		scaler:    sc,
		dayEnc:    enc,
		modelID:   modelID,
	}
}

// Fitted reports whether the pipeline can serve predictions.
func (p *Pipeline) Fitted() bool { return p.scaler != nil && p.dayEnc != nil }

// ModelID identifies the fitted model across artifacts and records.
func (p *Pipeline) ModelID() string { return p.modelID }

// Scaler exposes the fitted scaler for persistence.
func (p *Pipeline) Scaler() *encoder.FittedScaler { return p.scaler }

// DayEncoding exposes the fitted day encoding for persistence.
func (p *Pipeline) DayEncoding() *encoder.DayEncoding { return p.dayEnc }

// Regressor exposes the trained regressor for persistence.
func (p *Pipeline) Regressor() estimator.Regressor { return p.regressor }

// Train fits the encoder on all records, splits the encoded set, fits the
// regressor on the training part, and scores the held-out part. The regressor
// always trains on raw room prices; adjustments are applied at prediction
// time only.
func (p *Pipeline) Train(records []model.PriceRecord, testFraction float64, seed int64) (*estimator.Evaluation, error) {
	sc, enc, err := encoder.Fit(records)
	if err != nil {
		return nil, fmt.Errorf("fit encoder: %w", err)
	}

	train, test, err := dataset.Split(records, testFraction, seed)
	if err != nil {
		return nil, err
	}

	trainX, trainY, err := encodeAll(train, sc, enc)
	if err != nil {
		return nil, fmt.Errorf("encode training set: %w", err)
	}
	testX, testY, err := encodeAll(test, sc, enc)
	if err != nil {
		return nil, fmt.Errorf("encode test set: %w", err)
	}

	log.Printf("[INFO] training estimator on %d records (%d held out)", len(trainY), len(testY))
	if err := p.regressor.Fit(trainX, trainY); err != nil {
		return nil, fmt.Errorf("fit estimator: %w", err)
	}

	eval := estimator.Evaluate(p.regressor, testX, testY)
	eval.TrainSize = len(trainY)

	p.scaler = sc
	p.dayEnc = enc
	p.modelID = uuid.NewString()
	return &eval, nil
}

// PredictPrice runs the single externally consumed operation:
// encode → estimate → adjust, in that order.
func (p *Pipeline) PredictPrice(ctx model.PricingContext) (*model.PriceQuote, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}

	vec, err := encoder.Encode(ctx, p.scaler, p.dayEnc)
	if err != nil {
		return nil, err
	}

	base := p.regressor.Predict(vec)
	final, adjustments := p.adjuster.Apply(base, ctx)

	return &model.PriceQuote{
		Context:     ctx,
		BasePrice:   base,
		Adjustments: adjustments,
		FinalPrice:  final,
		ModelID:     p.modelID,
		QuotedAt:    time.Now(),
	}, nil
}

// FeatureImportance returns the regressor's importances ranked by score.
func (p *Pipeline) FeatureImportance() ([]estimator.Importance, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	return estimator.RankImportances(p.dayEnc.FeatureNames(), p.regressor.FeatureImportances()), nil
}

func encodeAll(records []model.PriceRecord, sc *encoder.FittedScaler, enc *encoder.DayEncoding) ([][]float64, []float64, error) {
	features := make([][]float64, len(records))
	targets := make([]float64, len(records))
	for i, rec := range records {
		vec, err := encoder.Encode(rec.Context, sc, enc)
		if err != nil {
			return nil, nil, err
		}
		features[i] = vec
		targets[i] = rec.RoomPrice
	}
	return features, targets, nil
}
