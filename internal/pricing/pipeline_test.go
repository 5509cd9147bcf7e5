package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/abhi24703/dynamicpricing/internal/adjuster"
	"github.com/abhi24703/dynamicpricing/internal/encoder"
	"github.com/abhi24703/dynamicpricing/internal/estimator"
	"github.com/abhi24703/dynamicpricing/internal/model"
)

// stubRegressor always predicts a fixed base price, so adjustment behavior
// can be verified against exact expectations.
type stubRegressor struct {
	value float64
}

func (s *stubRegressor) Fit(_ [][]float64, _ []float64) error { return nil }
func (s *stubRegressor) Predict(_ []float64) float64          { return s.value }
func (s *stubRegressor) FeatureImportances() []float64        { return make([]float64, 11) }

func syntheticRecords(n int) []model.PriceRecord {
	records := make([]model.PriceRecord, n)
	for i := 0; i < n; i++ {
		day := encoder.DayNames[i%7]
		weekend := day == "Saturday" || day == "Sunday"
		holiday := i%11 == 0
		occupancy := 0.25 + 0.6*float64(i%10)/9
		competitor := 6500 + float64(i%8)*400
		price := 3500 + 3000*occupancy + 0.25*competitor
		if weekend {
			price += 600
		}
		if holiday {
			price += 900
		}
		records[i] = model.PriceRecord{
			Context: model.PricingContext{
				DayOfWeek:       day,
				IsWeekend:       weekend,
				IsHoliday:       holiday,
				OccupancyRate:   occupancy,
				CompetitorPrice: competitor,
			},
			RoomPrice: price,
		}
	}
	return records
}

func fittedStubPipeline(t *testing.T, base float64) *Pipeline {
	t.Helper()
	sc, enc, err := encoder.Fit(syntheticRecords(20))
	if err != nil {
		t.Fatalf("fit encoder: %v", err)
	}
	return Restore(&stubRegressor{value: base}, sc, enc, adjuster.NewEngine(0), "fixture")
}

var baseScenario = model.PricingContext{
	DayOfWeek:       "Tuesday",
	IsWeekend:       false,
	IsHoliday:       false,
	OccupancyRate:   0.5,
	CompetitorPrice: 8000,
}

func TestPredictPrice_BaseCaseIsIdentity(t *testing.T) {
	pipe := fittedStubPipeline(t, 5000)

	quote, err := pipe.PredictPrice(baseScenario)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if quote.FinalPrice != quote.BasePrice {
		t.Errorf("base scenario should apply no adjustment: base %.4f, final %.4f",
			quote.BasePrice, quote.FinalPrice)
	}
	for _, a := range quote.Adjustments {
		if a.Multiplier != 1.0 {
			t.Errorf("%s multiplier should be exactly 1.0, got %v", a.Name, a.Multiplier)
		}
	}
}

func TestPredictPrice_SingleFactorDeltas(t *testing.T) {
	pipe := fittedStubPipeline(t, 5000)

	baseQuote, err := pipe.PredictPrice(baseScenario)
	if err != nil {
		t.Fatalf("predict base: %v", err)
	}

	highOcc, err := pipe.PredictPrice(baseScenario.WithOccupancy(0.9))
	if err != nil {
		t.Fatalf("predict high occupancy: %v", err)
	}
	if want := baseQuote.FinalPrice * 1.15; math.Abs(highOcc.FinalPrice-want) > 1e-9 {
		t.Errorf("occupancy 0.9 should multiply by 1.15: expected %.4f, got %.4f", want, highOcc.FinalPrice)
	}

	highComp, err := pipe.PredictPrice(baseScenario.WithCompetitorPrice(12000))
	if err != nil {
		t.Fatalf("predict high competitor: %v", err)
	}
	if want := baseQuote.FinalPrice * 1.05; math.Abs(highComp.FinalPrice-want) > 1e-9 {
		t.Errorf("competitor 12000 should multiply by 1.05: expected %.4f, got %.4f", want, highComp.FinalPrice)
	}
}

func TestPredictPrice_Deterministic(t *testing.T) {
	pipe := fittedStubPipeline(t, 5000)
	ctx := baseScenario.WithOccupancy(0.83).WithCompetitorPrice(9100)

	first, err := pipe.PredictPrice(ctx)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := pipe.PredictPrice(ctx)
		if err != nil {
			t.Fatalf("predict: %v", err)
		}
		if again.FinalPrice != first.FinalPrice {
			t.Fatalf("prediction %d differs: %v vs %v", i, again.FinalPrice, first.FinalPrice)
		}
	}
}

func TestPredictPrice_NotFitted(t *testing.T) {
	pipe := NewPipeline(&stubRegressor{}, adjuster.NewEngine(0))
	if _, err := pipe.PredictPrice(baseScenario); !errors.Is(err, ErrNotFitted) {
		t.Errorf("expected ErrNotFitted, got %v", err)
	}
	if _, err := pipe.FeatureImportance(); !errors.Is(err, ErrNotFitted) {
		t.Errorf("expected ErrNotFitted, got %v", err)
	}
}

func TestPredictPrice_InvalidDaySurfaces(t *testing.T) {
	pipe := fittedStubPipeline(t, 5000)
	_, err := pipe.PredictPrice(baseScenario.WithDay("Someday"))
	var dayErr *encoder.InvalidDayError
	if !errors.As(err, &dayErr) {
		t.Errorf("expected InvalidDayError, got %v", err)
	}
}

func TestTrain_EndToEnd(t *testing.T) {
	hp := estimator.Hyperparameters{
		LearningRate:    0.1,
		MaxDepth:        3,
		MinChildWeight:  1,
		Subsample:       0.9,
		ColsampleByTree: 1.0,
		NEstimators:     60,
		Seed:            42,
	}
	records := syntheticRecords(120)

	pipe := NewPipeline(estimator.NewGradientBoosted(hp), adjuster.NewEngine(0))
	eval, err := pipe.Train(records, 0.2, hp.Seed)
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	if eval.TrainSize+eval.TestSize != len(records) {
		t.Errorf("split sizes %d+%d should cover %d records", eval.TrainSize, eval.TestSize, len(records))
	}
	if math.IsNaN(eval.RMSE) || math.IsNaN(eval.RSquared) {
		t.Errorf("diagnostics should be finite: %+v", eval)
	}
	if !pipe.Fitted() {
		t.Fatal("pipeline should be fitted after Train")
	}
	if pipe.ModelID() == "" {
		t.Error("trained pipeline should carry a model ID")
	}

	quote, err := pipe.PredictPrice(baseScenario)
	if err != nil {
		t.Fatalf("predict after train: %v", err)
	}
	if quote.FinalPrice <= 0 {
		t.Errorf("synthetic dataset prices are well above zero, got %.2f", quote.FinalPrice)
	}

	ranked, err := pipe.FeatureImportance()
	if err != nil {
		t.Fatalf("feature importance: %v", err)
	}
	if len(ranked) != 11 {
		t.Fatalf("expected 11 ranked features, got %d", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("importances not sorted at %d: %v", i, ranked)
		}
	}
}

func TestTrain_InsufficientData(t *testing.T) {
	pipe := NewPipeline(estimator.NewLeastSquares(), adjuster.NewEngine(0))
	if _, err := pipe.Train(syntheticRecords(1), 0.2, 42); err == nil {
		t.Error("expected error for a dataset too small to split")
	}
}
