package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/abhi24703/dynamicpricing/internal/model"
)

func TestSQLiteRecorder_Records(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rec.Close()

	quote := &model.PriceQuote{
		Context: model.PricingContext{
			DayOfWeek: "Friday", OccupancyRate: 0.85, CompetitorPrice: 9000,
		},
		BasePrice: 6200,
		Adjustments: []model.Adjustment{
			{Name: "competitor", Multiplier: 1.0125},
			{Name: "occupancy", Multiplier: 1.10},
		},
		FinalPrice: 6200 * 1.0125 * 1.10,
		ModelID:    "test-model",
		QuotedAt:   time.Now(),
	}
	if err := rec.RecordQuote(quote); err != nil {
		t.Errorf("record quote: %v", err)
	}

	if err := rec.RecordTraining(&TrainingRun{
		ModelID:   "test-model",
		Algorithm: "gbt",
		Records:   500,
		TrainSize: 400,
		TestSize:  100,
		RMSE:      312.4,
		RSquared:  0.87,
	}); err != nil {
		t.Errorf("record training: %v", err)
	}
}

func TestNoopRecorder(t *testing.T) {
	rec := NewNoopRecorder()
	if err := rec.RecordQuote(&model.PriceQuote{}); err != nil {
		t.Errorf("noop quote: %v", err)
	}
	if err := rec.RecordTraining(&TrainingRun{}); err != nil {
		t.Errorf("noop training: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("noop close: %v", err)
	}
}
