package encoder

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/abhi24703/dynamicpricing/internal/model"
)

// DayNames is the frozen one-hot column order. Ordinal 1 = Monday.
var DayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// NumericFeatureNames is the frozen order of the standardized tail of the
// feature vector. Together with DayNames it defines the full vector layout:
// [7 one-hot day indicators] + [is_weekend, is_holiday, occupancy_rate, competitor_price].
// Training and inference must agree on this layout exactly; a silent mismatch
// produces wrong predictions with no error, which is why both orders live here
// and nowhere else.
var NumericFeatureNames = []string{"is_weekend", "is_holiday", "occupancy_rate", "competitor_price"}

// FittedScaler holds per-feature standardization statistics, computed once on
// training data and read-only afterwards. Never refit.
type FittedScaler struct {
	Means []float64
	Stds  []float64
}

// DayEncoding pins the day-column order the scaler was fit alongside. It is
// persisted with the model so a reloaded pipeline cannot drift from it.
type DayEncoding struct {
	Days []string
}

// VectorLen is the length of every encoded feature vector.
func (e *DayEncoding) VectorLen() int { return len(e.Days) + len(NumericFeatureNames) }

// FeatureNames returns the column names in vector order.
func (e *DayEncoding) FeatureNames() []string {
	names := make([]string, 0, e.VectorLen())
	for _, d := range e.Days {
		names = append(names, "day_"+strings.ToLower(d))
	}
	return append(names, NumericFeatureNames...)
}

// ResolveDay normalizes a day given by name (case-insensitive) or 1-based
// ordinal to its index in DayNames.
func ResolveDay(value string) (int, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, &MissingFeatureError{Field: "day_of_week"}
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > len(DayNames) {
			return 0, &InvalidDayError{Value: value}
		}
		return n - 1, nil
	}
	for i, name := range DayNames {
		if strings.EqualFold(v, name) {
			return i, nil
		}
	}
	return 0, &InvalidDayError{Value: value}
}

// Fit computes standardization statistics over the given records and returns
// the fitted scaler together with the day encoding it belongs to.
//
// A zero-variance feature gets std 1.0, so standardization degrades to
// mean-centering instead of producing NaN downstream.
func Fit(records []model.PriceRecord) (*FittedScaler, *DayEncoding, error) {
	if len(records) == 0 {
		return nil, nil, errors.New("no records to fit scaler on")
	}

	cols := make([][]float64, len(NumericFeatureNames))
	for i := range cols {
		cols[i] = make([]float64, len(records))
	}
	for j, r := range records {
		raw, err := rawNumericFeatures(r.Context)
		if err != nil {
			return nil, nil, err
		}
		for i, v := range raw {
			cols[i][j] = v
		}
	}

	sc := &FittedScaler{
		Means: make([]float64, len(cols)),
		Stds:  make([]float64, len(cols)),
	}
	for i, col := range cols {
		sc.Means[i] = stat.Mean(col, nil)
		std := stat.PopStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1.0
		}
		sc.Stds[i] = std
	}

	enc := &DayEncoding{Days: append([]string(nil), DayNames...)}
	return sc, enc, nil
}

// Encode transforms a pricing context into the fixed-order feature vector.
// Pure given the fitted state.
func Encode(ctx model.PricingContext, sc *FittedScaler, enc *DayEncoding) ([]float64, error) {
	day, err := ResolveDay(ctx.DayOfWeek)
	if err != nil {
		return nil, err
	}
	raw, err := rawNumericFeatures(ctx)
	if err != nil {
		return nil, err
	}
	if len(sc.Means) != len(raw) || len(sc.Stds) != len(raw) {
		return nil, errors.New("scaler shape does not match numeric feature count")
	}

	vec := make([]float64, enc.VectorLen())
	vec[day] = 1
	for i, v := range raw {
		vec[len(enc.Days)+i] = (v - sc.Means[i]) / sc.Stds[i]
	}
	return vec, nil
}

func rawNumericFeatures(ctx model.PricingContext) ([]float64, error) {
	if ctx.CompetitorPrice == 0 {
		return nil, &MissingFeatureError{Field: "competitor_price"}
	}
	return []float64{
		boolToFloat(ctx.IsWeekend),
		boolToFloat(ctx.IsHoliday),
		ctx.OccupancyRate,
		ctx.CompetitorPrice,
	}, nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
