package encoder

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhi24703/dynamicpricing/internal/model"
)

func fixtureRecords() []model.PriceRecord {
	occupancies := []float64{0.2, 0.4, 0.6, 0.8}
	competitors := []float64{7000, 8000, 9000, 10000}
	records := make([]model.PriceRecord, 4)
	for i := range records {
		records[i] = model.PriceRecord{
			Context: model.PricingContext{
				DayOfWeek:       DayNames[i],
				IsWeekend:       i%2 == 0,
				IsHoliday:       i == 3,
				OccupancyRate:   occupancies[i],
				CompetitorPrice: competitors[i],
			},
			RoomPrice: 5000 + float64(i)*200,
		}
	}
	return records
}

func TestEncode_DayNameOrdinalEquivalence(t *testing.T) {
	sc, enc, err := Fit(fixtureRecords())
	require.NoError(t, err)

	base := model.PricingContext{OccupancyRate: 0.5, CompetitorPrice: 8000}

	byName, err := Encode(base.WithDay("Tuesday"), sc, enc)
	require.NoError(t, err)
	byOrdinal, err := Encode(base.WithDay("2"), sc, enc)
	require.NoError(t, err)
	assert.Equal(t, byName, byOrdinal)

	lower, err := Encode(base.WithDay("tuesday"), sc, enc)
	require.NoError(t, err)
	assert.Equal(t, byName, lower)
}

func TestEncode_OneHotLayout(t *testing.T) {
	sc, enc, err := Fit(fixtureRecords())
	require.NoError(t, err)

	vec, err := Encode(model.PricingContext{
		DayOfWeek:       "Sunday",
		OccupancyRate:   0.5,
		CompetitorPrice: 8000,
	}, sc, enc)
	require.NoError(t, err)

	require.Len(t, vec, 11)
	for i := 0; i < 7; i++ {
		if i == 6 {
			assert.Equal(t, 1.0, vec[i], "Sunday slot should be hot")
		} else {
			assert.Equal(t, 0.0, vec[i], "day slot %d should be cold", i)
		}
	}
}

func TestEncode_Standardization(t *testing.T) {
	records := fixtureRecords()
	sc, enc, err := Fit(records)
	require.NoError(t, err)

	// Occupancy column is {0.2, 0.4, 0.6, 0.8}: mean 0.5, population std sqrt(0.05).
	vec, err := Encode(model.PricingContext{
		DayOfWeek:       "Monday",
		OccupancyRate:   0.8,
		CompetitorPrice: 8000,
	}, sc, enc)
	require.NoError(t, err)

	wantOcc := (0.8 - 0.5) / math.Sqrt(0.05)
	assert.InDelta(t, wantOcc, vec[9], 1e-12)
}

func TestFit_ZeroVarianceGuard(t *testing.T) {
	records := fixtureRecords()
	for i := range records {
		records[i].Context.CompetitorPrice = 8000 // zero-variance column
	}
	sc, enc, err := Fit(records)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sc.Stds[3], "zero-variance std should degrade to 1.0")

	vec, err := Encode(records[0].Context, sc, enc)
	require.NoError(t, err)
	for i, v := range vec {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "vec[%d] must be finite, got %v", i, v)
	}
	assert.Equal(t, 0.0, vec[10], "constant column centers to zero")
}

func TestResolveDay_Invalid(t *testing.T) {
	for _, bad := range []string{"Funday", "0", "8", "-1", "Mon day"} {
		_, err := ResolveDay(bad)
		var dayErr *InvalidDayError
		if !errors.As(err, &dayErr) {
			t.Errorf("%q: expected InvalidDayError, got %v", bad, err)
		}
	}
}

func TestResolveDay_Ordinals(t *testing.T) {
	idx, err := ResolveDay("1")
	require.NoError(t, err)
	assert.Equal(t, 0, idx, "ordinal 1 is Monday")

	idx, err = ResolveDay("7")
	require.NoError(t, err)
	assert.Equal(t, 6, idx, "ordinal 7 is Sunday")
}

func TestEncode_MissingFeatures(t *testing.T) {
	sc, enc, err := Fit(fixtureRecords())
	require.NoError(t, err)

	var missing *MissingFeatureError

	_, err = Encode(model.PricingContext{OccupancyRate: 0.5, CompetitorPrice: 8000}, sc, enc)
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "day_of_week", missing.Field)

	_, err = Encode(model.PricingContext{DayOfWeek: "Monday", OccupancyRate: 0.5}, sc, enc)
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "competitor_price", missing.Field)
}

func TestFit_NoRecords(t *testing.T) {
	_, _, err := Fit(nil)
	assert.Error(t, err)
}

func TestFeatureNames_Order(t *testing.T) {
	_, enc, err := Fit(fixtureRecords())
	require.NoError(t, err)

	names := enc.FeatureNames()
	require.Len(t, names, 11)
	assert.Equal(t, "day_monday", names[0])
	assert.Equal(t, "day_sunday", names[6])
	assert.Equal(t, []string{"is_weekend", "is_holiday", "occupancy_rate", "competitor_price"}, names[7:])
}
