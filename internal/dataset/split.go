package dataset

import (
	"fmt"
	"math/rand"

	"github.com/abhi24703/dynamicpricing/internal/model"
)

// Split shuffles records with a seeded source and cuts off the trailing
// testFraction as the held-out set. Same seed, same split.
func Split(records []model.PriceRecord, testFraction float64, seed int64) (train, test []model.PriceRecord, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %g", testFraction)
	}
	testSize := int(float64(len(records))*testFraction + 0.5)
	if testSize < 1 || len(records)-testSize < 1 {
		return nil, nil, fmt.Errorf("insufficient data for train/test split: %d records at fraction %g", len(records), testFraction)
	}

	shuffled := append([]model.PriceRecord(nil), records...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := len(shuffled) - testSize
	return shuffled[:cut], shuffled[cut:], nil
}
