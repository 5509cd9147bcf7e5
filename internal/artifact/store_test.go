package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhi24703/dynamicpricing/internal/encoder"
	"github.com/abhi24703/dynamicpricing/internal/estimator"
)

func trainedBundle(t *testing.T, modelID string) *Bundle {
	t.Helper()

	var features [][]float64
	var targets []float64
	for i := 0; i < 40; i++ {
		x := float64(i) / 10
		features = append(features, []float64{x, x * x})
		targets = append(targets, 4000+800*x)
	}

	hp := estimator.DefaultHyperparameters()
	hp.NEstimators = 20
	hp.ColsampleByTree = 1.0
	reg := estimator.NewGradientBoosted(hp)
	require.NoError(t, reg.Fit(features, targets))

	return &Bundle{
		ModelID:   modelID,
		Algorithm: estimator.AlgorithmGBT,
		Regressor: reg,
		Scaler: &encoder.FittedScaler{
			Means: []float64{0.3, 0.1, 0.55, 8100},
			Stds:  []float64{0.45, 0.3, 0.2, 900},
		},
		Encoding: &encoder.DayEncoding{Days: encoder.DayNames},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	bundle := trainedBundle(t, "model-a")

	require.NoError(t, NewStore(dir).Save(bundle))

	loaded, err := NewStore(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "model-a", loaded.ModelID)
	assert.Equal(t, estimator.AlgorithmGBT, loaded.Algorithm)
	assert.Equal(t, bundle.Scaler.Means, loaded.Scaler.Means)
	assert.Equal(t, bundle.Scaler.Stds, loaded.Scaler.Stds)
	assert.Equal(t, bundle.Encoding.Days, loaded.Encoding.Days)

	// The reloaded estimator must predict byte-identically.
	probes := [][]float64{{0.5, 0.25}, {2.2, 4.84}, {3.9, 15.21}}
	for _, x := range probes {
		assert.Equal(t, bundle.Regressor.Predict(x), loaded.Regressor.Predict(x))
	}
}

func TestStore_LinearRoundTrip(t *testing.T) {
	dir := t.TempDir()

	reg := &estimator.LeastSquares{Coefficients: []float64{120, -3}, Intercept: 4500}
	bundle := trainedBundle(t, "model-lin")
	bundle.Algorithm = estimator.AlgorithmLinear
	bundle.Regressor = reg

	require.NoError(t, NewStore(dir).Save(bundle))
	loaded, err := NewStore(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, reg.Predict([]float64{1, 2}), loaded.Regressor.Predict([]float64{1, 2}))
}

func TestStore_MixedModelIDsRejected(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	require.NoError(t, NewStore(dirA).Save(trainedBundle(t, "model-a")))
	require.NoError(t, NewStore(dirB).Save(trainedBundle(t, "model-b")))

	// Overwrite A's scaler with B's: a mixed artifact set.
	data, err := os.ReadFile(filepath.Join(dirB, "scaler.bin"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dirA, "scaler.bin"), data, 0644))

	_, err = NewStore(dirA).Load()
	assert.ErrorContains(t, err, "model-b")
}

func TestStore_MissingBlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewStore(dir).Save(trainedBundle(t, "model-a")))
	require.NoError(t, os.Remove(filepath.Join(dir, "encoding.bin")))

	_, err := NewStore(dir).Load()
	assert.Error(t, err)
}
