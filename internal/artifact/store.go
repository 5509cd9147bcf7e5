// Package artifact persists the trained estimator, the fitted scaler, and the
// day-encoding metadata as three independent, versioned blobs so inference
// can run without retraining. The blobs share one model ID; loading a mixed
// set fails instead of silently predicting with mismatched state.
package artifact

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/abhi24703/dynamicpricing/internal/encoder"
	"github.com/abhi24703/dynamicpricing/internal/estimator"
)

// SchemaVersion is bumped whenever a blob layout changes incompatibly.
const SchemaVersion = 1

const (
	estimatorFile = "estimator.bin"
	scalerFile    = "scaler.bin"
	encodingFile  = "encoding.bin"
)

// Header is embedded in every blob.
type Header struct {
	Version   int       `msgpack:"version"`
	ModelID   string    `msgpack:"model_id"`
	CreatedAt time.Time `msgpack:"created_at"`
}

type scalerBlob struct {
	Header       `msgpack:"header"`
	Means        []float64 `msgpack:"means"`
	Stds         []float64 `msgpack:"stds"`
	FeatureNames []string  `msgpack:"feature_names"`
}

type encodingBlob struct {
	Header          `msgpack:"header"`
	Days            []string `msgpack:"days"`
	NumericFeatures []string `msgpack:"numeric_features"`
}

type estimatorBlob struct {
	Header    `msgpack:"header"`
	Algorithm string `msgpack:"algorithm"`
	Payload   []byte `msgpack:"payload"`
}

// Bundle is the full set of fitted state moving through the store.
type Bundle struct {
	ModelID   string
	Algorithm string
	Regressor estimator.Regressor
	Scaler    *encoder.FittedScaler
	Encoding  *encoder.DayEncoding
}

// Store reads and writes artifact blobs under one directory.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store { return &Store{Dir: dir} }

// Save writes all three blobs. The directory is created if needed.
func (s *Store) Save(b *Bundle) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	hdr := Header{Version: SchemaVersion, ModelID: b.ModelID, CreatedAt: time.Now()}

	payload, err := msgpack.Marshal(b.Regressor)
	if err != nil {
		return fmt.Errorf("marshal estimator: %w", err)
	}
	if err := s.writeBlob(estimatorFile, estimatorBlob{Header: hdr, Algorithm: b.Algorithm, Payload: payload}); err != nil {
		return err
	}
	if err := s.writeBlob(scalerFile, scalerBlob{
		Header: hdr, Means: b.Scaler.Means, Stds: b.Scaler.Stds,
		FeatureNames: encoder.NumericFeatureNames,
	}); err != nil {
		return err
	}
	if err := s.writeBlob(encodingFile, encodingBlob{
		Header: hdr, Days: b.Encoding.Days, NumericFeatures: encoder.NumericFeatureNames,
	}); err != nil {
		return err
	}

	log.Printf("[INFO] artifacts saved to %s (model %s)", s.Dir, b.ModelID)
	return nil
}

// Load reads all three blobs back, checking version and model ID agreement.
func (s *Store) Load() (*Bundle, error) {
	var est estimatorBlob
	if err := s.readBlob(estimatorFile, &est); err != nil {
		return nil, err
	}
	var sc scalerBlob
	if err := s.readBlob(scalerFile, &sc); err != nil {
		return nil, err
	}
	var enc encodingBlob
	if err := s.readBlob(encodingFile, &enc); err != nil {
		return nil, err
	}

	for name, hdr := range map[string]Header{
		estimatorFile: est.Header, scalerFile: sc.Header, encodingFile: enc.Header,
	} {
		if hdr.Version != SchemaVersion {
			return nil, fmt.Errorf("%s: schema version %d, want %d", name, hdr.Version, SchemaVersion)
		}
		if hdr.ModelID != est.ModelID {
			return nil, fmt.Errorf("%s belongs to model %s, estimator is %s", name, hdr.ModelID, est.ModelID)
		}
	}

	reg, err := unmarshalRegressor(est.Algorithm, est.Payload)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		ModelID:   est.ModelID,
		Algorithm: est.Algorithm,
		Regressor: reg,
		Scaler:    &encoder.FittedScaler{Means: sc.Means, Stds: sc.Stds},
		Encoding:  &encoder.DayEncoding{Days: enc.Days},
	}, nil
}

func unmarshalRegressor(algorithm string, payload []byte) (estimator.Regressor, error) {
	switch algorithm {
	case estimator.AlgorithmGBT:
		var g estimator.GradientBoosted
		if err := msgpack.Unmarshal(payload, &g); err != nil {
			return nil, fmt.Errorf("unmarshal gbt estimator: %w", err)
		}
		return &g, nil
	case estimator.AlgorithmLinear:
		var l estimator.LeastSquares
		if err := msgpack.Unmarshal(payload, &l); err != nil {
			return nil, fmt.Errorf("unmarshal linear estimator: %w", err)
		}
		return &l, nil
	default:
		return nil, fmt.Errorf("unknown estimator algorithm in artifact: %q", algorithm)
	}
}

func (s *Store) writeBlob(name string, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) readBlob(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}
