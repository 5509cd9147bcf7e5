package dataset

import "github.com/abhi24703/dynamicpricing/internal/model"

// Source loads the historical pricing dataset.
type Source interface {
	Load() ([]model.PriceRecord, error)
	Name() string
}

// MemorySource serves fixed records, for tests and synthetic runs.
type MemorySource struct {
	Records []model.PriceRecord
}

func (m *MemorySource) Name() string { return "memory" }

func (m *MemorySource) Load() ([]model.PriceRecord, error) {
	return m.Records, nil
}
