package recorder

import "github.com/abhi24703/dynamicpricing/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordQuote(_ *model.PriceQuote) error { return nil }
func (n *NoopRecorder) RecordTraining(_ *TrainingRun) error   { return nil }
func (n *NoopRecorder) Close() error                          { return nil }
