package analysis

import (
	"context"

	"github.com/zeu5/grid-agents/core"
	"github.com/zeu5/grid-agents/storage"
)

// StoreRecorder keeps the episode history of every run in a store.
type StoreRecorder struct {
	store storage.Store
	name  string
}

var _ core.Recorder = &StoreRecorder{}

func NewStoreRecorder(store storage.Store, name string) *StoreRecorder {
	return &StoreRecorder{store: store, name: name}
}

func (s *StoreRecorder) Record(ctx context.Context, result *core.RunResult) error {
	return s.store.SaveRun(ctx, storage.NewRunRecord(s.name, result))
}
