package storage

import (
	"context"
	"fmt"
)

const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// NewStore builds and initializes a store. path is the directory of a file
// store or the database file of a sqlite store.
func NewStore(ctx context.Context, kind, path string) (Store, error) {
	var store Store
	switch kind {
	case "", KindMemory:
		store = NewMemoryStore()
	case KindFile:
		store = NewFileStore(path)
	case KindSQLite:
		store = NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("init %s store: %w", kind, err)
	}
	return store, nil
}
