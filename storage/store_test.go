package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/zeu5/grid-agents/core"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	stores := map[string]Store{
		KindMemory: NewMemoryStore(),
		KindFile:   NewFileStore(filepath.Join(dir, "policies")),
		KindSQLite: NewSQLiteStore(filepath.Join(dir, "grid.db")),
	}
	for kind, s := range stores {
		if err := s.Init(context.Background()); err != nil {
			t.Fatalf("init %s: %v", kind, err)
		}
		s := s
		t.Cleanup(func() { s.Close() })
	}
	return stores
}

func TestStoreQTableRoundTrip(t *testing.T) {
	ctx := context.Background()
	for kind, store := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			empty, err := store.LoadQTable(ctx, "missing")
			if err != nil {
				t.Fatalf("load missing: %v", err)
			}
			if len(empty) != 0 {
				t.Fatalf("expected empty table got %v", empty)
			}

			if err := store.SaveQTable(ctx, "A1", map[string]float64{"1,0,1|E": 0.42, "0,0,0|STAY": -1}); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := store.SaveQTable(ctx, "A1", map[string]float64{"1,0,1|E": 0.5}); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := store.LoadQTable(ctx, "A1")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(got) != 1 || got["1,0,1|E"] != 0.5 {
				t.Fatalf("expected the second save to replace the table, got %v", got)
			}
		})
	}
}

func TestStoreGenomeRoundTrip(t *testing.T) {
	ctx := context.Background()
	for kind, store := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			genome := map[string]string{"1,-1": "E", "0,0": "STAY"}
			if err := store.SaveGenome(ctx, "A2/run", genome); err != nil {
				t.Fatalf("save: %v", err)
			}
			genome["0,0"] = "N"

			got, err := store.LoadGenome(ctx, "A2/run")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(got) != 2 || got["1,-1"] != "E" || got["0,0"] != "STAY" {
				t.Fatalf("unexpected genome %v", got)
			}
			if other, _ := store.LoadGenome(ctx, "A2"); len(other) != 0 {
				t.Fatalf("expected genomes to be keyed by full name, got %v", other)
			}
		})
	}
}

func TestStoreRuns(t *testing.T) {
	ctx := context.Background()
	result := &core.RunResult{
		RunID: "run-1",
		Episodes: []core.EpisodeRecord{
			{Episode: 1, TotalReward: 9.5, DiscountedReward: 9, Steps: 6, Success: true},
			{Episode: 2, TotalReward: -2, DiscountedReward: -1.8, Steps: 20},
		},
	}
	for kind, store := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			if _, ok, err := store.GetRun(ctx, "run-1"); err != nil || ok {
				t.Fatalf("expected no run yet, got %v %v", ok, err)
			}
			if err := store.SaveRun(ctx, NewRunRecord("lighthouse", result)); err != nil {
				t.Fatalf("save run: %v", err)
			}
			run, ok, err := store.GetRun(ctx, "run-1")
			if err != nil || !ok {
				t.Fatalf("get run: %v %v", ok, err)
			}
			if run.Name != "lighthouse" || len(run.Episodes) != 2 {
				t.Fatalf("unexpected run %+v", run)
			}
			if run.Episodes[0] != result.Episodes[0] || run.Episodes[1] != result.Episodes[1] {
				t.Fatalf("expected episodes %v got %v", result.Episodes, run.Episodes)
			}
		})
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	s := NewMemoryStore()
	if err := s.SaveQTable(context.Background(), "A1", nil); err == nil {
		t.Fatalf("expected an error before Init")
	}
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(ctx, KindSQLite, filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("expected *SQLiteStore got %T", s)
	}
	if _, err := NewStore(ctx, KindFile, ""); err == nil {
		t.Fatalf("expected a file store without a directory to fail")
	}
	if _, err := NewStore(ctx, "redis", ""); err == nil {
		t.Fatalf("expected an unknown backend to fail")
	}
}
