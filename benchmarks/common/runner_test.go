package common_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeu5/grid-agents/analysis"
	"github.com/zeu5/grid-agents/benchmarks/common"
	"github.com/zeu5/grid-agents/benchmarks/lighthouse"
	"github.com/zeu5/grid-agents/config"
	"github.com/zeu5/grid-agents/storage"
)

func TestRunWritesOutputsAndPolicies(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewStore(ctx, storage.KindFile, filepath.Join(dir, "store"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	exp := config.Default(config.EnvLighthouse)
	exp.Run.Episodes = 5
	exp.Run.MaxSteps = 30
	exp.Agents[0].Seed = 42
	ga := exp.Agents[0]
	ga.Name = "A2"
	ga.Algorithm = "genetic"
	ga.GA.PopulationSize = 2
	ga.GA.Elitism = 1
	ga.GA.TournamentSize = 2
	exp.Agents = append(exp.Agents, ga)

	savePath := common.RunPath(dir, 2, 1)
	result, err := common.Run(ctx, exp, lighthouse.NewSetup, store, common.RunOptions{
		SavePath:     savePath,
		PolicySuffix: "_run1",
		Debug:        true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Episodes) != 5 {
		t.Fatalf("expected 5 episodes got %d", len(result.Episodes))
	}

	for _, f := range []string{analysis.MetricsFile, analysis.StepMetricsFile, analysis.RewardsChartFile, "traces"} {
		if _, err := os.Stat(filepath.Join(savePath, f)); err != nil {
			t.Fatalf("expected %s: %v", f, err)
		}
	}
	table, err := store.LoadQTable(ctx, "A1_run1")
	if err != nil || len(table) == 0 {
		t.Fatalf("expected the learned q table under its suffixed name, got %d entries, %v", len(table), err)
	}
	genome, err := store.LoadGenome(ctx, "A2_run1")
	if err != nil || len(genome) != len(lighthouse.NewSpace().Keys()) {
		t.Fatalf("expected the best genome to be saved, got %d genes, %v", len(genome), err)
	}
	if _, ok, _ := store.GetRun(ctx, result.RunID); !ok {
		t.Fatalf("expected the run history in the store")
	}
}

func TestRunRejectsBadStart(t *testing.T) {
	exp := config.Default(config.EnvLighthouse)
	exp.Agents[0].Start.X = 99
	store := storage.NewMemoryStore()
	store.Init(context.Background())
	if _, err := common.Run(context.Background(), exp, lighthouse.NewSetup, store, common.RunOptions{}); err == nil {
		t.Fatalf("expected a start off the grid to fail")
	}
}

func TestRunPath(t *testing.T) {
	if got := common.RunPath("results", 1, 0); got != "results" {
		t.Fatalf("expected results got %s", got)
	}
	if got := common.RunPath("results", 3, 2); got != filepath.Join("results", "2") {
		t.Fatalf("expected results/2 got %s", got)
	}
}
