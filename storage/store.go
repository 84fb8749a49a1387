package storage

import (
	"context"

	"github.com/zeu5/grid-agents/core"
)

// Store persists learned policies and run histories. Loading something that
// was never saved returns an empty value and no error.
type Store interface {
	core.PolicyStore
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, runID string) (RunRecord, bool, error)
	Close() error
}

// RunRecord is what a store keeps about one run.
type RunRecord struct {
	RunID    string               `json:"run_id"`
	Name     string               `json:"name"`
	Aborted  bool                 `json:"aborted"`
	Episodes []core.EpisodeRecord `json:"episodes"`
}

func NewRunRecord(name string, result *core.RunResult) RunRecord {
	episodes := make([]core.EpisodeRecord, len(result.Episodes))
	copy(episodes, result.Episodes)
	return RunRecord{
		RunID:    result.RunID,
		Name:     name,
		Aborted:  result.Aborted,
		Episodes: episodes,
	}
}

func copyQTable(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyGenome(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
