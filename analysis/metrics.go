package analysis

import (
	"context"
	"fmt"
	"path"

	"github.com/zeu5/grid-agents/core"
	"github.com/zeu5/grid-agents/util"
)

const (
	MetricsFile      = "metrics.json"
	StepMetricsFile  = "metrics_steps.json"
	ComparisonFile   = "comparison.json"
	RewardsChartFile = "rewards.html"
)

// Metrics is the content of metrics.json.
type Metrics struct {
	RunID       string               `json:"run_id"`
	Name        string               `json:"name"`
	Aborted     bool                 `json:"aborted"`
	SuccessRate float64              `json:"success_rate"`
	Episodes    []core.EpisodeRecord `json:"episodes"`
}

// JSONRecorder writes metrics.json and metrics_steps.json under savePath.
type JSONRecorder struct {
	savePath string
	name     string
}

var _ core.Recorder = &JSONRecorder{}

func NewJSONRecorder(savePath, name string) *JSONRecorder {
	return &JSONRecorder{
		savePath: savePath,
		name:     name,
	}
}

func (j *JSONRecorder) Record(_ context.Context, result *core.RunResult) error {
	metrics := Metrics{
		RunID:       result.RunID,
		Name:        j.name,
		Aborted:     result.Aborted,
		SuccessRate: result.SuccessRate(),
		Episodes:    result.Episodes,
	}
	if err := util.SaveJson(path.Join(j.savePath, MetricsFile), metrics); err != nil {
		return fmt.Errorf("write %s: %w", MetricsFile, err)
	}
	if err := util.SaveJson(path.Join(j.savePath, StepMetricsFile), result.Steps()); err != nil {
		return fmt.Errorf("write %s: %w", StepMetricsFile, err)
	}
	return nil
}

// LoadMetrics reads a metrics.json file.
func LoadMetrics(file string) (*Metrics, error) {
	metrics := &Metrics{}
	found, err := util.ReadJson(file, metrics)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("metrics file %s does not exist", file)
	}
	return metrics, nil
}
