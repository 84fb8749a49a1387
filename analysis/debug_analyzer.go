package analysis

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"

	"github.com/zeu5/grid-agents/core"
)

// TraceRecorder dumps the step trace of every episode from thresholdEpisode on.
type TraceRecorder struct {
	// savePath is the path to save the traces
	savePath string
	// will save the trace to the file only after the episode number exceeds this threshold
	thresholdEpisode int
}

var _ core.Recorder = &TraceRecorder{}

func NewTraceRecorder(savePath string, threshold int) *TraceRecorder {
	return &TraceRecorder{
		savePath:         path.Join(savePath, "traces"),
		thresholdEpisode: threshold,
	}
}

func (a *TraceRecorder) Record(_ context.Context, result *core.RunResult) error {
	if err := os.MkdirAll(a.savePath, 0755); err != nil {
		return err
	}
	for _, e := range result.Episodes {
		if e.Episode < a.thresholdEpisode {
			continue
		}
		buf := new(bytes.Buffer)
		fmt.Fprintf(buf, "Episode %d, Steps: %d, Reward: %.3f, Success: %v\n\n", e.Episode, e.Steps, e.TotalReward, e.Success)
		buf.WriteString(stepsToString(result.Trace.Episode(e.Episode)))

		fileName := fmt.Sprintf("%s_trace_%d.txt", result.RunID, e.Episode)
		if err := os.WriteFile(path.Join(a.savePath, fileName), buf.Bytes(), 0644); err != nil {
			return err
		}
	}
	return nil
}

func stepsToString(steps []core.StepRecord) string {
	buf := new(bytes.Buffer)
	for _, s := range steps {
		fmt.Fprintf(buf, "Step %d: %s does %s, now at %s, reward %.2f\n", s.Step, s.AgentName, s.Action, s.Position, s.Reward)
	}
	return buf.String()
}
