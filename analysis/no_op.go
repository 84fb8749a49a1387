package analysis

import (
	"context"

	"github.com/zeu5/grid-agents/core"
)

type NoOpRecorder struct {
}

var _ core.Recorder = &NoOpRecorder{}

func NewNoOpRecorder() *NoOpRecorder {
	return &NoOpRecorder{}
}

func (n *NoOpRecorder) Record(_ context.Context, _ *core.RunResult) error {
	return nil
}
