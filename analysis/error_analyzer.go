package analysis

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"

	"github.com/zeu5/grid-agents/core"
)

// ErrorRecorder writes the error of a failed run together with the steps of
// the episode it died in.
type ErrorRecorder struct {
	savePath string
}

var _ core.Recorder = &ErrorRecorder{}

func NewErrorRecorder(savePath string) *ErrorRecorder {
	return &ErrorRecorder{
		savePath: path.Join(savePath, "errors"),
	}
}

func (a *ErrorRecorder) Record(_ context.Context, result *core.RunResult) error {
	if result.Err == nil && !result.Aborted {
		return nil
	}
	if err := os.MkdirAll(a.savePath, 0755); err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if result.Err != nil {
		buf.WriteString(fmt.Sprintf("Error: %s\n", result.Err))
	} else {
		buf.WriteString("Aborted\n")
	}
	failed := len(result.Episodes) + 1
	buf.WriteString(fmt.Sprintf("Completed episodes: %d\n\n", len(result.Episodes)))
	buf.WriteString(stepsToString(result.Trace.Episode(failed)))

	file := path.Join(a.savePath, fmt.Sprintf("%s_error.txt", result.RunID))
	return os.WriteFile(file, buf.Bytes(), 0644)
}
