package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TerminalPrinter redraws one progress line per concurrent run in place. It
// flushes the uilive writer itself and never starts its refresh loop.
type TerminalPrinter struct {
	interval time.Duration
	live     *uilive.Writer

	mtx   sync.Mutex
	lines []*RunLine
	rows  []io.Writer

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewTerminalPrinter(interval time.Duration) *TerminalPrinter {
	return &TerminalPrinter{
		interval: interval,
		live:     uilive.New(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// NewOutput reserves the next row and returns the writer that feeds it.
func (t *TerminalPrinter) NewOutput() *RunLine {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	line := NewRunLine()
	t.lines = append(t.lines, line)
	t.rows = append(t.rows, t.live.Newline())
	return line
}

// Start redraws every interval until Stop is called or ctx is done.
func (t *TerminalPrinter) Start(ctx context.Context) {
	go func() {
		defer close(t.doneCh)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.redraw()
			case <-t.stopCh:
				t.redraw()
				return
			case <-ctx.Done():
				t.redraw()
				return
			}
		}
	}()
}

// Stop draws the final state of every row and waits for the redraw loop.
func (t *TerminalPrinter) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
	<-t.doneCh
}

func (t *TerminalPrinter) redraw() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	for i, line := range t.lines {
		fmt.Fprintln(t.rows[i], line.Get())
	}
	t.live.Flush()
}

// RunLine is an io.Writer that keeps only the last non-empty line written to
// it. The engine's progress output goes through one per run.
type RunLine struct {
	mtx  sync.Mutex
	last string
}

func NewRunLine() *RunLine {
	return &RunLine{}
}

func (r *RunLine) Write(b []byte) (int, error) {
	trimmed := bytes.TrimRight(b, "\n")
	if i := bytes.LastIndexByte(trimmed, '\n'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if len(trimmed) > 0 {
		r.mtx.Lock()
		r.last = string(trimmed)
		r.mtx.Unlock()
	}
	return len(b), nil
}

func (r *RunLine) Get() string {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.last
}
