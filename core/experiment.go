package core

import (
	"context"
	"fmt"
	"time"
)

type RunConfig struct {
	Episodes int
	MaxSteps int
	// Discount weighs the reward of step t by Discount^(t-1).
	Discount    float64
	JoinTimeout time.Duration
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Episodes:    100,
		MaxSteps:    200,
		Discount:    0.99,
		JoinTimeout: 2 * time.Second,
	}
}

func (c RunConfig) Validate() error {
	if c.Episodes < 1 {
		return fmt.Errorf("%w: episodes must be positive, got %d", ErrInvalidConfig, c.Episodes)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("%w: max steps must be positive, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("%w: discount must be in [0,1], got %v", ErrInvalidConfig, c.Discount)
	}
	if c.JoinTimeout <= 0 {
		return fmt.Errorf("%w: join timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Recorder receives the results of a finished (or aborted) run.
type Recorder interface {
	Record(context.Context, *RunResult) error
}

type RunResult struct {
	RunID    string
	Episodes []EpisodeRecord
	Trace    *Trace
	Aborted  bool
	Err      error
}

func (r *RunResult) Steps() []StepRecord {
	if r.Trace == nil {
		return nil
	}
	return r.Trace.Records()
}

func (r *RunResult) Rewards() []float64 {
	out := make([]float64, len(r.Episodes))
	for i, e := range r.Episodes {
		out[i] = e.TotalReward
	}
	return out
}

func (r *RunResult) SuccessRate() float64 {
	if len(r.Episodes) == 0 {
		return 0
	}
	successes := 0
	for _, e := range r.Episodes {
		if e.Success {
			successes++
		}
	}
	return float64(successes) / float64(len(r.Episodes))
}
