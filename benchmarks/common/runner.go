package common

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/zeu5/grid-agents/analysis"
	"github.com/zeu5/grid-agents/config"
	"github.com/zeu5/grid-agents/core"
	"github.com/zeu5/grid-agents/policies"
	"github.com/zeu5/grid-agents/storage"
)

// Setup is a freshly built environment ready to receive agents.
type Setup struct {
	Env      core.Environment
	Space    core.StateSpace
	AddAgent func(id core.AgentID, name string, start core.Position) error
}

// SetupFunc builds an environment from an experiment.
type SetupFunc func(*config.Experiment) (Setup, error)

// RunOptions configure a single run of an experiment.
type RunOptions struct {
	// SavePath receives metrics, charts and traces. Empty means no files.
	SavePath string
	// PolicySuffix is appended to every policy name in the store.
	PolicySuffix string
	Progress     io.Writer
	Summary      io.Writer
	Render       io.Writer
	Debug        bool
}

// Run builds the agents of exp into a new environment and runs the engine.
func Run(ctx context.Context, exp *config.Experiment, setupFn SetupFunc, store storage.Store, opts RunOptions) (*core.RunResult, error) {
	setup, err := setupFn(exp)
	if err != nil {
		return nil, err
	}

	agents := make([]*core.AgentSpec, 0, len(exp.Agents))
	for i, a := range exp.Agents {
		id := core.AgentID(i + 1)
		if err := setup.AddAgent(id, a.Name, a.Start); err != nil {
			return nil, err
		}
		spec, err := a.PolicySpec()
		if err != nil {
			return nil, err
		}
		spec.Name += opts.PolicySuffix
		policy, err := policies.New(ctx, spec, setup.Space, store)
		if err != nil {
			return nil, err
		}
		agents = append(agents, &core.AgentSpec{ID: id, Name: a.Name, Policy: policy})
	}

	engineOpts := []core.Option{
		core.WithName(exp.Name),
		core.WithStore(store),
		core.WithRecorder(analysis.NewStoreRecorder(store, exp.Name)),
	}
	if opts.SavePath == "" {
		// nothing written to disk
		engineOpts = append(engineOpts, core.WithRecorder(analysis.NewNoOpRecorder()))
	} else {
		engineOpts = append(engineOpts,
			core.WithRecorder(analysis.NewJSONRecorder(opts.SavePath, exp.Name)),
			core.WithRecorder(analysis.NewChartRecorder(opts.SavePath, exp.Name)),
			core.WithRecorder(analysis.NewErrorRecorder(opts.SavePath)),
		)
	}
	if opts.Debug && opts.SavePath != "" {
		threshold := exp.Run.Episodes - 10
		engineOpts = append(engineOpts, core.WithRecorder(analysis.NewTraceRecorder(opts.SavePath, threshold)))
	}
	if opts.Summary != nil {
		engineOpts = append(engineOpts, core.WithRecorder(analysis.NewSummaryRecorder(opts.Summary, exp.Name)))
	}
	if opts.Progress != nil {
		engineOpts = append(engineOpts, core.WithWriter(opts.Progress))
	}
	if opts.Render != nil {
		engineOpts = append(engineOpts, core.WithRender(opts.Render))
	}

	engine, err := core.NewEngine(setup.Env, agents, exp.Run.RunConfig(), engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("experiment %s: %w", exp.Name, err)
	}
	return engine.Run(ctx)
}

// RunPath is where run i of a multi-run experiment saves its output.
func RunPath(savePath string, runs, i int) string {
	if runs <= 1 {
		return savePath
	}
	return path.Join(savePath, fmt.Sprintf("%d", i))
}
