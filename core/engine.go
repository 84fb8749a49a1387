package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/google/uuid"
)

type Option func(*Engine)

func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorders = append(e.recorders, r)
	}
}

// WithStore enables persisting policies at the end of every episode.
func WithStore(s PolicyStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithWriter sets where the per-episode progress lines go.
func WithWriter(w io.Writer) Option {
	return func(e *Engine) {
		e.writer = w
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRender draws the environment after every step, when it is a Renderer.
func WithRender(w io.Writer) Option {
	return func(e *Engine) {
		e.render = w
	}
}

func WithName(name string) Option {
	return func(e *Engine) {
		e.name = name
	}
}

// Engine drives the episode loop. Agents act one after the other within a
// step, each through its own AgentExecutor.
type Engine struct {
	name      string
	env       Environment
	agents    []*AgentSpec
	cfg       RunConfig
	recorders []Recorder
	store     PolicyStore
	writer    io.Writer
	render    io.Writer
	logger    *log.Logger
}

func NewEngine(env Environment, agents []*AgentSpec, cfg RunConfig, opts ...Option) (*Engine, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: nil environment", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, fmt.Errorf("%w: no agents", ErrInvalidConfig)
	}

	registered := make(map[AgentID]bool)
	for _, id := range env.Agents() {
		registered[id] = true
	}
	seen := make(map[AgentID]bool)
	for _, a := range agents {
		if a == nil || a.Policy == nil {
			return nil, fmt.Errorf("%w: agent without policy", ErrInvalidConfig)
		}
		if !registered[a.ID] {
			return nil, fmt.Errorf("%w: agent %d (%s) is not registered in the environment", ErrUnknownAgent, a.ID, a.Name)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("%w: duplicate agent %d", ErrInvalidConfig, a.ID)
		}
		seen[a.ID] = true
	}

	e := &Engine{
		name:      "run",
		env:       env,
		agents:    agents,
		cfg:       cfg,
		recorders: make([]Recorder, 0),
		writer:    io.Discard,
		logger:    log.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Run executes the configured episodes. Cancelling ctx stops the run before
// the next episode starts; the partial result is still recorded.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:    uuid.New().String(),
		Episodes: make([]EpisodeRecord, 0, e.cfg.Episodes),
		Trace:    NewTrace(),
	}
	executors := make([]*AgentExecutor, len(e.agents))
	for i, a := range e.agents {
		executors[i] = NewAgentExecutor(a.ID, a.Name, a.Policy)
	}
	bg := context.WithoutCancel(ctx)

	var runErr error
EpisodeLoop:
	for episode := 1; episode <= e.cfg.Episodes; episode++ {
		select {
		case <-ctx.Done():
			result.Aborted = true
			runErr = ctx.Err()
			break EpisodeLoop
		default:
		}

		record, err := e.runEpisode(bg, result, executors, episode)
		if err != nil {
			result.Aborted = true
			runErr = fmt.Errorf("episode %d: %w", episode, err)
			break EpisodeLoop
		}
		result.Episodes = append(result.Episodes, record)
		fmt.Fprintf(
			e.writer,
			"Experiment: %s, Episode %d/%d, Steps: %d, Reward: %.3f, Discounted: %.3f, Success: %v\n",
			e.name, episode, e.cfg.Episodes, record.Steps, record.TotalReward, record.DiscountedReward, record.Success,
		)

		if e.store != nil {
			for _, x := range executors {
				if err := x.Persist(bg, e.store); err != nil {
					e.logger.Printf("persist policy of agent %s: %v", x.Name, err)
				}
			}
		}

		eCtx := &EpisodeContext{
			Context: bg,
			Run:     result.RunID,
			Episode: episode,
			Steps:   record.Steps,
			Success: record.Success,
			Reward:  record.TotalReward,
		}
		for _, x := range executors {
			if err := x.EndEpisode(eCtx); err != nil {
				result.Aborted = true
				runErr = fmt.Errorf("episode %d: agent %s: %w", episode, x.Name, err)
				break EpisodeLoop
			}
		}
	}

	if e.store != nil && !result.Aborted {
		for _, x := range executors {
			if err := x.Persist(bg, e.store); err != nil {
				e.logger.Printf("persist policy of agent %s: %v", x.Name, err)
			}
		}
	}

	result.Err = runErr
	for _, r := range e.recorders {
		if err := r.Record(bg, result); err != nil {
			e.logger.Printf("record run %s: %v", result.RunID, err)
			runErr = errors.Join(runErr, fmt.Errorf("record run: %w", err))
		}
	}

	for _, x := range executors {
		if err := x.Stop(e.cfg.JoinTimeout); err != nil {
			e.logger.Printf("stop agent %s: %v", x.Name, err)
			runErr = errors.Join(runErr, err)
		}
	}

	result.Err = runErr
	if runErr != nil {
		fmt.Fprintf(e.writer, "Experiment: %s, Error: %v\n", e.name, runErr)
	}
	return result, runErr
}

func (e *Engine) runEpisode(ctx context.Context, result *RunResult, executors []*AgentExecutor, episode int) (EpisodeRecord, error) {
	record := EpisodeRecord{Episode: episode}
	if err := e.env.Reset(); err != nil {
		return record, fmt.Errorf("reset environment: %w", err)
	}
	eCtx := &EpisodeContext{Context: ctx, Run: result.RunID, Episode: episode}

	done := false
	for step := 1; step <= e.cfg.MaxSteps && !done; step++ {
		record.Steps = step
		discount := math.Pow(e.cfg.Discount, float64(step-1))

		for _, x := range executors {
			sCtx := &StepContext{Step: step, Agent: x.ID, EpisodeContext: eCtx}
			obs, err := e.env.Observe(x.ID)
			if err != nil {
				return record, fmt.Errorf("observe agent %s: %w", x.Name, err)
			}
			action, err := x.Step(sCtx, obs)
			if err != nil {
				return record, fmt.Errorf("agent %s: %w", x.Name, err)
			}
			outcome, err := e.env.Act(x.ID, action)
			if err != nil {
				x.Feedback(Feedback{Next: obs, Aborted: true})
				return record, fmt.Errorf("agent %s act %s: %w", x.Name, action, err)
			}
			next, err := e.env.Observe(x.ID)
			if err != nil {
				x.Feedback(Feedback{Next: obs, Aborted: true})
				return record, fmt.Errorf("observe agent %s: %w", x.Name, err)
			}
			x.Feedback(Feedback{Reward: outcome.Reward, Next: next, Terminal: outcome.Terminated})

			result.Trace.AddStep(StepRecord{
				Episode:   episode,
				Step:      step,
				Agent:     x.ID,
				AgentName: x.Name,
				Action:    action,
				Reward:    outcome.Reward,
				Position:  next.Position,
			})
			record.TotalReward += outcome.Reward
			record.DiscountedReward += discount * outcome.Reward

			if outcome.Terminated {
				record.Success = true
				done = true
				break
			}
		}

		if !done {
			e.env.Update()
			if Terminated(e.env) {
				record.Success = true
				done = true
			}
		}
		if r, ok := e.env.(Renderer); ok && e.render != nil {
			r.Render(e.render)
		}
	}
	return record, nil
}
