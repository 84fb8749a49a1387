package lighthouse

import (
	"fmt"

	"github.com/zeu5/grid-agents/core"
)

type EnvConfig struct {
	Width      int
	Height     int
	Lighthouse core.Position
	StepReward float64
	GoalReward float64
}

func DefaultEnvConfig() EnvConfig {
	return EnvConfig{
		Width:      5,
		Height:     5,
		Lighthouse: core.Position{X: 4, Y: 4},
		StepReward: -0.1,
		GoalReward: 10,
	}
}

func (c EnvConfig) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", core.ErrInvalidConfig, c.Width, c.Height)
	}
	if !c.inBounds(c.Lighthouse) {
		return fmt.Errorf("%w: lighthouse %s outside the grid", core.ErrInvalidConfig, c.Lighthouse)
	}
	return nil
}

func (c EnvConfig) inBounds(p core.Position) bool {
	return p.X >= 0 && p.X < c.Width && p.Y >= 0 && p.Y < c.Height
}

// Environment is a grid with a lighthouse every agent tries to reach. The
// episode ends as soon as one agent gets there.
type Environment struct {
	config     EnvConfig
	order      []core.AgentID
	names      map[core.AgentID]string
	starts     map[core.AgentID]core.Position
	positions  map[core.AgentID]core.Position
	terminated bool
}

var _ core.Environment = &Environment{}
var _ core.Terminator = &Environment{}
var _ core.Renderer = &Environment{}

func NewEnvironment(config EnvConfig) (*Environment, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Environment{
		config:    config,
		order:     make([]core.AgentID, 0),
		names:     make(map[core.AgentID]string),
		starts:    make(map[core.AgentID]core.Position),
		positions: make(map[core.AgentID]core.Position),
	}, nil
}

func (e *Environment) AddAgent(id core.AgentID, name string, start core.Position) error {
	if _, ok := e.starts[id]; ok {
		return fmt.Errorf("%w: agent %d added twice", core.ErrInvalidConfig, id)
	}
	if !e.config.inBounds(start) {
		return fmt.Errorf("%w: start %s of agent %s outside the grid", core.ErrInvalidConfig, start, name)
	}
	e.order = append(e.order, id)
	e.names[id] = name
	e.starts[id] = start
	e.positions[id] = start
	return nil
}

func (e *Environment) Agents() []core.AgentID {
	return append([]core.AgentID(nil), e.order...)
}

func (e *Environment) Position(id core.AgentID) (core.Position, bool) {
	p, ok := e.positions[id]
	return p, ok
}

func (e *Environment) validMoves(p core.Position) []core.Action {
	out := make([]core.Action, 0, 4)
	for _, a := range core.CanonicalActions {
		if !a.IsMovement() {
			continue
		}
		if e.config.inBounds(p.Add(a.Delta())) {
			out = append(out, a)
		}
	}
	return out
}

func (e *Environment) Observe(id core.AgentID) (core.Observation, error) {
	p, ok := e.positions[id]
	if !ok {
		return core.Observation{}, fmt.Errorf("%w: %d", core.ErrUnknownAgent, id)
	}
	dir := core.Position{X: e.config.Lighthouse.X - p.X, Y: e.config.Lighthouse.Y - p.Y}
	return core.NewObservation(id, p, e.validMoves(p), map[string]interface{}{
		FieldLighthouseDir: dir,
	}), nil
}

// Act moves the agent. Moves off the grid leave it in place.
func (e *Environment) Act(id core.AgentID, action core.Action) (core.Outcome, error) {
	p, ok := e.positions[id]
	if !ok {
		return core.Outcome{}, fmt.Errorf("%w: %d", core.ErrUnknownAgent, id)
	}
	if action.IsMovement() {
		if next := p.Add(action.Delta()); e.config.inBounds(next) {
			p = next
			e.positions[id] = p
		}
	}
	if p == e.config.Lighthouse {
		e.terminated = true
		return core.Outcome{Reward: e.config.GoalReward, Terminated: true}, nil
	}
	return core.Outcome{Reward: e.config.StepReward}, nil
}

func (e *Environment) Update() {}

func (e *Environment) Reset() error {
	for id, start := range e.starts {
		e.positions[id] = start
	}
	e.terminated = false
	return nil
}

func (e *Environment) Terminated() bool {
	return e.terminated
}
