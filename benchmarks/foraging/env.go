package foraging

import (
	"fmt"

	"github.com/zeu5/grid-agents/core"
)

const (
	FieldResources = "resources"
	FieldNests     = "nests"
	FieldCarrying  = "carrying"
)

type Resource struct {
	Position core.Position
	Value    float64
}

type EnvConfig struct {
	Width     int
	Height    int
	Resources []Resource
	Nests     []core.Position
	Obstacles []core.Position

	StepCost    float64
	BumpPenalty float64
	PickupBonus float64
}

func DefaultEnvConfig() EnvConfig {
	return EnvConfig{
		Width:       7,
		Height:      7,
		StepCost:    0.1,
		BumpPenalty: 0.2,
		PickupBonus: 0.5,
	}
}

func (c EnvConfig) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", core.ErrInvalidConfig, c.Width, c.Height)
	}
	for _, r := range c.Resources {
		if !c.inBounds(r.Position) {
			return fmt.Errorf("%w: resource %s outside the grid", core.ErrInvalidConfig, r.Position)
		}
	}
	for _, n := range c.Nests {
		if !c.inBounds(n) {
			return fmt.Errorf("%w: nest %s outside the grid", core.ErrInvalidConfig, n)
		}
	}
	if len(c.Resources) > 0 && len(c.Nests) == 0 {
		return fmt.Errorf("%w: resources without a nest can never be delivered", core.ErrInvalidConfig)
	}
	return nil
}

func (c EnvConfig) inBounds(p core.Position) bool {
	return p.X >= 0 && p.X < c.Width && p.Y >= 0 && p.Y < c.Height
}

// Environment is a grid with resources to carry back to nests. Obstacles and
// the border block movement. The episode ends once every resource has been
// delivered.
type Environment struct {
	config    EnvConfig
	obstacles map[core.Position]bool
	nests     map[core.Position]bool

	resources map[core.Position]float64
	order     []core.AgentID
	names     map[core.AgentID]string
	starts    map[core.AgentID]core.Position
	positions map[core.AgentID]core.Position
	// value of the carried resource, 0 when empty handed
	carrying   map[core.AgentID]float64
	terminated bool
	delivered  float64
}

var _ core.Environment = &Environment{}
var _ core.Terminator = &Environment{}
var _ core.Renderer = &Environment{}

func NewEnvironment(config EnvConfig) (*Environment, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Environment{
		config:    config,
		obstacles: make(map[core.Position]bool),
		nests:     make(map[core.Position]bool),
		order:     make([]core.AgentID, 0),
		names:     make(map[core.AgentID]string),
		starts:    make(map[core.AgentID]core.Position),
		positions: make(map[core.AgentID]core.Position),
		carrying:  make(map[core.AgentID]float64),
	}
	for _, o := range config.Obstacles {
		e.obstacles[o] = true
	}
	for _, n := range config.Nests {
		e.nests[n] = true
	}
	e.resetResources()
	return e, nil
}

func (e *Environment) resetResources() {
	e.resources = make(map[core.Position]float64, len(e.config.Resources))
	for _, r := range e.config.Resources {
		v := r.Value
		if v <= 0 {
			v = 1
		}
		e.resources[r.Position] = v
	}
}

func (e *Environment) AddAgent(id core.AgentID, name string, start core.Position) error {
	if _, ok := e.starts[id]; ok {
		return fmt.Errorf("%w: agent %d added twice", core.ErrInvalidConfig, id)
	}
	if !e.free(start) {
		return fmt.Errorf("%w: start %s of agent %s is not a free cell", core.ErrInvalidConfig, start, name)
	}
	e.order = append(e.order, id)
	e.names[id] = name
	e.starts[id] = start
	e.positions[id] = start
	e.carrying[id] = 0
	return nil
}

func (e *Environment) free(p core.Position) bool {
	return e.config.inBounds(p) && !e.obstacles[p]
}

func (e *Environment) Agents() []core.AgentID {
	return append([]core.AgentID(nil), e.order...)
}

func (e *Environment) Position(id core.AgentID) (core.Position, bool) {
	p, ok := e.positions[id]
	return p, ok
}

func (e *Environment) Carrying(id core.AgentID) float64 {
	return e.carrying[id]
}

// Delivered is the total value deposited in nests this episode.
func (e *Environment) Delivered() float64 {
	return e.delivered
}

func (e *Environment) Remaining() int {
	return len(e.resources)
}

func (e *Environment) validMoves(p core.Position) []core.Action {
	out := make([]core.Action, 0, 4)
	for _, a := range core.CanonicalActions {
		if a.IsMovement() && e.free(p.Add(a.Delta())) {
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
	resources := make([]core.Position, 0, len(e.resources))
	for _, r := range e.config.Resources {
		if _, ok := e.resources[r.Position]; ok {
			resources = append(resources, r.Position)
		}
	}
	return core.NewObservation(id, p, e.validMoves(p), map[string]interface{}{
		FieldResources: resources,
		FieldNests:     e.config.Nests,
		FieldCarrying:  e.carrying[id] > 0,
	}), nil
}

func (e *Environment) Act(id core.AgentID, action core.Action) (core.Outcome, error) {
	p, ok := e.positions[id]
	if !ok {
		return core.Outcome{}, fmt.Errorf("%w: %d", core.ErrUnknownAgent, id)
	}
	reward := -e.config.StepCost

	switch {
	case action.IsMovement():
		if next := p.Add(action.Delta()); e.free(next) {
			e.positions[id] = next
		} else {
			reward -= e.config.BumpPenalty
		}
	case action == core.ActionPick:
		if v, ok := e.resources[p]; ok && e.carrying[id] == 0 {
			delete(e.resources, p)
			e.carrying[id] = v
			reward += e.config.PickupBonus
		} else {
			reward -= e.config.BumpPenalty
		}
	case action == core.ActionDrop:
		if e.nests[p] && e.carrying[id] > 0 {
			reward += e.carrying[id]
			e.delivered += e.carrying[id]
			e.carrying[id] = 0
		} else {
			reward -= e.config.BumpPenalty
		}
	case action == core.ActionStay:
	default:
		return core.Outcome{}, fmt.Errorf("unsupported action %q", action)
	}

	if e.allCollected() {
		e.terminated = true
	}
	return core.Outcome{Reward: reward, Terminated: e.terminated}, nil
}

func (e *Environment) allCollected() bool {
	if len(e.resources) > 0 {
		return false
	}
	for _, v := range e.carrying {
		if v > 0 {
			return false
		}
	}
	return true
}

func (e *Environment) Update() {}

func (e *Environment) Reset() error {
	e.resetResources()
	for id, start := range e.starts {
		e.positions[id] = start
		e.carrying[id] = 0
	}
	e.terminated = false
	e.delivered = 0
	return nil
}

func (e *Environment) Terminated() bool {
	return e.terminated
}
