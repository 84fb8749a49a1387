package core

import "context"

// Policy decides actions for one agent and learns from the feedback. A
// policy is only ever touched by the goroutine of its executor.
type Policy interface {
	PickAction(*StepContext, Observation) Action
	UpdateStep(*StepContext, Feedback)
	// UpdateEpisode runs once per episode. It resets per-episode counters and
	// must never discard learned state.
	UpdateEpisode(*EpisodeContext)
}

// PolicyStore is where policies persist what they learned.
type PolicyStore interface {
	LoadQTable(ctx context.Context, name string) (map[string]float64, error)
	SaveQTable(ctx context.Context, name string, table map[string]float64) error
	LoadGenome(ctx context.Context, name string) (map[string]string, error)
	SaveGenome(ctx context.Context, name string, genome map[string]string) error
}

// Persister is implemented by policies with state worth saving.
type Persister interface {
	Save(context.Context, PolicyStore) error
}

// StateSpace discretizes observations for one environment.
type StateSpace interface {
	Key(Observation) StateKey
	// Keys enumerates the finite state space in canonical order.
	Keys() []StateKey
	KeyLen() int
	// Actions is the environment's vocabulary in canonical order.
	Actions() []Action
	// Distance to the nearest current target, used for fitness shaping.
	Distance(Observation) float64
	Heuristic(key StateKey, valid []Action) Action
	HeuristicUnconstrained(StateKey) Action
}

type AgentSpec struct {
	ID     AgentID
	Name   string
	Policy Policy
}
