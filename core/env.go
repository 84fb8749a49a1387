package core

import (
	"context"
	"io"
)

// Environment is the world the agents act in. The engine calls it from a
// single goroutine.
type Environment interface {
	// Agents lists the registered agents in their acting order.
	Agents() []AgentID
	Observe(AgentID) (Observation, error)
	Act(AgentID, Action) (Outcome, error)
	// Update advances the world after every agent acted in a step.
	Update()
	Reset() error
}

// Terminator is implemented by environments with a global terminal condition.
type Terminator interface {
	Terminated() bool
}

// Terminated returns false for environments that do not implement Terminator.
func Terminated(env Environment) bool {
	if t, ok := env.(Terminator); ok {
		return t.Terminated()
	}
	return false
}

// Renderer is implemented by environments that can draw themselves.
type Renderer interface {
	Render(io.Writer)
}

// EpisodeContext summarizes an episode for the policies once it is over.
type EpisodeContext struct {
	Context context.Context
	Run     string
	Episode int
	Steps   int
	Success bool
	Reward  float64
}

type StepContext struct {
	Step  int
	Agent AgentID
	*EpisodeContext
}
