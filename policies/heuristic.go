package policies

import "github.com/zeu5/grid-agents/core"

// FixedPolicy follows the environment's hand-coded heuristic and never learns.
type FixedPolicy struct {
	space core.StateSpace
}

var _ core.Policy = &FixedPolicy{}

func NewFixedPolicy(space core.StateSpace) *FixedPolicy {
	return &FixedPolicy{space: space}
}

func (f *FixedPolicy) PickAction(_ *core.StepContext, obs core.Observation) core.Action {
	return f.space.Heuristic(f.space.Key(obs), obs.ValidActions)
}

func (f *FixedPolicy) UpdateStep(_ *core.StepContext, _ core.Feedback) {}

func (f *FixedPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

// AllMoves returns the four movement actions.
func AllMoves() []core.Action {
	return []core.Action{core.ActionNorth, core.ActionSouth, core.ActionEast, core.ActionWest}
}

// Toward moves along the dominant axis of (dx, dy) first, horizontal on ties,
// then along the other axis. When neither reduces the distance it falls back
// to any valid move, then STAY. An empty valid list always yields STAY.
func Toward(dx, dy int, valid []core.Action) core.Action {
	if dx == 0 && dy == 0 {
		return core.ActionStay
	}
	horizontal := core.ActionEast
	if dx < 0 {
		horizontal = core.ActionWest
	}
	vertical := core.ActionSouth
	if dy < 0 {
		vertical = core.ActionNorth
	}

	preferred := make([]core.Action, 0, 2)
	if abs(dx) >= abs(dy) {
		if dx != 0 {
			preferred = append(preferred, horizontal)
		}
		if dy != 0 {
			preferred = append(preferred, vertical)
		}
	} else {
		preferred = append(preferred, vertical)
		if dx != 0 {
			preferred = append(preferred, horizontal)
		}
	}
	for _, a := range preferred {
		if core.ContainsAction(valid, a) {
			return a
		}
	}
	for _, a := range core.CanonicalActions {
		if a.IsMovement() && core.ContainsAction(valid, a) {
			return a
		}
	}
	return core.ActionStay
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
