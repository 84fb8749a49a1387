package foraging

import (
	"github.com/zeu5/grid-agents/core"
	"github.com/zeu5/grid-agents/policies"
)

// Space discretizes an observation into
// (carrying, resourceHere, nestHere, dxSign, dySign) where the direction
// points at the nearest nest when carrying and the nearest resource otherwise.
type Space struct{}

var _ core.StateSpace = Space{}

func NewSpace() Space {
	return Space{}
}

func target(obs core.Observation) (core.Position, bool) {
	if obs.Bool(FieldCarrying) {
		return core.Nearest(obs.Position, obs.Positions(FieldNests))
	}
	return core.Nearest(obs.Position, obs.Positions(FieldResources))
}

func contains(ps []core.Position, p core.Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func (Space) Key(obs core.Observation) core.StateKey {
	carrying := obs.Bool(FieldCarrying)
	resourceHere := contains(obs.Positions(FieldResources), obs.Position)
	nestHere := contains(obs.Positions(FieldNests), obs.Position)
	dx, dy := 0, 0
	if t, ok := target(obs); ok {
		dx = core.Sign(t.X - obs.Position.X)
		dy = core.Sign(t.Y - obs.Position.Y)
	}
	return core.NewStateKey(core.Bool(carrying), core.Bool(resourceHere), core.Bool(nestHere), dx, dy)
}

func (Space) Keys() []core.StateKey {
	keys := make([]core.StateKey, 0, 72)
	for carrying := 0; carrying <= 1; carrying++ {
		for resource := 0; resource <= 1; resource++ {
			for nest := 0; nest <= 1; nest++ {
				for dx := -1; dx <= 1; dx++ {
					for dy := -1; dy <= 1; dy++ {
						keys = append(keys, core.NewStateKey(carrying, resource, nest, dx, dy))
					}
				}
			}
		}
	}
	return keys
}

func (Space) KeyLen() int {
	return 5
}

func (Space) Actions() []core.Action {
	return core.CanonicalActions
}

func (Space) Distance(obs core.Observation) float64 {
	t, ok := target(obs)
	if !ok {
		return 0
	}
	return float64(core.Manhattan(obs.Position, t))
}

// Heuristic drops at a nest when carrying, picks up a resource underfoot and
// otherwise heads for the target.
func (Space) Heuristic(key core.StateKey, valid []core.Action) core.Action {
	carrying, resourceHere, nestHere := key.Field(0) == 1, key.Field(1) == 1, key.Field(2) == 1
	switch {
	case carrying && nestHere:
		return core.ActionDrop
	case !carrying && resourceHere:
		return core.ActionPick
	}
	return policies.Toward(key.Field(3), key.Field(4), valid)
}

func (s Space) HeuristicUnconstrained(key core.StateKey) core.Action {
	return s.Heuristic(key, policies.AllMoves())
}
