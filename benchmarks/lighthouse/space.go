package lighthouse

import (
	"github.com/zeu5/grid-agents/core"
	"github.com/zeu5/grid-agents/policies"
)

const FieldLighthouseDir = "lighthouse_dir"

// Space discretizes an observation into (sx, sy, frontFree): the signs of the
// direction to the lighthouse and whether the move along the dominant axis
// is legal.
type Space struct{}

var _ core.StateSpace = Space{}

func NewSpace() Space {
	return Space{}
}

func front(dx, dy int) core.Action {
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return core.ActionEast
		}
		return core.ActionWest
	}
	if dy > 0 {
		return core.ActionSouth
	}
	return core.ActionNorth
}

func (Space) Key(obs core.Observation) core.StateKey {
	dir, _ := obs.Vector(FieldLighthouseDir)
	frontFree := obs.CanMove(front(dir.X, dir.Y))
	return core.NewStateKey(core.Sign(dir.X), core.Sign(dir.Y), core.Bool(frontFree))
}

func (Space) Keys() []core.StateKey {
	keys := make([]core.StateKey, 0, 18)
	for sx := -1; sx <= 1; sx++ {
		for sy := -1; sy <= 1; sy++ {
			for f := 0; f <= 1; f++ {
				keys = append(keys, core.NewStateKey(sx, sy, f))
			}
		}
	}
	return keys
}

func (Space) KeyLen() int {
	return 3
}

func (Space) Actions() []core.Action {
	return []core.Action{core.ActionNorth, core.ActionSouth, core.ActionEast, core.ActionWest, core.ActionStay}
}

func (Space) Distance(obs core.Observation) float64 {
	dir, _ := obs.Vector(FieldLighthouseDir)
	return float64(abs(dir.X) + abs(dir.Y))
}

func (Space) Heuristic(key core.StateKey, valid []core.Action) core.Action {
	return policies.Toward(key.Field(0), key.Field(1), valid)
}

// HeuristicUnconstrained assumes every move is legal except a blocked front.
func (s Space) HeuristicUnconstrained(key core.StateKey) core.Action {
	sx, sy := key.Field(0), key.Field(1)
	blocked := core.Action("")
	if key.Field(2) == 0 {
		blocked = front(sx, sy)
	}
	valid := make([]core.Action, 0, 4)
	for _, a := range s.Actions() {
		if a.IsMovement() && a != blocked {
			valid = append(valid, a)
		}
	}
	return policies.Toward(sx, sy, valid)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
