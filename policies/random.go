package policies

import (
	"github.com/zeu5/grid-agents/core"
	erand "golang.org/x/exp/rand"
)

// RandomPolicy picks uniformly among the legal moves and the non-movement verbs.
type RandomPolicy struct {
	space core.StateSpace
	rand  *erand.Rand
}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy(space core.StateSpace, seed uint64) *RandomPolicy {
	return &RandomPolicy{
		space: space,
		rand:  erand.New(newSource(seed)),
	}
}

func (r *RandomPolicy) PickAction(_ *core.StepContext, obs core.Observation) core.Action {
	actions := canonical(r.space.Actions(), obs.ValidActions)
	if len(actions) == 0 {
		return core.ActionStay
	}
	return actions[r.rand.Intn(len(actions))]
}

func (r *RandomPolicy) UpdateStep(_ *core.StepContext, _ core.Feedback) {}

func (r *RandomPolicy) UpdateEpisode(_ *core.EpisodeContext) {}
