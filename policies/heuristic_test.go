package policies

import (
	"context"
	"testing"

	"github.com/zeu5/grid-agents/core"
)

func TestToward(t *testing.T) {
	all := []core.Action{core.ActionNorth, core.ActionSouth, core.ActionEast, core.ActionWest}
	cases := []struct {
		name   string
		dx, dy int
		valid  []core.Action
		want   core.Action
	}{
		{"there", 0, 0, all, core.ActionStay},
		{"east", 3, 1, all, core.ActionEast},
		{"north", -1, -4, all, core.ActionNorth},
		{"tie goes horizontal", -2, 2, all, core.ActionWest},
		{"secondary axis", 3, 1, []core.Action{core.ActionSouth, core.ActionWest}, core.ActionSouth},
		{"any move", 3, 0, []core.Action{core.ActionWest, core.ActionNorth}, core.ActionNorth},
		{"boxed in", 1, 1, []core.Action{}, core.ActionStay},
		{"no valid list", 0, 2, nil, core.ActionStay},
		{"all moves", 0, 2, AllMoves(), core.ActionSouth},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Toward(c.dx, c.dy, c.valid); got != c.want {
				t.Fatalf("expected %s got %s", c.want, got)
			}
		})
	}
}

func TestFactory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	space := lineSpace{}

	p, err := New(ctx, Spec{Algorithm: AlgorithmQLearning, Name: "A1", Mode: core.ModeFixed, Q: DefaultQConfig()}, space, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := p.(*FixedPolicy); !ok {
		t.Fatalf("expected fixed mode to yield a FixedPolicy got %T", p)
	}

	store := newMapStore()
	store.tables["A1"] = map[string]float64{"-1|W": 2}
	p, err = New(ctx, Spec{Algorithm: AlgorithmQLearning, Name: "A1", Mode: core.ModeEvaluation, Q: DefaultQConfig()}, space, store)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	q, ok := p.(*QLearningPolicy)
	if !ok {
		t.Fatalf("expected a QLearningPolicy got %T", p)
	}
	if q.QTable.Get(core.NewStateKey(-1), core.ActionWest) != 2 {
		t.Fatalf("expected the stored table to be loaded")
	}

	if _, err := New(ctx, Spec{Algorithm: "sarsa", Name: "A1"}, space, nil); err == nil {
		t.Fatalf("expected an unknown algorithm to be rejected")
	}
}

func TestBoxedInAgentStays(t *testing.T) {
	boxed := at(3)

	if got := NewFixedPolicy(lineSpace{}).PickAction(nil, boxed); got != core.ActionStay {
		t.Fatalf("expected fixed policy to stay with no legal move, got %s", got)
	}

	g, err := NewGeneticPolicy(lineSpace{}, smallGAConfig())
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	g.Population().Genomes[0][core.NewStateKey(-1)] = core.ActionWest
	if got := g.PickAction(nil, boxed); got != core.ActionStay {
		t.Fatalf("expected genetic policy to stay with no legal move, got %s", got)
	}
}
