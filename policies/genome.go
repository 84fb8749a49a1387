package policies

import (
	"github.com/zeu5/grid-agents/core"
	erand "golang.org/x/exp/rand"
)

// Genome maps every state of a StateSpace to an action.
type Genome map[core.StateKey]core.Action

func (g Genome) Clone() Genome {
	out := make(Genome, len(g))
	for k, v := range g {
		out[k] = v
	}
	return out
}

func RandomGenome(keys []core.StateKey, actions []core.Action, r *erand.Rand) Genome {
	g := make(Genome, len(keys))
	for _, k := range keys {
		g[k] = actions[r.Intn(len(actions))]
	}
	return g
}

// HeuristicGenome seeds every state with the unconstrained heuristic.
func HeuristicGenome(space core.StateSpace) Genome {
	keys := space.Keys()
	g := make(Genome, len(keys))
	for _, k := range keys {
		g[k] = space.HeuristicUnconstrained(k)
	}
	return g
}

// Crossover swaps the tails of a and b after cut, over the order of keys.
func Crossover(a, b Genome, keys []core.StateKey, cut int) (Genome, Genome) {
	c1 := make(Genome, len(keys))
	c2 := make(Genome, len(keys))
	for i, k := range keys {
		if i < cut {
			c1[k], c2[k] = a[k], b[k]
		} else {
			c1[k], c2[k] = b[k], a[k]
		}
	}
	return c1, c2
}

// Mutate replaces each gene with a random action with probability rate.
func Mutate(g Genome, keys []core.StateKey, actions []core.Action, rate float64, r *erand.Rand) {
	if rate <= 0 {
		return
	}
	for _, k := range keys {
		if r.Float64() < rate {
			g[k] = actions[r.Intn(len(actions))]
		}
	}
}

type Population struct {
	Genomes []Genome
	Fitness []float64
}

func (p *Population) Len() int {
	return len(p.Genomes)
}

// Best returns the index of the fittest individual, the first one on ties.
func (p *Population) Best() int {
	best := 0
	for i, f := range p.Fitness {
		if f > p.Fitness[best] {
			best = i
		}
	}
	return best
}
