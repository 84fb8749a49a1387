package policies

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/zeu5/grid-agents/core"
	erand "golang.org/x/exp/rand"
)

type GAConfig struct {
	PopulationSize        int
	Elitism               int
	MutationRate          float64
	CrossoverProb         float64
	EpisodesPerIndividual int
	TournamentSize        int
	// StallMax consecutive steps without moving trigger the heuristic.
	StallMax       int
	HeuristicSeeds int

	SuccessBonus    float64
	StepPenalty     float64
	DistancePenalty float64
	ApproachBonus   float64
	RetreatPenalty  float64

	Mode core.Mode
	Seed uint64
	// Name keys the best genome in the policy store.
	Name string
}

func DefaultGAConfig() GAConfig {
	return GAConfig{
		PopulationSize:        20,
		Elitism:               4,
		MutationRate:          0.1,
		CrossoverProb:         0.8,
		EpisodesPerIndividual: 1,
		TournamentSize:        3,
		StallMax:              2,
		HeuristicSeeds:        1,
		SuccessBonus:          10,
		Mode:                  core.ModeLearning,
	}
}

func (c GAConfig) Validate() error {
	switch {
	case c.PopulationSize < 2:
		return fmt.Errorf("%w: population size must be at least 2, got %d", core.ErrInvalidConfig, c.PopulationSize)
	case c.Elitism < 1 || c.Elitism > c.PopulationSize:
		return fmt.Errorf("%w: elitism must be in [1,%d], got %d", core.ErrInvalidConfig, c.PopulationSize, c.Elitism)
	case c.TournamentSize < 2:
		return fmt.Errorf("%w: tournament size must be at least 2, got %d", core.ErrInvalidConfig, c.TournamentSize)
	case c.MutationRate < 0 || c.MutationRate > 1:
		return fmt.Errorf("%w: mutation rate must be in [0,1], got %v", core.ErrInvalidConfig, c.MutationRate)
	case c.CrossoverProb < 0 || c.CrossoverProb > 1:
		return fmt.Errorf("%w: crossover probability must be in [0,1], got %v", core.ErrInvalidConfig, c.CrossoverProb)
	case c.EpisodesPerIndividual < 1:
		return fmt.Errorf("%w: episodes per individual must be at least 1", core.ErrInvalidConfig)
	case c.StallMax < 1:
		return fmt.Errorf("%w: stall max must be at least 1", core.ErrInvalidConfig)
	case c.HeuristicSeeds < 0:
		return fmt.Errorf("%w: heuristic seeds must be non-negative", core.ErrInvalidConfig)
	case c.SuccessBonus < 0 || c.StepPenalty < 0 || c.DistancePenalty < 0 || c.ApproachBonus < 0 || c.RetreatPenalty < 0:
		return fmt.Errorf("%w: fitness shaping weights must be non-negative", core.ErrInvalidConfig)
	}
	return nil
}

// GeneticPolicy evolves a population of genomes, evaluating one individual
// (for EpisodesPerIndividual episodes) at a time.
type GeneticPolicy struct {
	config  GAConfig
	space   core.StateSpace
	keys    []core.StateKey
	actions []core.Action

	population *Population
	current    int
	generation int

	best        Genome
	bestFitness float64

	// per individual
	accumulated float64
	evaluations int

	// per episode
	reward       float64
	success      bool
	steps        int
	lastDistance float64
	hasDistance  bool
	stall        int
	decidedAt    core.Observation
	hasDecided   bool

	selector *TournamentSelector
	rand     *erand.Rand
}

var _ core.Policy = &GeneticPolicy{}
var _ core.Persister = &GeneticPolicy{}

func NewGeneticPolicy(space core.StateSpace, config GAConfig) (*GeneticPolicy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	keys := space.Keys()
	actions := space.Actions()
	if len(keys) == 0 || len(actions) == 0 {
		return nil, fmt.Errorf("%w: empty state space", core.ErrInvalidConfig)
	}
	src := newSource(config.Seed)
	r := erand.New(src)

	pop := &Population{
		Genomes: make([]Genome, config.PopulationSize),
		Fitness: make([]float64, config.PopulationSize),
	}
	for i := range pop.Genomes {
		if i < config.HeuristicSeeds {
			pop.Genomes[i] = HeuristicGenome(space)
		} else {
			pop.Genomes[i] = RandomGenome(keys, actions, r)
		}
	}

	return &GeneticPolicy{
		config:      config,
		space:       space,
		keys:        keys,
		actions:     actions,
		population:  pop,
		bestFitness: math.Inf(-1),
		selector:    NewTournamentSelector(config.TournamentSize, src),
		rand:        r,
	}, nil
}

func (g *GeneticPolicy) Generation() int {
	return g.generation
}

// BestFitness never decreases. It is -Inf until an individual was evaluated.
func (g *GeneticPolicy) BestFitness() float64 {
	return g.bestFitness
}

func (g *GeneticPolicy) Best() Genome {
	return g.best
}

func (g *GeneticPolicy) Population() *Population {
	return g.population
}

func (g *GeneticPolicy) Current() int {
	return g.current
}

// Genome is the genome acting right now.
func (g *GeneticPolicy) Genome() Genome {
	if g.config.Mode != core.ModeLearning {
		if g.best == nil {
			g.best = HeuristicGenome(g.space)
		}
		return g.best
	}
	return g.population.Genomes[g.current]
}

// Decide looks the state up in the acting genome. The stall breaker and the
// heuristic fallback take over as described on GAConfig.
func (g *GeneticPolicy) Decide(state core.StateKey, valid []core.Action) core.Action {
	action, ok := g.Genome()[state]
	if ok && action.IsMovement() && !core.ContainsAction(valid, action) {
		ok = false
	}
	if g.stall >= g.config.StallMax {
		g.stall = 0
		return g.space.Heuristic(state, valid)
	}
	if !ok {
		return g.space.Heuristic(state, valid)
	}
	return action
}

func (g *GeneticPolicy) PickAction(_ *core.StepContext, obs core.Observation) core.Action {
	action := g.Decide(g.space.Key(obs), obs.ValidActions)
	g.decidedAt = obs
	g.hasDecided = true
	return action
}

// UpdateStep accumulates fitness for the acting individual.
func (g *GeneticPolicy) UpdateStep(_ *core.StepContext, fb core.Feedback) {
	if fb.Aborted {
		g.hasDecided = false
		return
	}
	g.steps++
	g.reward += fb.Reward
	if fb.Terminal {
		g.success = true
	}

	distance := g.space.Distance(fb.Next)
	if g.hasDecided {
		prev := g.space.Distance(g.decidedAt)
		if distance < prev {
			g.reward += g.config.ApproachBonus * (prev - distance)
		} else if distance > prev {
			g.reward -= g.config.RetreatPenalty * (distance - prev)
		}
		if fb.Next.Position == g.decidedAt.Position {
			g.stall++
		} else {
			g.stall = 0
		}
	}
	g.lastDistance = distance
	g.hasDistance = true
	g.hasDecided = false
}

// EpisodeFitness is the fitness the current episode contributes.
func (g *GeneticPolicy) EpisodeFitness() float64 {
	fitness := g.reward
	if g.success {
		fitness += g.config.SuccessBonus
	}
	fitness -= g.config.StepPenalty * float64(g.steps)
	if !g.success && g.hasDistance {
		fitness -= g.config.DistancePenalty * g.lastDistance
	}
	return fitness
}

func (g *GeneticPolicy) UpdateEpisode(_ *core.EpisodeContext) {
	defer g.resetEpisode()
	if g.config.Mode != core.ModeLearning {
		return
	}

	g.accumulated += g.EpisodeFitness()
	g.evaluations++
	if g.evaluations < g.config.EpisodesPerIndividual {
		return
	}

	fitness := g.accumulated / float64(g.evaluations)
	g.accumulated = 0
	g.evaluations = 0
	g.population.Fitness[g.current] = fitness
	if fitness > g.bestFitness {
		g.bestFitness = fitness
		g.best = g.population.Genomes[g.current].Clone()
	}

	g.current++
	if g.current >= g.population.Len() {
		g.evolve()
		g.current = 0
		g.generation++
	}
}

func (g *GeneticPolicy) resetEpisode() {
	g.reward = 0
	g.success = false
	g.steps = 0
	g.lastDistance = 0
	g.hasDistance = false
	g.stall = 0
	g.hasDecided = false
}

func (g *GeneticPolicy) evolve() {
	pop := g.population
	order := make([]int, pop.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pop.Fitness[order[i]] > pop.Fitness[order[j]]
	})
	sorted := &Population{
		Genomes: make([]Genome, len(order)),
		Fitness: make([]float64, len(order)),
	}
	for i, idx := range order {
		sorted.Genomes[i] = pop.Genomes[idx]
		sorted.Fitness[i] = pop.Fitness[idx]
	}

	size := g.config.PopulationSize
	next := make([]Genome, 0, size)
	for i := 0; i < g.config.Elitism && i < size; i++ {
		next = append(next, sorted.Genomes[i].Clone())
	}
	for len(next) < size {
		p1 := sorted.Genomes[g.selector.Select(sorted.Fitness)]
		p2 := sorted.Genomes[g.selector.Select(sorted.Fitness)]

		var c1, c2 Genome
		if len(g.keys) > 1 && g.rand.Float64() < g.config.CrossoverProb {
			cut := 1 + g.rand.Intn(len(g.keys)-1)
			c1, c2 = Crossover(p1, p2, g.keys, cut)
		} else {
			c1, c2 = p1.Clone(), p2.Clone()
		}
		Mutate(c1, g.keys, g.actions, g.config.MutationRate, g.rand)
		next = append(next, c1)
		if len(next) < size {
			Mutate(c2, g.keys, g.actions, g.config.MutationRate, g.rand)
			next = append(next, c2)
		}
	}

	g.population = &Population{
		Genomes: next,
		Fitness: make([]float64, size),
	}
}

// Save stores the best genome found so far.
func (g *GeneticPolicy) Save(ctx context.Context, store core.PolicyStore) error {
	if g.best == nil {
		return nil
	}
	return store.SaveGenome(ctx, g.config.Name, EncodeGenome(g.best))
}

// Load installs a stored genome as the best known one and, when learning,
// as the first individual. States missing from the stored genome get the
// unconstrained heuristic.
func (g *GeneticPolicy) Load(ctx context.Context, store core.PolicyStore) (int, error) {
	entries, err := store.LoadGenome(ctx, g.config.Name)
	if err != nil {
		return 0, fmt.Errorf("load genome %s: %w", g.config.Name, err)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	genome, skipped := DecodeGenome(entries, g.space.KeyLen(), g.actions)
	for _, k := range g.keys {
		if _, ok := genome[k]; !ok {
			genome[k] = g.space.HeuristicUnconstrained(k)
		}
	}
	g.best = genome
	if g.config.Mode == core.ModeLearning {
		g.population.Genomes[0] = genome.Clone()
	}
	return skipped, nil
}
