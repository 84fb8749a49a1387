package policies

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/zeu5/grid-agents/core"
	erand "golang.org/x/exp/rand"
)

type QConfig struct {
	Alpha        float64
	Gamma        float64
	Epsilon      float64
	EpsilonMin   float64
	EpsilonDecay float64
	Mode         core.Mode
	Seed         uint64
	// Name keys the table in the policy store.
	Name string
}

func DefaultQConfig() QConfig {
	return QConfig{
		Alpha:        0.5,
		Gamma:        0.9,
		Epsilon:      0.2,
		EpsilonMin:   0.05,
		EpsilonDecay: 0.99,
		Mode:         core.ModeLearning,
	}
}

func (c QConfig) Validate() error {
	check := func(name string, v float64) error {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", core.ErrInvalidConfig, name, v)
		}
		return nil
	}
	for _, p := range []struct {
		name string
		v    float64
	}{{"alpha", c.Alpha}, {"gamma", c.Gamma}, {"epsilon", c.Epsilon}, {"epsilon_min", c.EpsilonMin}} {
		if err := check(p.name, p.v); err != nil {
			return err
		}
	}
	if c.EpsilonMin > c.Epsilon {
		return fmt.Errorf("%w: epsilon_min %v exceeds epsilon %v", core.ErrInvalidConfig, c.EpsilonMin, c.Epsilon)
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("%w: epsilon_decay must be in (0,1], got %v", core.ErrInvalidConfig, c.EpsilonDecay)
	}
	return nil
}

// QLearningPolicy is tabular Q-learning with epsilon-greedy exploration.
type QLearningPolicy struct {
	QTable *QTable

	config  QConfig
	space   core.StateSpace
	epsilon float64
	rand    *erand.Rand

	prevState  core.StateKey
	prevAction core.Action
	hasPrev    bool
}

var _ core.Policy = &QLearningPolicy{}
var _ core.Persister = &QLearningPolicy{}

func NewQLearningPolicy(space core.StateSpace, config QConfig) (*QLearningPolicy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Mode != core.ModeLearning {
		config.Alpha = 0
		config.Epsilon = 0
		config.EpsilonMin = 0
		config.EpsilonDecay = 1
	}
	return &QLearningPolicy{
		QTable:  NewQTable(),
		config:  config,
		space:   space,
		epsilon: config.Epsilon,
		rand:    erand.New(newSource(config.Seed)),
	}, nil
}

func (q *QLearningPolicy) Epsilon() float64 {
	return q.epsilon
}

func (q *QLearningPolicy) Config() QConfig {
	return q.config
}

// Choose is the epsilon-greedy decision for state.
func (q *QLearningPolicy) Choose(state core.StateKey, valid []core.Action) core.Action {
	candidates := canonical(q.space.Actions(), valid)
	if len(candidates) == 0 {
		return core.ActionStay
	}
	if q.epsilon > 0 && q.rand.Float64() < q.epsilon {
		return candidates[q.rand.Intn(len(candidates))]
	}
	if a, _, ok := q.QTable.MaxAmong(state, candidates); ok {
		return a
	}
	if len(valid) > 0 {
		return valid[0]
	}
	return core.ActionStay
}

// Update applies one Bellman backup and decays epsilon. A backup that would
// store a non-finite value is dropped and reported.
func (q *QLearningPolicy) Update(prev core.StateKey, action core.Action, reward float64, next core.StateKey, terminal bool) error {
	if q.config.Mode != core.ModeLearning {
		return nil
	}
	maxNext := 0.0
	if !terminal {
		maxNext = q.QTable.Max(next, q.space.Actions())
	}
	old := q.QTable.Get(prev, action)
	updated := old + q.config.Alpha*(reward+q.config.Gamma*maxNext-old)
	err := q.QTable.Set(prev, action, updated)

	q.epsilon = math.Max(q.config.EpsilonMin, q.epsilon*q.config.EpsilonDecay)
	return err
}

func (q *QLearningPolicy) PickAction(_ *core.StepContext, obs core.Observation) core.Action {
	state := q.space.Key(obs)
	action := q.Choose(state, obs.ValidActions)
	q.prevState = state
	q.prevAction = action
	q.hasPrev = true
	return action
}

func (q *QLearningPolicy) UpdateStep(_ *core.StepContext, fb core.Feedback) {
	if !q.hasPrev {
		return
	}
	q.hasPrev = false
	if fb.Aborted {
		return
	}
	if err := q.Update(q.prevState, q.prevAction, fb.Reward, q.space.Key(fb.Next), fb.Terminal); err != nil {
		log.Printf("agent %s: %v", q.config.Name, err)
	}
}

func (q *QLearningPolicy) UpdateEpisode(_ *core.EpisodeContext) {
	q.hasPrev = false
}

func (q *QLearningPolicy) Save(ctx context.Context, store core.PolicyStore) error {
	return store.SaveQTable(ctx, q.config.Name, EncodeQTable(q.QTable))
}

// Load replaces the table with the stored one and returns the number of
// malformed entries it skipped.
func (q *QLearningPolicy) Load(ctx context.Context, store core.PolicyStore) (int, error) {
	entries, err := store.LoadQTable(ctx, q.config.Name)
	if err != nil {
		return 0, fmt.Errorf("load q table %s: %w", q.config.Name, err)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	table, skipped := DecodeQTable(entries, q.space.KeyLen())
	q.QTable = table
	return skipped, nil
}
