package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/zeu5/grid-agents/core"
	"github.com/zeu5/grid-agents/policies"
	"github.com/zeu5/grid-agents/storage"
	"github.com/zeu5/grid-agents/util"
)

const (
	EnvLighthouse = "lighthouse"
	EnvForaging   = "foraging"
)

type Resource struct {
	Position core.Position `json:"position"`
	Value    float64       `json:"value"`
}

type Environment struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	Lighthouse core.Position `json:"lighthouse"`
	StepReward float64       `json:"step_reward"`
	GoalReward float64       `json:"goal_reward"`

	Resources []Resource      `json:"resources,omitempty"`
	Nests     []core.Position `json:"nests,omitempty"`
	Obstacles []core.Position `json:"obstacles,omitempty"`
}

type Run struct {
	Episodes       int     `json:"episodes"`
	MaxSteps       int     `json:"max_steps"`
	DiscountFactor float64 `json:"discount_factor"`
	JoinTimeoutMs  int     `json:"join_timeout_ms"`
}

func (r Run) RunConfig() core.RunConfig {
	return core.RunConfig{
		Episodes:    r.Episodes,
		MaxSteps:    r.MaxSteps,
		Discount:    r.DiscountFactor,
		JoinTimeout: time.Duration(r.JoinTimeoutMs) * time.Millisecond,
	}
}

type QParams struct {
	Alpha        float64 `json:"alpha"`
	Gamma        float64 `json:"gamma"`
	Epsilon      float64 `json:"epsilon"`
	EpsilonMin   float64 `json:"epsilon_min"`
	EpsilonDecay float64 `json:"epsilon_decay"`
}

type GAParams struct {
	PopulationSize        int     `json:"population_size"`
	Elitism               int     `json:"elitism"`
	MutationRate          float64 `json:"mutation_rate"`
	CrossoverProb         float64 `json:"crossover_prob"`
	EpisodesPerIndividual int     `json:"episodes_per_individual"`
	TournamentSize        int     `json:"tournament_size"`
	StallMax              int     `json:"stall_max"`
	HeuristicSeeds        int     `json:"heuristic_seeds"`
	SuccessBonus          float64 `json:"success_bonus"`
	StepPenalty           float64 `json:"step_penalty"`
	DistancePenalty       float64 `json:"distance_penalty"`
	ApproachBonus         float64 `json:"approach_bonus"`
	RetreatPenalty        float64 `json:"retreat_penalty"`
}

type Agent struct {
	Name      string        `json:"name"`
	Algorithm string        `json:"algorithm"`
	Mode      string        `json:"mode"`
	Start     core.Position `json:"start"`
	Seed      uint64        `json:"seed"`
	// PolicyName keys the learned policy in the store, defaults to Name.
	PolicyName string   `json:"policy_name,omitempty"`
	Q          QParams  `json:"q"`
	GA         GAParams `json:"ga"`
}

func DefaultAgent() Agent {
	q := policies.DefaultQConfig()
	ga := policies.DefaultGAConfig()
	return Agent{
		Algorithm: policies.AlgorithmQLearning,
		Mode:      core.ModeLearning.String(),
		Q: QParams{
			Alpha:        q.Alpha,
			Gamma:        q.Gamma,
			Epsilon:      q.Epsilon,
			EpsilonMin:   q.EpsilonMin,
			EpsilonDecay: q.EpsilonDecay,
		},
		GA: GAParams{
			PopulationSize:        ga.PopulationSize,
			Elitism:               ga.Elitism,
			MutationRate:          ga.MutationRate,
			CrossoverProb:         ga.CrossoverProb,
			EpisodesPerIndividual: ga.EpisodesPerIndividual,
			TournamentSize:        ga.TournamentSize,
			StallMax:              ga.StallMax,
			HeuristicSeeds:        ga.HeuristicSeeds,
			SuccessBonus:          ga.SuccessBonus,
			StepPenalty:           ga.StepPenalty,
			DistancePenalty:       ga.DistancePenalty,
			ApproachBonus:         ga.ApproachBonus,
			RetreatPenalty:        ga.RetreatPenalty,
		},
	}
}

// UnmarshalJSON fills the fields missing from the document with defaults.
func (a *Agent) UnmarshalJSON(b []byte) error {
	type plain Agent
	d := plain(DefaultAgent())
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	*a = Agent(d)
	return nil
}

func (a Agent) PolicySpec() (policies.Spec, error) {
	mode, err := core.ParseMode(a.Mode)
	if err != nil {
		return policies.Spec{}, fmt.Errorf("agent %s: %w", a.Name, err)
	}
	name := a.PolicyName
	if name == "" {
		name = a.Name
	}
	return policies.Spec{
		Algorithm: policies.CanonicalAlgorithm(a.Algorithm),
		Name:      name,
		Mode:      mode,
		Seed:      a.Seed,
		Q: policies.QConfig{
			Alpha:        a.Q.Alpha,
			Gamma:        a.Q.Gamma,
			Epsilon:      a.Q.Epsilon,
			EpsilonMin:   a.Q.EpsilonMin,
			EpsilonDecay: a.Q.EpsilonDecay,
		},
		GA: policies.GAConfig{
			PopulationSize:        a.GA.PopulationSize,
			Elitism:               a.GA.Elitism,
			MutationRate:          a.GA.MutationRate,
			CrossoverProb:         a.GA.CrossoverProb,
			EpisodesPerIndividual: a.GA.EpisodesPerIndividual,
			TournamentSize:        a.GA.TournamentSize,
			StallMax:              a.GA.StallMax,
			HeuristicSeeds:        a.GA.HeuristicSeeds,
			SuccessBonus:          a.GA.SuccessBonus,
			StepPenalty:           a.GA.StepPenalty,
			DistancePenalty:       a.GA.DistancePenalty,
			ApproachBonus:         a.GA.ApproachBonus,
			RetreatPenalty:        a.GA.RetreatPenalty,
		},
	}, nil
}

type Storage struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

type Experiment struct {
	Name        string      `json:"name"`
	Environment Environment `json:"environment"`
	Run         Run         `json:"run"`
	Agents      []Agent     `json:"agents"`
	Storage     Storage     `json:"storage"`
	// Output is the directory metrics and charts are written to.
	Output string `json:"output"`
}

// Default returns a runnable single agent experiment for the environment type.
func Default(envType string) *Experiment {
	e := &Experiment{
		Name: envType,
		Run: Run{
			Episodes:       100,
			MaxSteps:       200,
			DiscountFactor: 0.99,
			JoinTimeoutMs:  2000,
		},
		Storage: Storage{Kind: storage.KindMemory},
		Output:  "results",
	}
	agent := DefaultAgent()
	agent.Name = "A1"

	switch envType {
	case EnvForaging:
		e.Environment = Environment{
			Type:      EnvForaging,
			Width:     7,
			Height:    7,
			Resources: []Resource{{Position: core.Position{X: 5, Y: 1}, Value: 1}, {Position: core.Position{X: 1, Y: 5}, Value: 2}},
			Nests:     []core.Position{{X: 3, Y: 3}},
			Obstacles: []core.Position{{X: 2, Y: 2}, {X: 4, Y: 4}},
		}
	default:
		e.Environment = Environment{
			Type:       EnvLighthouse,
			Width:      5,
			Height:     5,
			Lighthouse: core.Position{X: 4, Y: 4},
			StepReward: -0.1,
			GoalReward: 10,
		}
	}
	e.Agents = []Agent{agent}
	return e
}

// Load reads an experiment file. Fields missing from the file keep their defaults.
func Load(path string) (*Experiment, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameters: %w", err)
	}
	var probe struct {
		Environment struct {
			Type string `json:"type"`
		} `json:"environment"`
	}
	if err := json.Unmarshal(bs, &probe); err != nil {
		return nil, fmt.Errorf("parse parameters %s: %w", path, err)
	}
	e := Default(probe.Environment.Type)
	e.Agents = nil
	if err := json.Unmarshal(bs, e); err != nil {
		return nil, fmt.Errorf("parse parameters %s: %w", path, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Experiment) Save(path string) error {
	return util.SaveJson(path, e)
}

func (e *Experiment) Validate() error {
	switch e.Environment.Type {
	case EnvLighthouse, EnvForaging:
	default:
		return fmt.Errorf("%w: unknown environment type %q", core.ErrInvalidConfig, e.Environment.Type)
	}
	if err := e.Run.RunConfig().Validate(); err != nil {
		return err
	}
	if len(e.Agents) == 0 {
		return fmt.Errorf("%w: no agents", core.ErrInvalidConfig)
	}
	names := make(map[string]bool)
	for _, a := range e.Agents {
		if a.Name == "" {
			return fmt.Errorf("%w: agent without a name", core.ErrInvalidConfig)
		}
		if names[a.Name] {
			return fmt.Errorf("%w: duplicate agent %s", core.ErrInvalidConfig, a.Name)
		}
		names[a.Name] = true
		if !known(a.Algorithm) {
			return fmt.Errorf("%w: agent %s: unknown algorithm %q", core.ErrInvalidConfig, a.Name, a.Algorithm)
		}
		spec, err := a.PolicySpec()
		if err != nil {
			return err
		}
		if spec.Mode == core.ModeFixed {
			continue
		}
		switch spec.Algorithm {
		case policies.AlgorithmQLearning:
			if err := spec.Q.Validate(); err != nil {
				return fmt.Errorf("agent %s: %w", a.Name, err)
			}
		case policies.AlgorithmGenetic:
			if err := spec.GA.Validate(); err != nil {
				return fmt.Errorf("agent %s: %w", a.Name, err)
			}
		}
	}
	switch e.Storage.Kind {
	case "", storage.KindMemory, storage.KindFile, storage.KindSQLite:
	default:
		return fmt.Errorf("%w: unknown storage kind %q", core.ErrInvalidConfig, e.Storage.Kind)
	}
	return nil
}

// Fingerprint identifies the experiment parameters.
func (e *Experiment) Fingerprint() string {
	return util.JsonHash(e)[:12]
}

func known(algorithm string) bool {
	for _, a := range policies.Algorithms {
		if a == policies.CanonicalAlgorithm(algorithm) {
			return true
		}
	}
	return false
}
