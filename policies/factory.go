package policies

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/zeu5/grid-agents/core"
)

const (
	AlgorithmQLearning = "q_learning"
	AlgorithmGenetic   = "genetic"
	AlgorithmFixed     = "fixed"
	AlgorithmRandom    = "random"
)

var Algorithms = []string{AlgorithmQLearning, AlgorithmGenetic, AlgorithmFixed, AlgorithmRandom}

var algorithmAliases = map[string]string{
	"qlearning":  AlgorithmQLearning,
	"q-learning": AlgorithmQLearning,
}

// CanonicalAlgorithm maps accepted spellings onto the Algorithm constants.
func CanonicalAlgorithm(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if a, ok := algorithmAliases[name]; ok {
		return a
	}
	return name
}

// Spec describes one agent's policy.
type Spec struct {
	Algorithm string
	Name      string
	Mode      core.Mode
	Seed      uint64
	Q         QConfig
	GA        GAConfig
}

type loader interface {
	Load(context.Context, core.PolicyStore) (int, error)
}

// New builds the policy for spec. With a store, previously saved state is
// loaded; missing state is not an error. Fixed mode always yields a
// FixedPolicy.
func New(ctx context.Context, spec Spec, space core.StateSpace, store core.PolicyStore) (core.Policy, error) {
	if spec.Mode == core.ModeFixed {
		return NewFixedPolicy(space), nil
	}

	var policy core.Policy
	switch CanonicalAlgorithm(spec.Algorithm) {
	case AlgorithmQLearning:
		cfg := spec.Q
		cfg.Mode = spec.Mode
		cfg.Seed = spec.Seed
		cfg.Name = spec.Name
		p, err := NewQLearningPolicy(space, cfg)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", spec.Name, err)
		}
		policy = p
	case AlgorithmGenetic:
		cfg := spec.GA
		cfg.Mode = spec.Mode
		cfg.Seed = spec.Seed
		cfg.Name = spec.Name
		p, err := NewGeneticPolicy(space, cfg)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", spec.Name, err)
		}
		policy = p
	case AlgorithmFixed:
		return NewFixedPolicy(space), nil
	case AlgorithmRandom:
		return NewRandomPolicy(space, spec.Seed), nil
	default:
		return nil, fmt.Errorf("%w: agent %s: unknown algorithm %q", core.ErrInvalidConfig, spec.Name, spec.Algorithm)
	}

	if store != nil {
		if l, ok := policy.(loader); ok {
			skipped, err := l.Load(ctx, store)
			if err != nil {
				return nil, err
			}
			if skipped > 0 {
				log.Printf("agent %s: skipped %d malformed policy entries", spec.Name, skipped)
			}
		}
	}
	return policy, nil
}
