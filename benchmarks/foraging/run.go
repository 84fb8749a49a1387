package foraging

import (
	"github.com/zeu5/grid-agents/benchmarks/common"
	"github.com/zeu5/grid-agents/config"
)

// NewSetup builds a foraging environment from the experiment parameters.
func NewSetup(exp *config.Experiment) (common.Setup, error) {
	cfg := DefaultEnvConfig()
	cfg.Width = exp.Environment.Width
	cfg.Height = exp.Environment.Height
	cfg.Nests = exp.Environment.Nests
	cfg.Obstacles = exp.Environment.Obstacles
	for _, r := range exp.Environment.Resources {
		cfg.Resources = append(cfg.Resources, Resource{Position: r.Position, Value: r.Value})
	}

	env, err := NewEnvironment(cfg)
	if err != nil {
		return common.Setup{}, err
	}
	return common.Setup{
		Env:      env,
		Space:    NewSpace(),
		AddAgent: env.AddAgent,
	}, nil
}
