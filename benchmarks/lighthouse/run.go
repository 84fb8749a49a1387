package lighthouse

import (
	"github.com/zeu5/grid-agents/benchmarks/common"
	"github.com/zeu5/grid-agents/config"
)

// NewSetup builds a lighthouse environment from the experiment parameters.
func NewSetup(exp *config.Experiment) (common.Setup, error) {
	cfg := DefaultEnvConfig()
	cfg.Width = exp.Environment.Width
	cfg.Height = exp.Environment.Height
	cfg.Lighthouse = exp.Environment.Lighthouse
	cfg.StepReward = exp.Environment.StepReward
	cfg.GoalReward = exp.Environment.GoalReward

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
