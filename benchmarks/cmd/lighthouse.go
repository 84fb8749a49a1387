package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/grid-agents/benchmarks/lighthouse"
	"github.com/zeu5/grid-agents/config"
)

func LighthouseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lighthouse",
		Short: "Run agents that search for the lighthouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, config.EnvLighthouse, lighthouse.NewSetup)
		},
	}

	return cmd
}
