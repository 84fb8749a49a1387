package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/grid-agents/benchmarks/foraging"
	"github.com/zeu5/grid-agents/config"
)

func ForagingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foraging",
		Short: "Run agents that carry resources back to the nests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, config.EnvForaging, foraging.NewSetup)
		},
	}

	return cmd
}
