package cmd

import "github.com/spf13/cobra"

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid-agents",
		Short: "Multi-agent reinforcement learning on grid worlds",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			UpdateFlags()
			flags.Record()
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		LighthouseCommand(),
		ForagingCommand(),
		CompareCommand(),
	)

	return cmd
}
