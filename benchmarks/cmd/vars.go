package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/grid-agents/benchmarks/common"
	"github.com/zeu5/grid-agents/config"
)

var (
	flags       *common.Flags = common.DefaultFlags()
	configFile  string
	savePath    string
	numRuns     int
	episodes    int
	maxSteps    int
	discount    float64
	joinTimeout int
	storeKind   string
	storePath   string
	mode        string
	parallelism int
	debug       bool
	render      bool
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&configFile, "config", flags.ConfigFile, "Experiment parameters file (JSON)")
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().IntVar(&numRuns, "runs", flags.NumRuns, "Number of independent runs")
	cmd.PersistentFlags().IntVar(&episodes, "episodes", flags.Episodes, "Number of episodes per run")
	cmd.PersistentFlags().IntVar(&maxSteps, "max-steps", flags.MaxSteps, "Maximum steps per episode")
	cmd.PersistentFlags().Float64Var(&discount, "discount", flags.Discount, "Discount factor of the reported return")
	cmd.PersistentFlags().IntVar(&joinTimeout, "join-timeout", int(flags.JoinTimeout.Milliseconds()), "Milliseconds to wait for an agent worker to stop")
	cmd.PersistentFlags().StringVar(&storeKind, "store", flags.StoreKind, "Policy store: memory, file or sqlite")
	cmd.PersistentFlags().StringVar(&storePath, "store-path", flags.StorePath, "Directory of the file store or sqlite database file")
	cmd.PersistentFlags().StringVar(&mode, "mode", flags.Mode, "Agent mode: learning, evaluation or fixed")
	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", flags.Parallelism, "Number of parallel runs")
	cmd.PersistentFlags().BoolVar(&debug, "debug", flags.Debug, "Save the traces of the last episodes")
	cmd.PersistentFlags().BoolVar(&render, "render", flags.Render, "Draw the grid after every step")
}

func UpdateFlags() {
	flags.ConfigFile = configFile
	flags.SavePath = savePath
	flags.NumRuns = numRuns
	flags.Episodes = episodes
	flags.MaxSteps = maxSteps
	flags.Discount = discount
	flags.JoinTimeout = time.Duration(joinTimeout) * time.Millisecond
	flags.StoreKind = storeKind
	flags.StorePath = storePath
	flags.Mode = mode
	flags.Parallelism = parallelism
	flags.Debug = debug
	flags.Render = render
}

// applyFlags overrides exp with the flags given on the command line.
func applyFlags(cmd *cobra.Command, exp *config.Experiment) {
	changed := cmd.Flags().Changed
	if changed("episodes") {
		exp.Run.Episodes = flags.Episodes
	}
	if changed("max-steps") {
		exp.Run.MaxSteps = flags.MaxSteps
	}
	if changed("discount") {
		exp.Run.DiscountFactor = flags.Discount
	}
	if changed("join-timeout") {
		exp.Run.JoinTimeoutMs = int(flags.JoinTimeout.Milliseconds())
	}
	if changed("store") {
		exp.Storage.Kind = flags.StoreKind
	}
	if changed("store-path") {
		exp.Storage.Path = flags.StorePath
	}
	if changed("save-path") {
		exp.Output = flags.SavePath
	}
	if changed("mode") {
		for i := range exp.Agents {
			exp.Agents[i].Mode = flags.Mode
		}
	}
}
