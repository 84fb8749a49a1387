package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/grid-agents/analysis"
	"github.com/zeu5/grid-agents/benchmarks/common"
	"github.com/zeu5/grid-agents/config"
	"github.com/zeu5/grid-agents/core"
	"github.com/zeu5/grid-agents/storage"
	"github.com/zeu5/grid-agents/util"
)

// loadExperiment layers defaults, the parameters file, GRID_AGENTS_*
// variables and command line flags, in that order.
func loadExperiment(cmd *cobra.Command, envType string) (*config.Experiment, error) {
	config.LoadDotEnv()

	exp := config.Default(envType)
	if flags.ConfigFile != "" {
		loaded, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if loaded.Environment.Type != envType {
			return nil, fmt.Errorf("%w: %s describes a %s environment", core.ErrInvalidConfig, flags.ConfigFile, loaded.Environment.Type)
		}
		exp = loaded
	}
	if err := exp.ApplyEnv(); err != nil {
		return nil, err
	}
	applyFlags(cmd, exp)
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	return exp, nil
}

func runBenchmark(cmd *cobra.Command, envType string, setup common.SetupFunc) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	doneCh := make(chan struct{}) // channel for done signal from application
	defer close(doneCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		cancel()
	}()

	exp, err := loadExperiment(cmd, envType)
	if err != nil {
		return err
	}
	if err := exp.Save(path.Join(exp.Output, "experiment.json")); err != nil {
		log.Printf("save experiment parameters: %v", err)
	}

	store, err := storage.NewStore(ctx, exp.Storage.Kind, exp.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs := flags.NumRuns
	if runs < 1 {
		runs = 1
	}
	fmt.Printf("Experiment %s (%s), %d run(s), %d agent(s)\n", exp.Name, exp.Fingerprint(), runs, len(exp.Agents))

	results := make([]*core.RunResult, runs)
	errs := make([]error, runs)

	var printer *util.TerminalPrinter
	if !flags.Render {
		printer = util.NewTerminalPrinter(200 * time.Millisecond)
	}
	outputs := make([]io.Writer, runs)
	for i := range outputs {
		if printer != nil {
			outputs[i] = printer.NewOutput()
		} else {
			outputs[i] = os.Stdout
		}
	}
	if printer != nil {
		printer.Start(ctx)
	}

	limit := flags.Parallelism
	if limit < 1 || flags.Render {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	wg := new(sync.WaitGroup)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			opts := common.RunOptions{
				SavePath: common.RunPath(exp.Output, runs, i),
				Progress: outputs[i],
				Debug:    flags.Debug,
			}
			if runs > 1 {
				opts.PolicySuffix = fmt.Sprintf("_run%d", i)
			}
			if flags.Render {
				opts.Render = os.Stdout
			}
			results[i], errs[i] = common.Run(ctx, exp, setup, store, opts)
		}(i)
	}
	wg.Wait()
	if printer != nil {
		printer.Stop()
	}

	names := make([]string, 0, runs)
	episodes := make([][]core.EpisodeRecord, 0, runs)
	series := make([]analysis.Series, 0, runs)
	for i, r := range results {
		if errs[i] != nil {
			log.Printf("run %d: %v", i, errs[i])
		}
		if r == nil {
			continue
		}
		name := fmt.Sprintf("%s run %d", exp.Name, i)
		names = append(names, name)
		episodes = append(episodes, r.Episodes)
		series = append(series, analysis.Series{Name: name, Episodes: r.Episodes})
	}
	if len(names) > 0 {
		if _, err := analysis.Compare(os.Stdout, exp.Output, names, episodes); err != nil {
			log.Printf("compare runs: %v", err)
		}
		if len(names) > 1 {
			if err := analysis.WriteCharts(path.Join(exp.Output, analysis.RewardsChartFile), exp.Name, series...); err != nil {
				log.Printf("comparison charts: %v", err)
			}
		}
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
