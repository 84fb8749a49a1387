package cmd

import (
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/grid-agents/analysis"
	"github.com/zeu5/grid-agents/core"
)

func CompareCommand() *cobra.Command {
	var chart string
	cmd := &cobra.Command{
		Use:   "compare <metrics.json> <metrics.json>...",
		Short: "Summarize and compare metrics files of finished runs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, len(args))
			episodes := make([][]core.EpisodeRecord, len(args))
			series := make([]analysis.Series, len(args))
			for i, file := range args {
				metrics, err := analysis.LoadMetrics(file)
				if err != nil {
					return err
				}
				names[i] = file
				episodes[i] = metrics.Episodes
				series[i] = analysis.Series{Name: path.Base(path.Dir(file)) + "/" + path.Base(file), Episodes: metrics.Episodes}
			}
			if _, err := analysis.Compare(os.Stdout, "", names, episodes); err != nil {
				return err
			}
			if chart != "" {
				return analysis.WriteCharts(chart, "comparison", series...)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chart, "chart", "", "Also render the comparison charts to this HTML file")

	return cmd
}
