package analysis

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/zeu5/grid-agents/core"
	"github.com/zeu5/grid-agents/util"
)

// Series is one labelled sequence of episodes on a chart.
type Series struct {
	Name     string
	Episodes []core.EpisodeRecord
}

func lineChart(title string, series []Series, value func([]core.EpisodeRecord) []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	longest := 0
	for _, s := range series {
		if len(s.Episodes) > longest {
			longest = len(s.Episodes)
		}
	}
	episodes := make([]string, longest)
	for i := range episodes {
		episodes[i] = fmt.Sprintf("%d", i+1)
	}
	line = line.SetXAxis(episodes)

	for _, s := range series {
		values := value(s.Episodes)
		items := make([]opts.LineData, 0, len(values))
		for _, v := range values {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(s.Name, items)
	}
	return line
}

// RenderCharts draws reward, discounted reward, steps and cumulative success
// rate per episode, one line per series.
func RenderCharts(w io.Writer, title string, series ...Series) error {
	page := components.NewPage()
	page.AddCharts(
		lineChart(title+": total reward", series, func(es []core.EpisodeRecord) []float64 {
			out := make([]float64, len(es))
			for i, e := range es {
				out[i] = e.TotalReward
			}
			return out
		}),
		lineChart(title+": discounted reward", series, func(es []core.EpisodeRecord) []float64 {
			out := make([]float64, len(es))
			for i, e := range es {
				out[i] = e.DiscountedReward
			}
			return out
		}),
		lineChart(title+": steps", series, func(es []core.EpisodeRecord) []float64 {
			out := make([]float64, len(es))
			for i, e := range es {
				out[i] = float64(e.Steps)
			}
			return out
		}),
		lineChart(title+": success rate", series, func(es []core.EpisodeRecord) []float64 {
			flags := make([]bool, len(es))
			for i, e := range es {
				flags[i] = e.Success
			}
			return util.CumulativeRate(flags)
		}),
	)
	return page.Render(w)
}

// ChartRecorder renders the charts of a run to rewards.html.
type ChartRecorder struct {
	savePath string
	name     string
}

var _ core.Recorder = &ChartRecorder{}

func NewChartRecorder(savePath, name string) *ChartRecorder {
	return &ChartRecorder{
		savePath: savePath,
		name:     name,
	}
}

func (c *ChartRecorder) Record(_ context.Context, result *core.RunResult) error {
	return WriteCharts(path.Join(c.savePath, RewardsChartFile), c.name, Series{Name: c.name, Episodes: result.Episodes})
}

func WriteCharts(file, title string, series ...Series) error {
	if err := os.MkdirAll(path.Dir(file), 0755); err != nil {
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := RenderCharts(f, title, series...); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}
