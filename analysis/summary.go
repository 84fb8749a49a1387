package analysis

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/grid-agents/core"
	"github.com/zeu5/grid-agents/util"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Name                   string  `json:"name"`
	Episodes               int     `json:"episodes"`
	MeanReward             float64 `json:"mean_reward"`
	RewardStdDev           float64 `json:"reward_stddev"`
	MeanDiscountedReward   float64 `json:"mean_discounted_reward"`
	MeanSteps              float64 `json:"mean_steps"`
	SuccessRate            float64 `json:"success_rate"`
	MeanStepsToSuccess     float64 `json:"mean_steps_to_success"`
	FinalWindowSuccessRate float64 `json:"final_window_success_rate"`
}

// finalWindow is how many trailing episodes FinalWindowSuccessRate looks at.
const finalWindow = 10

func Summarize(name string, episodes []core.EpisodeRecord) Summary {
	s := Summary{Name: name, Episodes: len(episodes)}
	if len(episodes) == 0 {
		return s
	}
	rewards := make([]float64, len(episodes))
	discounted := make([]float64, len(episodes))
	steps := make([]float64, len(episodes))
	successSteps := make([]float64, 0)
	successes := 0
	for i, e := range episodes {
		rewards[i] = e.TotalReward
		discounted[i] = e.DiscountedReward
		steps[i] = float64(e.Steps)
		if e.Success {
			successes++
			successSteps = append(successSteps, float64(e.Steps))
		}
	}
	if len(rewards) > 1 {
		s.MeanReward, s.RewardStdDev = stat.MeanStdDev(rewards, nil)
	} else {
		s.MeanReward = rewards[0]
	}
	s.MeanDiscountedReward = stat.Mean(discounted, nil)
	s.MeanSteps = stat.Mean(steps, nil)
	s.SuccessRate = float64(successes) / float64(len(episodes))
	if len(successSteps) > 0 {
		s.MeanStepsToSuccess = stat.Mean(successSteps, nil)
	}

	window := episodes[len(episodes)-util.MinInt(finalWindow, len(episodes)):]
	windowSuccesses := 0
	for _, e := range window {
		if e.Success {
			windowSuccesses++
		}
	}
	s.FinalWindowSuccessRate = float64(windowSuccesses) / float64(len(window))
	return s
}

// Print writes a summary block, highlighting the success rate.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "== %s ==\n", s.Name)
	fmt.Fprintf(w, "Episodes: %d\n", s.Episodes)
	fmt.Fprintf(w, "Mean reward: %.3f (stddev %.3f)\n", s.MeanReward, s.RewardStdDev)
	fmt.Fprintf(w, "Mean discounted reward: %.3f\n", s.MeanDiscountedReward)
	fmt.Fprintf(w, "Mean steps: %.2f\n", s.MeanSteps)
	fmt.Fprintf(w, "Success rate: %s\n", aurora.Green(fmt.Sprintf("%.1f%%", s.SuccessRate*100)))
	fmt.Fprintf(w, "Success rate (last %d): %.1f%%\n\n", finalWindow, s.FinalWindowSuccessRate*100)
}

// Compare summarizes every named episode list, prints the summaries and
// writes them to comparison.json under savePath when it is not empty.
func Compare(w io.Writer, savePath string, names []string, episodes [][]core.EpisodeRecord) ([]Summary, error) {
	if len(names) != len(episodes) {
		return nil, fmt.Errorf("%d names for %d episode lists", len(names), len(episodes))
	}
	summaries := make([]Summary, len(names))
	for i, name := range names {
		summaries[i] = Summarize(name, episodes[i])
		summaries[i].Print(w)
	}
	if savePath != "" {
		if err := util.SaveJson(path.Join(savePath, ComparisonFile), summaries); err != nil {
			return summaries, fmt.Errorf("write %s: %w", ComparisonFile, err)
		}
	}
	return summaries, nil
}

// SummaryRecorder prints the summary of a run once it is over.
type SummaryRecorder struct {
	w    io.Writer
	name string
}

var _ core.Recorder = &SummaryRecorder{}

func NewSummaryRecorder(w io.Writer, name string) *SummaryRecorder {
	return &SummaryRecorder{w: w, name: name}
}

func (s *SummaryRecorder) Record(_ context.Context, result *core.RunResult) error {
	Summarize(s.name, result.Episodes).Print(s.w)
	return nil
}
