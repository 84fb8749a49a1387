package core

import "sync"

type StepRecord struct {
	Episode   int      `json:"episode"`
	Step      int      `json:"step"`
	Agent     AgentID  `json:"agent"`
	AgentName string   `json:"agent_name"`
	Action    Action   `json:"action"`
	Reward    float64  `json:"reward"`
	Position  Position `json:"position"`
}

type EpisodeRecord struct {
	Episode          int     `json:"episode"`
	TotalReward      float64 `json:"total_reward"`
	DiscountedReward float64 `json:"discounted_reward"`
	Steps            int     `json:"steps"`
	Success          bool    `json:"success"`
}

// Trace is the append-only step log of a run.
type Trace struct {
	mtx   *sync.Mutex
	steps []StepRecord
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]StepRecord, 0),
		mtx:   &sync.Mutex{},
	}
}

func (t *Trace) AddStep(s StepRecord) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) StepRecord {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[i]
}

func (t *Trace) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.steps)
}

func (t *Trace) Last() StepRecord {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[len(t.steps)-1]
}

// Records returns a copy of the log.
func (t *Trace) Records() []StepRecord {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	out := make([]StepRecord, len(t.steps))
	copy(out, t.steps)
	return out
}

// Episode returns the steps of one episode.
func (t *Trace) Episode(episode int) []StepRecord {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	out := make([]StepRecord, 0)
	for _, s := range t.steps {
		if s.Episode == episode {
			out = append(out, s)
		}
	}
	return out
}
