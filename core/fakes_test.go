package core

import (
	"context"
	"errors"
	"sync"
)

// scriptedEnv moves nobody and pays a fixed reward per action. terminateAt
// maps an agent to the act count (1-based) at which it reports termination.
type scriptedEnv struct {
	agents      []AgentID
	reward      float64
	terminateAt map[AgentID]int
	acts        map[AgentID]int
	actLog      []AgentID
	updates     int
	resets      int
	actErr      error
}

func newScriptedEnv(reward float64, agents ...AgentID) *scriptedEnv {
	return &scriptedEnv{
		agents:      agents,
		reward:      reward,
		terminateAt: make(map[AgentID]int),
		acts:        make(map[AgentID]int),
	}
}

func (s *scriptedEnv) Agents() []AgentID { return s.agents }

func (s *scriptedEnv) Observe(id AgentID) (Observation, error) {
	for _, a := range s.agents {
		if a == id {
			return NewObservation(id, Position{}, []Action{ActionNorth}, nil), nil
		}
	}
	return Observation{}, ErrUnknownAgent
}

func (s *scriptedEnv) Act(id AgentID, _ Action) (Outcome, error) {
	if s.actErr != nil {
		return Outcome{}, s.actErr
	}
	s.acts[id]++
	s.actLog = append(s.actLog, id)
	at, ok := s.terminateAt[id]
	return Outcome{Reward: s.reward, Terminated: ok && s.acts[id] == at}, nil
}

func (s *scriptedEnv) Update() { s.updates++ }

func (s *scriptedEnv) Reset() error {
	s.resets++
	s.acts = make(map[AgentID]int)
	return nil
}

// recordingPolicy always answers STAY and counts what it sees.
type recordingPolicy struct {
	mtx       sync.Mutex
	picks     int
	feedbacks []Feedback
	episodes  []EpisodeContext
	saves     int
}

func (r *recordingPolicy) PickAction(_ *StepContext, _ Observation) Action {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.picks++
	return ActionStay
}

func (r *recordingPolicy) UpdateStep(_ *StepContext, fb Feedback) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.feedbacks = append(r.feedbacks, fb)
}

func (r *recordingPolicy) UpdateEpisode(eCtx *EpisodeContext) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.episodes = append(r.episodes, *eCtx)
}

func (r *recordingPolicy) Save(_ context.Context, _ PolicyStore) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.saves++
	return errors.New("disk full")
}

func (r *recordingPolicy) counts() (int, int, int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.picks, len(r.feedbacks), len(r.episodes)
}

type nopStore struct{}

func (nopStore) LoadQTable(context.Context, string) (map[string]float64, error) { return nil, nil }
func (nopStore) SaveQTable(context.Context, string, map[string]float64) error  { return nil }
func (nopStore) LoadGenome(context.Context, string) (map[string]string, error)  { return nil, nil }
func (nopStore) SaveGenome(context.Context, string, map[string]string) error    { return nil }

type captureRecorder struct {
	results []*RunResult
}

func (c *captureRecorder) Record(_ context.Context, r *RunResult) error {
	c.results = append(c.results, r)
	return nil
}
