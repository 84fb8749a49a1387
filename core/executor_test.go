package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

type blockingPolicy struct {
	recordingPolicy
	release chan struct{}
	entered chan struct{}
}

func (b *blockingPolicy) PickAction(s *StepContext, o Observation) Action {
	close(b.entered)
	<-b.release
	return b.recordingPolicy.PickAction(s, o)
}

type panickingPolicy struct {
	recordingPolicy
}

func (p *panickingPolicy) PickAction(_ *StepContext, _ Observation) Action {
	panic("bad table")
}

func testStep() *StepContext {
	return &StepContext{Step: 1, Agent: 1, EpisodeContext: &EpisodeContext{Context: context.Background(), Episode: 1}}
}

func TestExecutorStepFeedbackProtocol(t *testing.T) {
	policy := &recordingPolicy{}
	x := NewAgentExecutor(1, "A1", policy)

	obs := NewObservation(1, Position{}, []Action{ActionNorth}, nil)
	for i := 0; i < 3; i++ {
		action, err := x.Step(testStep(), obs)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if action != ActionStay {
			t.Fatalf("expected STAY got %s", action)
		}
		if x.State() != StateAwaitingFeedback {
			t.Fatalf("expected awaiting-feedback got %s", x.State())
		}
		x.Feedback(Feedback{Reward: 1, Next: obs})
		if x.State() != StateIdle {
			t.Fatalf("expected idle got %s", x.State())
		}
	}
	if err := x.EndEpisode(&EpisodeContext{Context: context.Background(), Episode: 1}); err != nil {
		t.Fatalf("end episode: %v", err)
	}

	picks, feedbacks, episodes := policy.counts()
	if picks != 3 || feedbacks != 3 || episodes != 1 {
		t.Fatalf("expected 3/3/1 calls got %d/%d/%d", picks, feedbacks, episodes)
	}
	if err := x.Stop(time.Second); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := x.Step(testStep(), obs); !errors.Is(err, ErrExecutorStopped) {
		t.Fatalf("expected ErrExecutorStopped got %v", err)
	}
}

func TestExecutorStepWithoutFeedbackPanics(t *testing.T) {
	x := NewAgentExecutor(1, "A1", &recordingPolicy{})
	t.Cleanup(func() { x.Stop(time.Second) })

	obs := NewObservation(1, Position{}, nil, nil)
	if _, err := x.Step(testStep(), obs); err != nil {
		t.Fatalf("step: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on a second step without feedback")
		}
	}()
	x.Step(testStep(), obs)
}

func TestExecutorStopAwaitingFeedback(t *testing.T) {
	x := NewAgentExecutor(1, "A1", &recordingPolicy{})
	if _, err := x.Step(testStep(), NewObservation(1, Position{}, nil, nil)); err != nil {
		t.Fatalf("step: %v", err)
	}
	if err := x.Stop(time.Second); err != nil {
		t.Fatalf("expected clean stop got %v", err)
	}
	// no-op once stopped
	x.Feedback(Feedback{})
	if err := x.Stop(time.Second); err != nil {
		t.Fatalf("expected second stop to succeed got %v", err)
	}
}

func TestExecutorPersist(t *testing.T) {
	policy := &recordingPolicy{}
	x := NewAgentExecutor(1, "A1", policy)
	t.Cleanup(func() { x.Stop(time.Second) })

	err := x.Persist(context.Background(), nopStore{})
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("expected save error to be returned got %v", err)
	}
	if policy.saves != 1 {
		t.Fatalf("expected 1 save got %d", policy.saves)
	}
}

func TestExecutorLeak(t *testing.T) {
	policy := &blockingPolicy{release: make(chan struct{}), entered: make(chan struct{})}
	x := NewAgentExecutor(1, "A1", policy)

	stepped := make(chan struct{})
	go func() {
		defer close(stepped)
		x.Step(testStep(), NewObservation(1, Position{}, nil, nil))
	}()
	select {
	case <-policy.entered:
	case <-time.After(time.Second):
		t.Fatalf("policy never received the observation")
	}

	err := x.Stop(20 * time.Millisecond)
	if !errors.Is(err, ErrWorkerLeak) {
		t.Fatalf("expected ErrWorkerLeak got %v", err)
	}

	close(policy.release)
	select {
	case <-stepped:
	case <-time.After(time.Second):
		t.Fatalf("step never returned after release")
	}
	if err := x.Stop(time.Second); err != nil {
		t.Fatalf("expected worker to exit after release got %v", err)
	}
}

func TestExecutorPanicIsReported(t *testing.T) {
	x := NewAgentExecutor(1, "A1", &panickingPolicy{})
	_, err := x.Step(testStep(), NewObservation(1, Position{}, nil, nil))
	if !errors.Is(err, ErrWorkerFailed) {
		t.Fatalf("expected ErrWorkerFailed got %v", err)
	}
	if x.State() != StateStopped {
		t.Fatalf("expected stopped got %s", x.State())
	}
	if !errors.Is(x.Err(), ErrWorkerFailed) {
		t.Fatalf("expected Err to report the failure got %v", x.Err())
	}
	if err := x.Stop(time.Second); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
