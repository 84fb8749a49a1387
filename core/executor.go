package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

type ExecutorState int32

const (
	StateIdle ExecutorState = iota
	StateAwaitingAction
	StateAwaitingFeedback
	StateStopped
)

func (s ExecutorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAction:
		return "awaiting-action"
	case StateAwaitingFeedback:
		return "awaiting-feedback"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type requestKind int

const (
	requestObserve requestKind = iota
	requestEndEpisode
	requestPersist
	requestStop
)

type request struct {
	kind    requestKind
	step    *StepContext
	obs     Observation
	episode *EpisodeContext
	ctx     context.Context
	store   PolicyStore
}

type feedbackKind int

const (
	feedbackDeliver feedbackKind = iota
	feedbackStop
)

type feedbackMessage struct {
	kind     feedbackKind
	step     *StepContext
	feedback Feedback
}

type reply struct {
	action Action
	err    error
}

// AgentExecutor runs one policy on its own goroutine. The engine drives it
// through Step, Feedback, EndEpisode, Persist and Stop, always from a single
// goroutine. Step and Feedback strictly alternate.
type AgentExecutor struct {
	ID   AgentID
	Name string

	policy Policy

	requests chan request
	feedback chan feedbackMessage
	replies  chan reply
	exited   chan struct{}

	state   atomic.Int32
	pending *StepContext
	// written by the worker before exited is closed
	failure error
}

// NewAgentExecutor starts the worker goroutine, which owns policy from now on.
func NewAgentExecutor(id AgentID, name string, policy Policy) *AgentExecutor {
	e := &AgentExecutor{
		ID:       id,
		Name:     name,
		policy:   policy,
		requests: make(chan request, 1),
		feedback: make(chan feedbackMessage, 1),
		replies:  make(chan reply),
		exited:   make(chan struct{}),
	}
	e.state.Store(int32(StateIdle))
	go e.run()
	return e
}

func (e *AgentExecutor) State() ExecutorState {
	return ExecutorState(e.state.Load())
}

// Err returns the failure that stopped the worker, if any.
func (e *AgentExecutor) Err() error {
	select {
	case <-e.exited:
		return e.failure
	default:
		return nil
	}
}

func (e *AgentExecutor) run() {
	defer close(e.exited)
	defer func() {
		if r := recover(); r != nil {
			e.failure = fmt.Errorf("%w: agent %d (%s): %v", ErrWorkerFailed, e.ID, e.Name, r)
		}
	}()

	for {
		req := <-e.requests
		switch req.kind {
		case requestStop:
			return
		case requestObserve:
			action := e.policy.PickAction(req.step, req.obs)
			e.replies <- reply{action: action}
			msg := <-e.feedback
			if msg.kind == feedbackStop {
				return
			}
			e.policy.UpdateStep(msg.step, msg.feedback)
		case requestEndEpisode:
			e.policy.UpdateEpisode(req.episode)
			e.replies <- reply{}
		case requestPersist:
			var err error
			if p, ok := e.policy.(Persister); ok {
				err = p.Save(req.ctx, req.store)
			}
			e.replies <- reply{err: err}
		}
	}
}

func (e *AgentExecutor) await() (reply, error) {
	select {
	case r := <-e.replies:
		return r, nil
	case <-e.exited:
		e.state.Store(int32(StateStopped))
		if e.failure != nil {
			return reply{}, e.failure
		}
		return reply{}, ErrExecutorStopped
	}
}

func (e *AgentExecutor) checkIdle(op string) error {
	switch s := e.State(); s {
	case StateIdle:
		return nil
	case StateStopped:
		return ErrExecutorStopped
	default:
		panic(fmt.Sprintf("agent %d: %s while %s", e.ID, op, s))
	}
}

// Step hands the observation to the worker and waits for its action. The
// executor then waits for Feedback.
func (e *AgentExecutor) Step(sCtx *StepContext, obs Observation) (Action, error) {
	if err := e.checkIdle("step"); err != nil {
		return ActionStay, err
	}
	e.state.Store(int32(StateAwaitingAction))
	e.requests <- request{kind: requestObserve, step: sCtx, obs: obs}
	r, err := e.await()
	if err != nil {
		return ActionStay, err
	}
	if !e.state.CompareAndSwap(int32(StateAwaitingAction), int32(StateAwaitingFeedback)) {
		// stopped while the policy was choosing
		return ActionStay, ErrExecutorStopped
	}
	e.pending = sCtx
	return r.action, nil
}

// Feedback delivers the result of the pending step without waiting for the
// policy to learn from it. It does nothing once the executor is stopped.
func (e *AgentExecutor) Feedback(fb Feedback) {
	switch s := e.State(); s {
	case StateAwaitingFeedback:
	case StateStopped:
		return
	default:
		panic(fmt.Sprintf("agent %d: feedback while %s", e.ID, s))
	}
	e.state.Store(int32(StateIdle))
	e.feedback <- feedbackMessage{kind: feedbackDeliver, step: e.pending, feedback: fb}
	e.pending = nil
}

// EndEpisode runs the policy's episode bookkeeping on the worker.
func (e *AgentExecutor) EndEpisode(eCtx *EpisodeContext) error {
	if err := e.checkIdle("end episode"); err != nil {
		return err
	}
	e.requests <- request{kind: requestEndEpisode, episode: eCtx}
	_, err := e.await()
	return err
}

// Persist saves the policy if it implements Persister.
func (e *AgentExecutor) Persist(ctx context.Context, store PolicyStore) error {
	if err := e.checkIdle("persist"); err != nil {
		return err
	}
	e.requests <- request{kind: requestPersist, ctx: ctx, store: store}
	r, err := e.await()
	if err != nil {
		return err
	}
	return r.err
}

// Stop asks the worker to exit and waits up to timeout for it. A worker that
// does not exit in time is reported with ErrWorkerLeak.
func (e *AgentExecutor) Stop(timeout time.Duration) error {
	prev := ExecutorState(e.state.Swap(int32(StateStopped)))
	if prev != StateStopped {
		select {
		case e.requests <- request{kind: requestStop}:
		default:
		}
		select {
		case e.feedback <- feedbackMessage{kind: feedbackStop}:
		default:
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-e.exited:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: agent %d (%s) after %s", ErrWorkerLeak, e.ID, e.Name, timeout)
	}
}
