package core

import "errors"

var (
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrUnknownAgent    = errors.New("unknown agent")
	ErrWorkerLeak      = errors.New("agent worker did not exit")
	ErrWorkerFailed    = errors.New("agent worker failed")
	ErrExecutorStopped = errors.New("agent executor stopped")
)
