package storage

import (
	"context"
	"errors"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	qtables     map[string]map[string]float64
	genomes     map[string]map[string]string
	runs        map[string]RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.qtables = make(map[string]map[string]float64)
	s.genomes = make(map[string]map[string]string)
	s.runs = make(map[string]RunRecord)
	return nil
}

func (s *MemoryStore) check() error {
	if !s.initialized {
		return errors.New("store is not initialized")
	}
	return nil
}

func (s *MemoryStore) SaveQTable(_ context.Context, name string, table map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.qtables[name] = copyQTable(table)
	return nil
}

func (s *MemoryStore) LoadQTable(_ context.Context, name string) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	return copyQTable(s.qtables[name]), nil
}

func (s *MemoryStore) SaveGenome(_ context.Context, name string, genome map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.genomes[name] = copyGenome(genome)
	return nil
}

func (s *MemoryStore) LoadGenome(_ context.Context, name string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	return copyGenome(s.genomes[name]), nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.runs[run.RunID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, runID string) (RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return RunRecord{}, false, err
	}
	run, ok := s.runs[runID]
	return run, ok, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
