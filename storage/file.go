package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/zeu5/grid-agents/util"
)

// FileStore keeps one JSON file per policy under a directory:
// <name>.qtable.json, <name>.genome.json and runs/<run id>.json.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Init(_ context.Context) error {
	if s.dir == "" {
		return errors.New("file store directory is required")
	}
	return nil
}

func (s *FileStore) qtablePath(name string) string {
	return filepath.Join(s.dir, util.SafeName(name)+".qtable.json")
}

func (s *FileStore) genomePath(name string) string {
	return filepath.Join(s.dir, util.SafeName(name)+".genome.json")
}

func (s *FileStore) runPath(runID string) string {
	return filepath.Join(s.dir, "runs", util.SafeName(runID)+".json")
}

func (s *FileStore) SaveQTable(_ context.Context, name string, table map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := util.SaveJson(s.qtablePath(name), table); err != nil {
		return fmt.Errorf("save q table %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) LoadQTable(_ context.Context, name string) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := make(map[string]float64)
	if _, err := util.ReadJson(s.qtablePath(name), &table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *FileStore) SaveGenome(_ context.Context, name string, genome map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := util.SaveJson(s.genomePath(name), genome); err != nil {
		return fmt.Errorf("save genome %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) LoadGenome(_ context.Context, name string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	genome := make(map[string]string)
	if _, err := util.ReadJson(s.genomePath(name), &genome); err != nil {
		return nil, err
	}
	return genome, nil
}

func (s *FileStore) SaveRun(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return util.SaveJson(s.runPath(run.RunID), run)
}

func (s *FileStore) GetRun(_ context.Context, runID string) (RunRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var run RunRecord
	found, err := util.ReadJson(s.runPath(runID), &run)
	return run, found, err
}

func (s *FileStore) Close() error {
	return nil
}
