package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/zeu5/grid-agents/core"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	// one writer at a time, parallel runs share the store
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// SaveQTable replaces every stored entry of the named table.
func (s *SQLiteStore) SaveQTable(ctx context.Context, name string, table map[string]float64) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM qtables WHERE policy = ?`, name); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO qtables (policy, entry, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for k, v := range table {
		if _, err := stmt.ExecContext(ctx, name, k, v); err != nil {
			return fmt.Errorf("save q table %s entry %s: %w", name, k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadQTable(ctx context.Context, name string) (map[string]float64, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT entry, value FROM qtables WHERE policy = ?`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := make(map[string]float64)
	for rows.Next() {
		var entry string
		var value float64
		if err := rows.Scan(&entry, &value); err != nil {
			return nil, err
		}
		table[entry] = value
	}
	return table, rows.Err()
}

func (s *SQLiteStore) SaveGenome(ctx context.Context, name string, genome map[string]string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(genome)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO genomes (policy, payload)
		VALUES (?, ?)
		ON CONFLICT(policy) DO UPDATE SET
			payload = excluded.payload
	`, name, payload)
	return err
}

func (s *SQLiteStore) LoadGenome(ctx context.Context, name string) (map[string]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM genomes WHERE policy = ?`, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	genome := make(map[string]string)
	if err := json.Unmarshal(payload, &genome); err != nil {
		return nil, fmt.Errorf("decode genome %s: %w", name, err)
	}
	return genome, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, name, aborted)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			name = excluded.name,
			aborted = excluded.aborted
	`, run.RunID, run.Name, run.Aborted)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM episodes WHERE run_id = ?`, run.RunID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO episodes (run_id, episode, total_reward, discounted_reward, steps, success)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range run.Episodes {
		if _, err := stmt.ExecContext(ctx, run.RunID, e.Episode, e.TotalReward, e.DiscountedReward, e.Steps, e.Success); err != nil {
			return fmt.Errorf("save episode %d of run %s: %w", e.Episode, run.RunID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunRecord{}, false, err
	}

	run := RunRecord{RunID: runID}
	err = db.QueryRowContext(ctx, `SELECT name, aborted FROM runs WHERE run_id = ?`, runID).Scan(&run.Name, &run.Aborted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT episode, total_reward, discounted_reward, steps, success
		FROM episodes WHERE run_id = ? ORDER BY episode
	`, runID)
	if err != nil {
		return RunRecord{}, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var e core.EpisodeRecord
		if err := rows.Scan(&e.Episode, &e.TotalReward, &e.DiscountedReward, &e.Steps, &e.Success); err != nil {
			return RunRecord{}, false, err
		}
		run.Episodes = append(run.Episodes, e)
	}
	return run, true, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS qtables (
			policy TEXT NOT NULL,
			entry TEXT NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (policy, entry)
		);
		CREATE TABLE IF NOT EXISTS genomes (
			policy TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			aborted INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS episodes (
			run_id TEXT NOT NULL,
			episode INTEGER NOT NULL,
			total_reward REAL NOT NULL,
			discounted_reward REAL NOT NULL,
			steps INTEGER NOT NULL,
			success INTEGER NOT NULL,
			PRIMARY KEY (run_id, episode)
		);
	`)
	return err
}
