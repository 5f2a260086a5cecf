package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// SQLiteStore keeps runs in one SQLite database. Snapshots are stored as one
// JSON matrix per generation.
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

	if strings.TrimSpace(s.path) == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	dsn := filepath.Clean(s.path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("create tables: %w", err)
	}

	s.db = db
	return nil
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

func (s *SQLiteStore) Save(ctx context.Context, run *Run) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}
	prepare(run)
	m := run.Metadata

	states, err := json.Marshal(m.States)
	if err != nil {
		return "", err
	}
	params, err := json.Marshal(m.Params)
	if err != nil {
		return "", err
	}
	metrics, err := json.Marshal(m.Metrics)
	if err != nil {
		return "", err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, kind, title, created_at, seed, generations, width, height,
			topology, neighbors, wrapping, states, params, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Kind, m.Title, m.Timestamp.UTC().Format(timeFormat), m.Seed, m.Generations,
		m.Width, m.Height, m.Topology, m.Neighbors, m.Wrapping, string(states), string(params), string(metrics))
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", m.ID, err)
	}

	censusStmt, err := tx.PrepareContext(ctx, `INSERT INTO census (run_id, generation, state, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer censusStmt.Close()
	for state, series := range run.Census {
		for gen, v := range series {
			if _, err := censusStmt.ExecContext(ctx, m.ID, gen, state, v); err != nil {
				return "", fmt.Errorf("insert census: %w", err)
			}
		}
	}

	frameStmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshots (run_id, generation, cells) VALUES (?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer frameStmt.Close()
	for gen, frame := range run.Snapshots {
		cells, err := json.Marshal(frame)
		if err != nil {
			return "", err
		}
		if _, err := frameStmt.ExecContext(ctx, m.ID, gen, string(cells)); err != nil {
			return "", fmt.Errorf("insert snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return m.ID, nil
}

const selectRun = `
	SELECT id, kind, title, created_at, seed, generations, width, height,
		topology, neighbors, wrapping, states, params, metrics
	FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunMetadata, error) {
	var (
		m                       RunMetadata
		created                 string
		states, params, metrics string
	)
	if err := row.Scan(&m.ID, &m.Kind, &m.Title, &created, &m.Seed, &m.Generations, &m.Width, &m.Height,
		&m.Topology, &m.Neighbors, &m.Wrapping, &states, &params, &metrics); err != nil {
		return RunMetadata{}, err
	}
	ts, err := time.Parse(timeFormat, created)
	if err != nil {
		return RunMetadata{}, fmt.Errorf("parse created_at of run %s: %w", m.ID, err)
	}
	m.Timestamp = ts
	if err := json.Unmarshal([]byte(states), &m.States); err != nil {
		return RunMetadata{}, fmt.Errorf("decode states of run %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(params), &m.Params); err != nil {
		return RunMetadata{}, fmt.Errorf("decode params of run %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(metrics), &m.Metrics); err != nil {
		return RunMetadata{}, fmt.Errorf("decode metrics of run %s: %w", m.ID, err)
	}
	return m, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]RunMetadata, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectRun+` ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		m, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, m)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*RunMetadata, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	m, err := scanRun(db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &m, nil
}

func (s *SQLiteStore) LoadCensus(ctx context.Context, id string) (map[string][]float64, error) {
	if _, err := s.Load(ctx, id); err != nil {
		return nil, err
	}
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT state, count FROM census WHERE run_id = ? ORDER BY state, generation`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	census := make(map[string][]float64)
	for rows.Next() {
		var (
			state string
			count float64
		)
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		census[state] = append(census[state], count)
	}
	return census, rows.Err()
}

func (s *SQLiteStore) LoadSnapshots(ctx context.Context, id string) ([][][]string, error) {
	if _, err := s.Load(ctx, id); err != nil {
		return nil, err
	}
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT cells FROM snapshots WHERE run_id = ? ORDER BY generation`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	frames := make([][][]string, 0)
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		var frame [][]string
		if err := json.Unmarshal([]byte(cells), &frame); err != nil {
			return nil, fmt.Errorf("decode snapshot of run %s: %w", id, err)
		}
		frames = append(frames, frame)
	}
	return frames, rows.Err()
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at TEXT NOT NULL,
			seed INTEGER NOT NULL,
			generations INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			topology TEXT NOT NULL,
			neighbors INTEGER NOT NULL,
			wrapping INTEGER NOT NULL,
			states TEXT NOT NULL,
			params TEXT NOT NULL,
			metrics TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS census (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			generation INTEGER NOT NULL,
			state TEXT NOT NULL,
			count REAL NOT NULL,
			PRIMARY KEY (run_id, generation, state)
		);
		CREATE TABLE IF NOT EXISTS snapshots (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			generation INTEGER NOT NULL,
			cells TEXT NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}

var _ Store = (*SQLiteStore)(nil)
