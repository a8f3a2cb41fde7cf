// Package store persists answered queries: goal, result, and the extracted
// counterexample graph, one row per query. It exists for pipeline
// diagnostics — the oracle itself never reads it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"hornet/internal/chc"
)

// Record is one archived query outcome.
type Record struct {
	ID       int64
	Goal     string
	Result   string
	Graph    chc.CexGraph
	Duration time.Duration
	Created  time.Time
}

// ResultStore archives query outcomes in SQLite.
type ResultStore struct {
	mu sync.Mutex
	db *sql.DB
}

// Open initializes the archive database at the given path, creating parent
// directories and the schema as needed.
func Open(path string) (*ResultStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal_mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS query_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		goal TEXT NOT NULL,
		result TEXT NOT NULL,
		cex_graph TEXT NOT NULL,
		duration_ns INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &ResultStore{db: db}, nil
}

// Record archives one answered query.
func (s *ResultStore) Record(ctx context.Context, goal string, result chc.CheckResult, graph chc.CexGraph, duration time.Duration) error {
	encoded, err := json.Marshal(graph)
	if err != nil {
		return fmt.Errorf("failed to encode counterexample graph: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO query_results (goal, result, cex_graph, duration_ns, created_at) VALUES (?, ?, ?, ?, ?)",
		goal, result.String(), string(encoded), duration.Nanoseconds(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to archive query result: %w", err)
	}
	return nil
}

// Recent returns the latest n archived records, newest first.
func (s *ResultStore) Recent(ctx context.Context, n int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, goal, result, cex_graph, duration_ns, created_at FROM query_results ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("failed to load query results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			encoded    string
			durationNs int64
			createdAt  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Goal, &rec.Result, &encoded, &durationNs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan query result: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &rec.Graph); err != nil {
			return nil, fmt.Errorf("failed to decode counterexample graph: %w", err)
		}
		rec.Duration = time.Duration(durationNs)
		rec.Created = time.Unix(createdAt, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the database handle.
func (s *ResultStore) Close() error {
	return s.db.Close()
}
