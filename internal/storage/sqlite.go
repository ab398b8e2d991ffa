// Package storage provides SQLite-based persistence for orb runner progress.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/progress"
	"github.com/vovakirdan/orb-runner/internal/run"
)

// Store manages the SQLite database connection for progress persistence.
type Store struct {
	db *sql.DB
}

// RunEntry is one finished run from the history table.
type RunEntry struct {
	ID        string
	LevelKey  string
	Outcome   string // "completed" or "failed"
	Runes     int
	Crystals  int
	Fragments int
	Score     int
	Bonus     int
	Ticks     int64
	CreatedAt time.Time
}

// Stats aggregates everything the stats screen shows.
type Stats struct {
	Totals     progress.Totals
	Upgrade    progress.Upgrade
	BestScore  int
	RunsCount  int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer; SSH sessions share the store
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS totals (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			attempts INTEGER NOT NULL DEFAULT 0,
			completions INTEGER NOT NULL DEFAULT 0,
			runes INTEGER NOT NULL DEFAULT 0,
			crystals INTEGER NOT NULL DEFAULT 0,
			fragments INTEGER NOT NULL DEFAULT 0
		);
		INSERT OR IGNORE INTO totals (id) VALUES (1);

		CREATE TABLE IF NOT EXISTS level_progress (
			level_key TEXT PRIMARY KEY,
			tier TEXT NOT NULL,
			level_index INTEGER NOT NULL,
			best_runes INTEGER NOT NULL DEFAULT 0,
			best_crystals INTEGER NOT NULL DEFAULT 0,
			best_fragments INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			completions INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			level_key TEXT NOT NULL,
			outcome TEXT NOT NULL,
			runes INTEGER NOT NULL DEFAULT 0,
			crystals INTEGER NOT NULL DEFAULT 0,
			fragments INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			bonus INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level_key);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordAttempt counts one started run.
func (s *Store) RecordAttempt() error {
	if _, err := s.db.Exec("UPDATE totals SET attempts = attempts + 1 WHERE id = 1"); err != nil {
		return fmt.Errorf("storage: cannot record attempt: %w", err)
	}
	return nil
}

// CompleteLevel merges a completed run into the level's best and adds only
// the positive delta above that best to the lifetime totals.
func (s *Store) CompleteLevel(desc level.Descriptor, runes, crystals, fragments, score int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	key := desc.Key()
	prev := progress.LevelBest{Key: key}
	err = tx.QueryRow(
		`SELECT best_runes, best_crystals, best_fragments, best_score, completions
		 FROM level_progress WHERE level_key = ?`,
		key,
	).Scan(&prev.Best.Runes, &prev.Best.Crystals, &prev.Best.Fragments, &prev.BestScore, &prev.Completions)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("storage: cannot read level progress: %w", err)
	}

	next, delta := progress.Merge(prev, progress.Counts{Runes: runes, Crystals: crystals, Fragments: fragments}, score)

	_, err = tx.Exec(
		`INSERT INTO level_progress
		 (level_key, tier, level_index, best_runes, best_crystals, best_fragments, best_score, completions, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(level_key) DO UPDATE SET
			best_runes = excluded.best_runes,
			best_crystals = excluded.best_crystals,
			best_fragments = excluded.best_fragments,
			best_score = excluded.best_score,
			completions = excluded.completions,
			updated_at = CURRENT_TIMESTAMP`,
		key, desc.Tier.String(), desc.Index,
		next.Best.Runes, next.Best.Crystals, next.Best.Fragments, next.BestScore, next.Completions,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save level progress: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE totals SET
			completions = completions + 1,
			runes = runes + ?,
			crystals = crystals + ?,
			fragments = fragments + ?
		 WHERE id = 1`,
		delta.Runes, delta.Crystals, delta.Fragments,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit completion: %w", err)
	}
	return nil
}

// RecordOutcome appends a finished run to the history.
func (s *Store) RecordOutcome(o run.Outcome) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, level_key, outcome, runes, crystals, fragments, score, bonus, ticks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), o.Descriptor.Key(), o.Kind.String(),
		o.Runes, o.Crystals, o.Fragments, o.Score, o.Bonus, int64(o.Ticks),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}
	return nil
}

// Totals returns the lifetime aggregates.
func (s *Store) Totals() (progress.Totals, error) {
	var t progress.Totals
	err := s.db.QueryRow(
		`SELECT attempts, completions, runes, crystals, fragments FROM totals WHERE id = 1`,
	).Scan(&t.Attempts, &t.Completions, &t.Items.Runes, &t.Items.Crystals, &t.Items.Fragments)
	if err != nil {
		return t, fmt.Errorf("storage: cannot query totals: %w", err)
	}
	return t, nil
}

// LevelBests returns every level with a recorded completion, keyed by level key.
func (s *Store) LevelBests() (map[string]progress.LevelBest, error) {
	rows, err := s.db.Query(
		`SELECT level_key, best_runes, best_crystals, best_fragments, best_score, completions
		 FROM level_progress`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level progress: %w", err)
	}
	defer rows.Close()

	bests := make(map[string]progress.LevelBest)
	for rows.Next() {
		var b progress.LevelBest
		if err := rows.Scan(&b.Key, &b.Best.Runes, &b.Best.Crystals, &b.Best.Fragments, &b.BestScore, &b.Completions); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		bests[b.Key] = b
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return bests, nil
}

// RecentRuns returns the latest runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_key, outcome, runes, crystals, fragments, score, bonus, ticks, created_at
		 FROM runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.LevelKey, &e.Outcome, &e.Runes, &e.Crystals, &e.Fragments,
			&e.Score, &e.Bonus, &e.Ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// GetStats retrieves the aggregated statistics.
func (s *Store) GetStats() (*Stats, error) {
	totals, err := s.Totals()
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		Totals:  totals,
		Upgrade: progress.UpgradeFor(totals.Items),
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), MAX(created_at) FROM runs`,
	).Scan(&stats.RunsCount, &stats.BestScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var (
	_ run.ProgressStore   = (*Store)(nil)
	_ run.OutcomeRecorder = (*Store)(nil)
)
