// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/wordspot/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Recognized settings keys.
const (
	KeyWordList         = "frequencyWordList"
	KeySortingMode      = "wordSortingMode"
	KeyPauseAware       = "pauseTimeWhenVideoStops"
	KeyGridColumns      = "gridColumns"
	KeyGridRows         = "gridRows"
	KeyClicksToOvercome = "wordClicksToOvercome"
)

// Store wraps SQLite access for settings and word statistics.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS word_stats (
			word TEXT PRIMARY KEY,
			total INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			penalty INTEGER NOT NULL,
			already_noted INTEGER NOT NULL,
			total_response_ms INTEGER NOT NULL,
			avg_response_ms REAL NOT NULL,
			score REAL NOT NULL,
			first_seen TEXT NOT NULL,
			last_seen TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_word_stats_score ON word_stats(score);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveWordStats upserts the stats row for one word.
func (s *Store) SaveWordStats(ctx context.Context, stats model.WordStats) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO word_stats (word, total, correct, incorrect, penalty, already_noted,
			total_response_ms, avg_response_ms, score, first_seen, last_seen)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(word) DO UPDATE SET
			total = excluded.total,
			correct = excluded.correct,
			incorrect = excluded.incorrect,
			penalty = excluded.penalty,
			already_noted = excluded.already_noted,
			total_response_ms = excluded.total_response_ms,
			avg_response_ms = excluded.avg_response_ms,
			score = excluded.score,
			first_seen = excluded.first_seen,
			last_seen = excluded.last_seen`,
		stats.Word,
		stats.Total,
		stats.Correct,
		stats.Incorrect,
		stats.Penalty,
		stats.AlreadyNoted,
		stats.TotalResponseMs,
		stats.AvgResponseMs,
		stats.Score,
		stats.FirstSeen.Format(time.RFC3339Nano),
		stats.LastSeen.Format(time.RFC3339Nano),
	)
	return err
}

// DeleteWordStats removes the stats row for one word.
func (s *Store) DeleteWordStats(ctx context.Context, word string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM word_stats WHERE word = ?`, word)
	return err
}

// DeleteAllWordStats clears the word statistics table.
func (s *Store) DeleteAllWordStats(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM word_stats`)
	return err
}

// ListWordStats returns every stored word's statistics, hardest first.
func (s *Store) ListWordStats(ctx context.Context) ([]model.WordStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, total, correct, incorrect, penalty, already_noted,
			total_response_ms, avg_response_ms, score, first_seen, last_seen
		 FROM word_stats
		 ORDER BY score DESC, word ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WordStats
	for rows.Next() {
		var stats model.WordStats
		var firstSeen, lastSeen string
		if err := rows.Scan(
			&stats.Word,
			&stats.Total,
			&stats.Correct,
			&stats.Incorrect,
			&stats.Penalty,
			&stats.AlreadyNoted,
			&stats.TotalResponseMs,
			&stats.AvgResponseMs,
			&stats.Score,
			&firstSeen,
			&lastSeen,
		); err != nil {
			return nil, err
		}
		stats.FirstSeen = parseTime(firstSeen)
		stats.LastSeen = parseTime(lastSeen)
		result = append(result, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetSetting returns the stored value for key, if any.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting upserts one settings row.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// SaveWordList stores the active frequency-ranked word list as JSON.
func (s *Store) SaveWordList(ctx context.Context, list []string) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode word list: %w", err)
	}
	return s.SetSetting(ctx, KeyWordList, string(data))
}

// LoadWordList returns the stored word list, or nil when none is saved.
func (s *Store) LoadWordList(ctx context.Context) ([]string, error) {
	raw, ok, err := s.GetSetting(ctx, KeyWordList)
	if err != nil || !ok {
		return nil, err
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("failed to decode word list: %w", err)
	}
	return list, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
