// Package leaderboard stores finished games and serves ranked top-score
// queries. The default backend is a local SQLite database so scores
// survive server restarts without any external service.
package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one finished game on the leaderboard.
type Entry struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	RulesName  string    `json:"rules_name"`
	Score      int       `json:"score"`
	BestTile   int       `json:"best_tile"`
	Victory    bool      `json:"victory"`
	TotalMoves int       `json:"total_moves"`
	FinishedAt time.Time `json:"finished_at"`
}

// Recorder persists finished games and answers top-score queries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Top(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// SQLiteStore is a Recorder backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS leaderboard (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	rules_name TEXT NOT NULL,
	score INTEGER NOT NULL,
	best_tile INTEGER NOT NULL,
	victory INTEGER NOT NULL,
	total_moves INTEGER NOT NULL,
	finished_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard(score DESC);
`

// NewSQLiteStore opens (creating if needed) the leaderboard database at
// the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("leaderboard database path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create leaderboard schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record inserts one finished game. A missing entry ID is filled in.
func (s *SQLiteStore) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leaderboard (id, session_id, rules_name, score, best_tile, victory, total_moves, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SessionID, entry.RulesName, entry.Score, entry.BestTile,
		entry.Victory, entry.TotalMoves, entry.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert leaderboard entry: %w", err)
	}
	return nil
}

// Top returns the highest-scoring finished games, best first. Ties are
// broken by fewer moves, then by earlier finish.
func (s *SQLiteStore) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, rules_name, score, best_tile, victory, total_moves, finished_at
		 FROM leaderboard
		 ORDER BY score DESC, total_moves ASC, finished_at ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.RulesName, &e.Score, &e.BestTile,
			&e.Victory, &e.TotalMoves, &e.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard rows: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
