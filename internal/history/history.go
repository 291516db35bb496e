// Package history handles SQLite persistence for the duel log.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/avoronkov/pairrank/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Log wraps SQLite access for recorded duels. The log is supplemental: the
// theme documents stay authoritative for ratings.
type Log struct {
	db *sql.DB
}

// Open opens or creates the history database and applies migrations.
func Open(path string) (*Log, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	log := &Log{db: db}
	if err := log.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return log, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

func (l *Log) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS duels (
			id INTEGER PRIMARY KEY,
			theme TEXT NOT NULL,
			winner TEXT NOT NULL,
			loser TEXT NOT NULL,
			winner_delta REAL NOT NULL,
			loser_delta REAL NOT NULL,
			played_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_duels_theme_played_at ON duels(theme, played_at);`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append stores one duel outcome.
func (l *Log) Append(ctx context.Context, theme string, out model.Outcome) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO duels (theme, winner, loser, winner_delta, loser_delta, played_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		theme,
		out.Winner,
		out.Loser,
		out.WinnerDelta,
		out.LoserDelta,
		out.PlayedAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListRecent returns the most recent duels for a theme, newest first.
func (l *Log) ListRecent(ctx context.Context, theme string, limit int) ([]model.Match, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, theme, winner, loser, winner_delta, loser_delta, played_at
		 FROM duels
		 WHERE theme = ?
		 ORDER BY played_at DESC, id DESC
		 LIMIT ?`,
		theme, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		var playedAt string
		if err := rows.Scan(&m.ID, &m.Theme, &m.Winner, &m.Loser, &m.WinnerDelta, &m.LoserDelta, &playedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, playedAt)
		if err != nil {
			return nil, err
		}
		m.PlayedAt = parsed
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// Count returns the number of logged duels for a theme.
func (l *Log) Count(ctx context.Context, theme string) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM duels WHERE theme = ?`, theme).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
