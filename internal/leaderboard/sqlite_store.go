package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "leaderboard.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create leaderboard directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			date TEXT NOT NULL,
			username TEXT NOT NULL,
			score INTEGER NOT NULL,
			streak INTEGER NOT NULL DEFAULT 0,
			guesses INTEGER NOT NULL DEFAULT 0,
			reveal_level INTEGER NOT NULL DEFAULT 0,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (date, username)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_date_rank ON scores(date, score DESC, elapsed_ms ASC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Submit(ctx context.Context, e Entry) error {
	e, err := prepare(e)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO scores (date, username, score, streak, guesses, reveal_level, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date, username) DO UPDATE SET
			score = max(scores.score, excluded.score),
			streak = excluded.streak,
			guesses = excluded.guesses,
			reveal_level = excluded.reveal_level,
			elapsed_ms = excluded.elapsed_ms`,
		e.Date, e.Username, e.Score, e.Streak, e.Guesses, e.RevealLevel, e.ElapsedMS,
	)
	if err != nil {
		return fmt.Errorf("failed to submit score: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Top(ctx context.Context, date string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT date, username, score, streak, guesses, reveal_level, elapsed_ms
		 FROM scores
		 WHERE date = ?
		 ORDER BY score DESC, elapsed_ms ASC
		 LIMIT ?`,
		date, normalizeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.Username, &e.Score, &e.Streak, &e.Guesses, &e.RevealLevel, &e.ElapsedMS); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
