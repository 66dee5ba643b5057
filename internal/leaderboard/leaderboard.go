// Package leaderboard keeps the best daily score per player, either in a local SQLite
// table or in a hosted PostgREST table.
package leaderboard

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	DefaultLimit      = 25
	MaxUsernameLength = 32
)

var ErrInvalidUsername = errors.New("invalid username")

type Entry struct {
	Date        string `json:"date"`
	Username    string `json:"username"`
	Score       int    `json:"score"`
	Streak      int    `json:"streak"`
	Guesses     int    `json:"guesses"`
	RevealLevel int    `json:"reveal_level"`
	ElapsedMS   int64  `json:"elapsed_ms"`
}

// Store persists entries keyed by (date, username).
type Store interface {
	// Submit inserts the entry or updates the existing one. The stored score never
	// decreases; the other fields take the submitted values.
	Submit(ctx context.Context, e Entry) error
	// Top returns the entries for date ordered by score descending, then elapsed time
	// ascending. A limit <= 0 means DefaultLimit.
	Top(ctx context.Context, date string, limit int) ([]Entry, error)
	Close() error
}

// NormalizeUsername trims whitespace and keeps at most 32 characters.
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrInvalidUsername
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		username = string([]rune(username)[:MaxUsernameLength])
	}
	return username, nil
}

func prepare(e Entry) (Entry, error) {
	name, err := NormalizeUsername(e.Username)
	if err != nil {
		return Entry{}, err
	}
	if strings.TrimSpace(e.Date) == "" {
		return Entry{}, errors.New("entry date is required")
	}
	e.Username = name
	return e, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
