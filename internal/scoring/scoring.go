// Package scoring implements round scoring and the deterministic daily pick.
package scoring

import (
	"crypto/sha256"
	"math/big"
	"time"
)

const (
	roundBase        = 1000
	revealPenalty    = 150
	timePenalty      = 50
	timePenaltyChunk = 5 * time.Second
	perfectBonus     = 200
	minRoundScore    = 50

	yearBase    = 500
	yearPenalty = 50

	MaxRevealLevel = 2
	DateLayout     = "2006-01-02"
)

// RoundScore scores a sound-bite round. Each reveal step and every started 5 second chunk
// cost points; answering before any reveal earns a bonus. Wrong answers score 50.
func RoundScore(correct bool, revealLevel int, elapsed time.Duration) int {
	if !correct {
		return minRoundScore
	}
	revealLevel = min(max(revealLevel, 0), MaxRevealLevel)
	elapsed = max(elapsed, 0)

	score := roundBase - revealPenalty*revealLevel - timePenalty*int(elapsed/timePenaltyChunk)
	if revealLevel == 0 {
		score += perfectBonus
	}
	return max(minRoundScore, score)
}

// YearScore scores a release year guess and returns the distance in years. When either
// year is unknown the guess gets full marks.
func YearScore(truth, guess *int) (score, diff int) {
	if truth == nil || guess == nil {
		return yearBase, 0
	}
	diff = *truth - *guess
	if diff < 0 {
		diff = -diff
	}
	return max(0, yearBase-yearPenalty*diff), diff
}

// DailyDate is the calendar date of now in loc, formatted YYYY-MM-DD.
func DailyDate(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// DailyIndex maps a date to a row index in [0, n). Every player sees the same row on
// the same date.
func DailyIndex(date string, n int) int {
	if n <= 0 {
		return 0
	}
	sum := sha256.Sum256([]byte(date))
	seed := new(big.Int).SetBytes(sum[:])
	return int(seed.Mod(seed, big.NewInt(int64(n))).Int64())
}
