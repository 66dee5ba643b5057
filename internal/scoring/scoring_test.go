package scoring

import (
	"testing"
	"time"
)

func intPtr(v int) *int {
	return &v
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		name    string
		correct bool
		reveal  int
		elapsed time.Duration
		want    int
	}{
		{name: "wrong answer", correct: false, reveal: 0, elapsed: time.Second, want: 50},
		{name: "instant perfect", correct: true, reveal: 0, elapsed: 0, want: 1200},
		{name: "perfect after 4.9s", correct: true, reveal: 0, elapsed: 4900 * time.Millisecond, want: 1200},
		{name: "perfect after 5s", correct: true, reveal: 0, elapsed: 5 * time.Second, want: 1150},
		{name: "one reveal", correct: true, reveal: 1, elapsed: 12 * time.Second, want: 750},
		{name: "full reveal", correct: true, reveal: 2, elapsed: 3 * time.Second, want: 700},
		{name: "floor", correct: true, reveal: 2, elapsed: 10 * time.Minute, want: 50},
		{name: "reveal clamped", correct: true, reveal: 9, elapsed: 0, want: 700},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RoundScore(tc.correct, tc.reveal, tc.elapsed); got != tc.want {
				t.Fatalf("RoundScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestYearScore(t *testing.T) {
	tests := []struct {
		name      string
		truth     *int
		guess     *int
		wantScore int
		wantDiff  int
	}{
		{name: "exact", truth: intPtr(1991), guess: intPtr(1991), wantScore: 500, wantDiff: 0},
		{name: "three early", truth: intPtr(1991), guess: intPtr(1988), wantScore: 350, wantDiff: 3},
		{name: "three late", truth: intPtr(1991), guess: intPtr(1994), wantScore: 350, wantDiff: 3},
		{name: "way off", truth: intPtr(1960), guess: intPtr(2020), wantScore: 0, wantDiff: 60},
		{name: "unknown truth", truth: nil, guess: intPtr(2000), wantScore: 500, wantDiff: 0},
		{name: "unknown guess", truth: intPtr(2000), guess: nil, wantScore: 500, wantDiff: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, diff := YearScore(tc.truth, tc.guess)
			if score != tc.wantScore || diff != tc.wantDiff {
				t.Fatalf("YearScore = (%d, %d), want (%d, %d)", score, diff, tc.wantScore, tc.wantDiff)
			}
		})
	}
}

func TestDailyDateUsesLocation(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skipf("zoneinfo unavailable: %v", err)
	}

	// 03:00 UTC is still the previous evening in Chicago.
	now := time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC)
	if got := DailyDate(now, chicago); got != "2024-03-14" {
		t.Fatalf("DailyDate = %s, want 2024-03-14", got)
	}
	if got := DailyDate(now, nil); got != "2024-03-15" {
		t.Fatalf("DailyDate with nil location = %s, want 2024-03-15", got)
	}
}

func TestDailyIndex(t *testing.T) {
	for _, n := range []int{1, 7, 100, 1234} {
		a := DailyIndex("2024-03-14", n)
		if a < 0 || a >= n {
			t.Fatalf("DailyIndex out of range for n=%d: %d", n, a)
		}
		if b := DailyIndex("2024-03-14", n); a != b {
			t.Fatalf("DailyIndex not deterministic: %d != %d", a, b)
		}
	}

	if got := DailyIndex("2024-03-14", 0); got != 0 {
		t.Fatalf("expected 0 for an empty dataset, got %d", got)
	}

	seen := make(map[int]bool)
	day := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		seen[DailyIndex(DailyDate(day.AddDate(0, 0, i), time.UTC), 50)] = true
	}
	if len(seen) < 10 {
		t.Fatalf("expected daily picks to vary across a month, got %d distinct rows", len(seen))
	}
}
