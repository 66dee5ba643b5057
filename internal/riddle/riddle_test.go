package riddle

import (
	"math/rand/v2"
	"testing"

	"songsnap/internal/models"
)

func newTestSynthesizer(titleCap int) *Synthesizer {
	return New(titleCap, rand.New(rand.NewPCG(1, 2)))
}

func TestRiddleFollowsRuleOrderNotWordOrder(t *testing.T) {
	s := newTestSynthesizer(0)

	got := s.FromTitle("Cold Fire Love")
	if want := "❤️🔥❄️"; got != want {
		t.Fatalf("FromTitle = %q, want %q", got, want)
	}
}

func TestRiddleTitleCap(t *testing.T) {
	title := "Love at Night in the Summer Starlight Rain Fire"

	tests := []struct {
		name     string
		titleCap int
		want     string
	}{
		{name: "default cap", titleCap: 0, want: "❤️🌙☀️🌧️🔥"},
		{name: "cap three", titleCap: 3, want: "❤️🌙☀️"},
		{name: "below minimum clamps to three", titleCap: 1, want: "❤️🌙☀️"},
		{name: "above maximum clamps to five", titleCap: 9, want: "❤️🌙☀️🌧️🔥"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := newTestSynthesizer(tc.titleCap).FromTitle(title); got != tc.want {
				t.Fatalf("FromTitle = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRiddleNeverEmpty(t *testing.T) {
	s := newTestSynthesizer(0)

	for _, title := range []string{"", "Xyzzy", "1234", "   "} {
		for i := 0; i < 20; i++ {
			got := s.FromTitle(title)
			if got != "🎵✨" && got != "🎵✨🎧" {
				t.Fatalf("FromTitle(%q) = %q, want a fallback riddle", title, got)
			}
		}
	}
}

func TestRiddleGenrePassCapsAtTwo(t *testing.T) {
	s := newTestSynthesizer(0)

	got := s.Riddle("Xyzzy", []string{"Indie Rock", "jazz", "pop"}, nil)
	if want := "🎸🎷"; got != want {
		t.Fatalf("Riddle = %q, want %q", got, want)
	}
}

func TestRiddleAcousticThresholds(t *testing.T) {
	tests := []struct {
		name     string
		features models.AudioFeatures
		want     string
	}{
		{
			name:     "danceable energetic positive capped at three",
			features: models.AudioFeatures{Danceability: 0.8, Energy: 0.9, Valence: 0.7, Acousticness: 0.7, Tempo: 140},
			want:     "🕺⚡😊",
		},
		{
			name:     "negative acoustic slow",
			features: models.AudioFeatures{Danceability: 0.2, Energy: 0.1, Valence: 0.35, Acousticness: 0.6, Tempo: 80},
			want:     "😢🪕🐢",
		},
		{
			name:     "exact thresholds",
			features: models.AudioFeatures{Danceability: 0.7, Energy: 0.5, Valence: 0.5, Acousticness: 0.1, Tempo: 130},
			want:     "🕺🏃",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			features := tc.features
			got := newTestSynthesizer(0).Riddle("Xyzzy", nil, &features)
			if got != tc.want {
				t.Fatalf("Riddle = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRiddleNeutralFeaturesFallBack(t *testing.T) {
	features := models.AudioFeatures{Danceability: 0.5, Energy: 0.5, Valence: 0.5, Acousticness: 0.1, Tempo: 100}
	got := newTestSynthesizer(0).Riddle("", nil, &features)
	if got != "🎵✨" && got != "🎵✨🎧" {
		t.Fatalf("expected fallback riddle, got %q", got)
	}
}

func TestRiddleDedupesAcrossPassesAndTruncates(t *testing.T) {
	features := models.AudioFeatures{Danceability: 0.9, Energy: 0.9, Valence: 0.9, Tempo: 150}
	got := newTestSynthesizer(0).Riddle(
		"Dance Party at Night in the Summer with Love and Fire",
		[]string{"rock", "hip hop"},
		&features,
	)

	// Title pass: ❤️🌙☀️🔥🕺, genre: 🎸🎤, acoustic: 🕺⚡😊. 🕺 collapses and the total is cut to five.
	if want := "❤️🌙☀️🔥🕺"; got != want {
		t.Fatalf("Riddle = %q, want %q", got, want)
	}
}

func TestTitleRulesOrder(t *testing.T) {
	want := []string{"❤️", "🌙", "☀️", "✨", "🌧️", "🔥"}
	for i, glyph := range want {
		if TitleRules[i].Glyph != glyph {
			t.Fatalf("TitleRules[%d] = %q, want %q", i, TitleRules[i].Glyph, glyph)
		}
	}
	if len(TitleRules) != 23 {
		t.Fatalf("expected 23 title rules, got %d", len(TitleRules))
	}
}

func TestRiddleWordBoundaries(t *testing.T) {
	// Keywords only match whole words: "lovely" is not "love", "daylight" is neither "day" nor "light".
	got := newTestSynthesizer(0).FromTitle("Lovely Daylight")
	if got != "🎵✨" && got != "🎵✨🎧" {
		t.Fatalf("expected fallback riddle for non-matching words, got %q", got)
	}
}
