package models

import (
	"strconv"
	"strings"
)

type Artist struct {
	ID   string
	Name string
}

// AudioFeatures holds the acoustic descriptors the catalog reports for a track.
// Danceability, Energy, Valence and Acousticness are in [0, 1]; Tempo is in BPM.
type AudioFeatures struct {
	Danceability float64
	Energy       float64
	Valence      float64
	Acousticness float64
	Tempo        float64
}

type Track struct {
	ID          string
	Title       string
	Artists     []Artist
	Album       string
	ReleaseDate string
	Year        *int
	PreviewURL  string
	Popularity  int
	ExternalURL string

	// Filled by enrichment, may be nil/empty.
	Features *AudioFeatures
	Genres   []string
}

// ArtistNames returns the credited artist names joined with ", ".
func (t *Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// YearFromDate parses the year from the first four characters of a release date
// ("1989-06-23", "1989-06", "1989"). Anything else yields nil.
func YearFromDate(releaseDate string) *int {
	if len(releaseDate) < 4 {
		return nil
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return nil
	}
	return &year
}

// Row is one display-ready dataset record.
type Row struct {
	ID          string
	Title       string
	Artist      string
	Emoji       string
	Choices     []string
	AnswerIdx   int
	Preview1s   string
	Preview3s   string
	Preview5s   string
	ContextHint string
	Facts       []string
	Pack        string
	Year        *int
	TVMovieRef  string
	SpotifyURL  string
}

// Preview returns the preview URL unlocked at the given reveal level (0: 1s, 1: 3s, 2: 5s),
// falling back to the first non-empty preview when that level has none.
func (r *Row) Preview(level int) string {
	levels := []string{r.Preview1s, r.Preview3s, r.Preview5s}
	if level >= 0 && level < len(levels) && strings.TrimSpace(levels[level]) != "" {
		return levels[level]
	}
	for _, u := range levels {
		if strings.TrimSpace(u) != "" {
			return u
		}
	}
	return ""
}

// Answer returns the correct choice label, or "" when the answer index is out of range.
func (r *Row) Answer() string {
	if r.AnswerIdx < 0 || r.AnswerIdx >= len(r.Choices) {
		return ""
	}
	return r.Choices[r.AnswerIdx]
}
