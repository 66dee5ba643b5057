package dataset

import (
	"fmt"
	"math"

	"songsnap/internal/choices"
	"songsnap/internal/models"
)

const hintUnavailable = "Album info not available"

// RowID is the positional identifier of the index-th row: sp_0000, sp_0001, ...
func RowID(index int) string {
	return fmt.Sprintf("sp_%04d", index)
}

// Assemble maps an enriched track, its riddle and its choice set to a dataset row.
func Assemble(index int, t *models.Track, riddle string, set choices.Set, pack string) models.Row {
	return models.Row{
		ID:          RowID(index),
		Title:       t.Title,
		Artist:      t.ArtistNames(),
		Emoji:       riddle,
		Choices:     set.Choices,
		AnswerIdx:   set.AnswerIdx,
		Preview1s:   t.PreviewURL,
		Preview3s:   t.PreviewURL,
		Preview5s:   t.PreviewURL,
		ContextHint: ContextHint(t),
		Facts:       Facts(t),
		Pack:        pack,
		Year:        t.Year,
		SpotifyURL:  t.ExternalURL,
	}
}

// Facts lists the trivia lines shown after a round, in a fixed order.
func Facts(t *models.Track) []string {
	facts := make([]string, 0, 7)
	if t.Album != "" {
		facts = append(facts, "From album: "+t.Album)
	} else {
		facts = append(facts, "Single release")
	}
	if t.Year != nil {
		facts = append(facts, fmt.Sprintf("Release year: %d", *t.Year))
	}
	if f := t.Features; f != nil {
		facts = append(facts,
			fmt.Sprintf("Tempo: %d BPM", round(f.Tempo)),
			fmt.Sprintf("Danceability: %d/100", round(f.Danceability*100)),
			fmt.Sprintf("Energy: %d/100", round(f.Energy*100)),
			fmt.Sprintf("Valence: %d/100", round(f.Valence*100)),
		)
	}
	if t.Popularity != 0 {
		facts = append(facts, fmt.Sprintf("Spotify popularity: %d/100", t.Popularity))
	}
	return facts
}

func ContextHint(t *models.Track) string {
	switch {
	case t.Album != "" && t.Year != nil:
		return fmt.Sprintf("From '%s' (%d)", t.Album, *t.Year)
	case t.Album != "":
		return fmt.Sprintf("From '%s'", t.Album)
	case t.Year != nil:
		return fmt.Sprintf("Released in %d", *t.Year)
	default:
		return hintUnavailable
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
