package catalog

import (
	"context"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"songsnap/internal/models"
)

const (
	audioFeaturesBatch = 100
	artistsBatch       = 50
)

type EnrichOptions struct {
	AudioFeatures bool
	Genres        bool
}

// Enrich attaches audio features and artist genres to tracks in place. Lookups are best
// effort: a failed batch leaves its tracks without the extra metadata.
func (c *Client) Enrich(ctx context.Context, tracks []models.Track, opts EnrichOptions) {
	if opts.AudioFeatures {
		ids := make([]string, 0, len(tracks))
		for _, t := range tracks {
			ids = append(ids, t.ID)
		}
		features := c.AudioFeatures(ctx, ids)
		for i := range tracks {
			if f, ok := features[tracks[i].ID]; ok {
				tracks[i].Features = &f
			}
		}
	}

	if opts.Genres {
		var ids []string
		for _, t := range tracks {
			for _, a := range t.Artists {
				ids = append(ids, a.ID)
			}
		}
		genres := c.ArtistGenres(ctx, ids)
		for i := range tracks {
			tracks[i].Genres = trackGenres(tracks[i].Artists, genres)
		}
	}
}

// AudioFeatures looks up features for ids in batches of 100. Tracks the API has no
// features for are absent from the result.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) map[string]models.AudioFeatures {
	out := make(map[string]models.AudioFeatures, len(ids))
	for n, batch := range batches(ids, audioFeaturesBatch) {
		res, err := c.api.GetAudioFeatures(ctx, batch...)
		if err != nil {
			c.logger.Warn("audio features batch failed", zap.Int("batch", n), zap.Int("size", len(batch)), zap.Error(err))
			continue
		}
		for _, f := range res {
			if f == nil {
				continue
			}
			out[string(f.ID)] = models.AudioFeatures{
				Danceability: float64(f.Danceability),
				Energy:       float64(f.Energy),
				Valence:      float64(f.Valence),
				Acousticness: float64(f.Acousticness),
				Tempo:        float64(f.Tempo),
			}
		}
	}
	return out
}

// ArtistGenres looks up genres for the distinct artist ids in batches of 50.
func (c *Client) ArtistGenres(ctx context.Context, ids []string) map[string][]string {
	out := make(map[string][]string, len(ids))
	for n, batch := range batches(dedupe(ids), artistsBatch) {
		res, err := c.api.GetArtists(ctx, batch...)
		if err != nil {
			c.logger.Warn("artist batch failed", zap.Int("batch", n), zap.Int("size", len(batch)), zap.Error(err))
			continue
		}
		for _, a := range res {
			if a == nil {
				continue
			}
			out[string(a.ID)] = a.Genres
		}
	}
	return out
}

func trackGenres(artists []models.Artist, genres map[string][]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range artists {
		for _, g := range genres[a.ID] {
			if !seen[g] {
				seen[g] = true
				out = append(out, g)
			}
		}
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func batches(ids []string, size int) [][]spotify.ID {
	var out [][]spotify.ID
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batch := make([]spotify.ID, 0, end-start)
		for _, id := range ids[start:end] {
			batch = append(batch, spotify.ID(id))
		}
		out = append(out, batch)
	}
	return out
}
