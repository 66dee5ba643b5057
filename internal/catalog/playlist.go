package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"songsnap/internal/models"
)

const pageLimit = 100

var titleNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s-\s.*\b(remaster|mix|radio edit|live|mono|stereo|feat\.?|ft\.|version).*`),
	regexp.MustCompile(`(?i)\s[(\[][^)\]]*\b(remaster|mix|radio edit|live|mono|stereo|feat\.?|ft\.|version)[^)\]]*[)\]]`),
}

// ParsePlaylistID extracts the playlist id from a share URL, a spotify: URI or a bare id.
// It returns "" when nothing usable is found.
func ParsePlaylistID(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "spotify:") {
		return ref[strings.LastIndex(ref, ":")+1:]
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	switch {
	case len(parts) == 0:
		return ""
	case len(parts) >= 2 && parts[0] == "playlist":
		return parts[1]
	default:
		return parts[len(parts)-1]
	}
}

// FetchPlaylist returns every catalog track in the playlist, in playlist order. Local
// files, episodes and tracks without an id are skipped.
func (c *Client) FetchPlaylist(ctx context.Context, ref string) ([]models.Track, error) {
	id := ParsePlaylistID(ref)
	if id == "" {
		return nil, fmt.Errorf("%w: invalid playlist reference %q", ErrFetchFailed, ref)
	}

	page, err := c.api.GetPlaylistItems(ctx, spotify.ID(id), spotify.Market(c.market), spotify.Limit(pageLimit))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFetchFailed, id, err)
	}

	var tracks []models.Track
	skipped := 0
	for n := 1; ; n++ {
		for _, item := range page.Items {
			ft := item.Track.Track
			if item.IsLocal || ft == nil || ft.ID == "" {
				skipped++
				continue
			}
			tracks = append(tracks, c.normalizeTrack(ft))
		}
		c.logger.Debug("fetched playlist page", zap.String("playlist", id), zap.Int("page", n), zap.Int("items", len(page.Items)))

		err := c.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrFetchFailed, id, err)
		}
	}

	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}

	c.logger.Info("fetched playlist", zap.String("playlist", id), zap.Int("tracks", len(tracks)), zap.Int("skipped", skipped))
	return tracks, nil
}

func (c *Client) normalizeTrack(ft *spotify.FullTrack) models.Track {
	title := strings.TrimSpace(ft.Name)
	if c.cleanTitles {
		title = CleanTitle(title)
	}

	artists := make([]models.Artist, 0, len(ft.Artists))
	for _, a := range ft.Artists {
		artists = append(artists, models.Artist{ID: string(a.ID), Name: strings.TrimSpace(a.Name)})
	}

	releaseDate := strings.TrimSpace(ft.Album.ReleaseDate)
	return models.Track{
		ID:          string(ft.ID),
		Title:       title,
		Artists:     artists,
		Album:       strings.TrimSpace(ft.Album.Name),
		ReleaseDate: releaseDate,
		Year:        models.YearFromDate(releaseDate),
		PreviewURL:  ft.PreviewURL,
		Popularity:  int(ft.Popularity),
		ExternalURL: ft.ExternalURLs["spotify"],
	}
}

// CleanTitle removes release noise such as "- Remastered 2011" or "(Live)" from a title.
func CleanTitle(title string) string {
	cleaned := title
	for _, re := range titleNoise {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return strings.TrimSpace(title)
	}
	return cleaned
}
