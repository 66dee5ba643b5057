// Package embed builds the Spotify player shown after a round.
package embed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const DefaultHeight = 152

var trackIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`spotify\.com/track/([A-Za-z0-9]+)`),
	regexp.MustCompile(`spotify:track:([A-Za-z0-9]+)`),
}

// TrackID extracts the track id from an open.spotify.com link or a spotify:track: URI.
func TrackID(link string) (string, bool) {
	for _, re := range trackIDPatterns {
		if m := re.FindStringSubmatch(link); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// PlayerURL is the embeddable player page for a track.
func PlayerURL(trackID string) string {
	return fmt.Sprintf("https://open.spotify.com/embed/track/%s?utm_source=generator", trackID)
}

// IFrame renders the player iframe markup. A height <= 0 uses DefaultHeight.
func IFrame(trackID string, height int) (string, error) {
	if height <= 0 {
		height = DefaultHeight
	}

	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Iframe,
		Data:     "iframe",
		Attr: []html.Attribute{
			{Key: "style", Val: "border-radius:12px"},
			{Key: "src", Val: PlayerURL(trackID)},
			{Key: "width", Val: "100%"},
			{Key: "height", Val: strconv.Itoa(height)},
			{Key: "frameborder", Val: "0"},
			{Key: "allow", Val: "autoplay; clipboard-write; encrypted-media; fullscreen; picture-in-picture"},
			{Key: "loading", Val: "lazy"},
		},
	}

	var b strings.Builder
	if err := html.Render(&b, node); err != nil {
		return "", err
	}
	return b.String(), nil
}
