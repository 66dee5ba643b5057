package riddle

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"songsnap/internal/models"
)

const (
	DefaultTitleCap = 5
	minTitleCap     = 3

	genreCap    = 2
	acousticCap = 3
	maxGlyphs   = 5
)

// Rule maps a keyword pattern to a glyph. Rules are evaluated in slice order.
type Rule struct {
	Pattern *regexp.Regexp
	Glyph   string
}

func rule(pattern, glyph string) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Glyph: glyph}
}

// TitleRules are tested against the lower-cased title.
var TitleRules = []Rule{
	rule(`\b(love|heart|romance|kiss)\b`, "❤️"),
	rule(`\b(night|midnight|moon|dark)\b`, "🌙"),
	rule(`\b(day|sun|summer|heat|hot)\b`, "☀️"),
	rule(`\b(star|light|shine|bright)\b`, "✨"),
	rule(`\b(rain|tears|cry|sad)\b`, "🌧️"),
	rule(`\b(fire|burn|flame)\b`, "🔥"),
	rule(`\b(blue)\b`, "🔵"),
	rule(`\b(red)\b`, "🔴"),
	rule(`\b(gold|yellow)\b`, "🟡"),
	rule(`\b(road|drive|car|ride|highway)\b`, "🚗"),
	rule(`\b(city|town)\b`, "🏙️"),
	rule(`\b(ocean|sea|wave|beach)\b`, "🌊"),
	rule(`\b(dance|party|club)\b`, "🕺"),
	rule(`\b(king|queen|royal)\b`, "👑"),
	rule(`\b(phone|call|ring)\b`, "📞"),
	rule(`\b(angel)\b`, "😇"),
	rule(`\b(devil|bad)\b`, "😈"),
	rule(`\b(happy|joy|smile)\b`, "😊"),
	rule(`\b(cry|tears)\b`, "😭"),
	rule(`\b(young|youth)\b`, "🧒"),
	rule(`\b(rocket|space)\b`, "🚀"),
	rule(`\b(river|water)\b`, "🏞️"),
	rule(`\b(snow|winter|cold)\b`, "❄️"),
}

// GenreRules are tested against all genre tags joined into one lower-cased string.
var GenreRules = []Rule{
	rule(`\b(rock|metal|punk|grunge)\b`, "🎸"),
	rule(`\b(hip hop|rap|trap|drill)\b`, "🎤"),
	rule(`\b(country|folk|americana|bluegrass)\b`, "🤠"),
	rule(`\b(jazz|blues|soul|funk)\b`, "🎷"),
	rule(`\b(edm|house|techno|electro|electronic|dance)\b`, "🎛️"),
	rule(`\b(classical|orchestra|piano)\b`, "🎻"),
	rule(`\b(latin|reggaeton|salsa)\b`, "💃"),
	rule(`\b(reggae|dancehall)\b`, "🌴"),
	rule(`\br&b\b`, "💜"),
	rule(`\b(indie|alternative)\b`, "🎧"),
	rule(`\bpop\b`, "🌟"),
}

var fallbackGlyphs = []string{"🎵", "✨", "🎧"}

// Acoustic glyphs and thresholds.
const (
	glyphDanceable = "🕺"
	glyphEnergetic = "⚡"
	glyphPositive  = "😊"
	glyphNegative  = "😢"
	glyphAcoustic  = "🪕"
	glyphFast      = "🏃"
	glyphSlow      = "🐢"

	danceableMin = 0.7
	energeticMin = 0.7
	positiveMin  = 0.65
	negativeMax  = 0.35
	acousticMin  = 0.6
	fastTempoMin = 130
	slowTempoMax = 80
)

// Synthesizer builds emoji riddles. The zero value is not usable; use New.
type Synthesizer struct {
	titleCap int
	rng      *rand.Rand
}

// New returns a Synthesizer collecting at most titleCap glyphs from the title pass.
// titleCap is clamped to [3, 5]; 0 selects the default of 5.
func New(titleCap int, rng *rand.Rand) *Synthesizer {
	switch {
	case titleCap == 0:
		titleCap = DefaultTitleCap
	case titleCap < minTitleCap:
		titleCap = minTitleCap
	case titleCap > maxGlyphs:
		titleCap = maxGlyphs
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Synthesizer{titleCap: titleCap, rng: rng}
}

// Riddle returns the glyph string for a track. genres and features are optional.
func (s *Synthesizer) Riddle(title string, genres []string, features *models.AudioFeatures) string {
	var glyphs []string
	glyphs = append(glyphs, match(TitleRules, strings.ToLower(title), s.titleCap)...)
	if len(genres) > 0 {
		glyphs = append(glyphs, match(GenreRules, strings.ToLower(strings.Join(genres, " ")), genreCap)...)
	}
	if features != nil {
		glyphs = append(glyphs, acoustic(features)...)
	}

	glyphs = dedupe(glyphs)
	if len(glyphs) > maxGlyphs {
		glyphs = glyphs[:maxGlyphs]
	}
	if len(glyphs) == 0 {
		glyphs = fallbackGlyphs[:2+s.rng.IntN(2)]
	}
	return strings.Join(glyphs, "")
}

// FromTitle is the title-only riddle used by the default build.
func (s *Synthesizer) FromTitle(title string) string {
	return s.Riddle(title, nil, nil)
}

func match(rules []Rule, text string, limit int) []string {
	var out []string
	for _, r := range rules {
		if r.Pattern.MatchString(text) {
			out = append(out, r.Glyph)
		}
		if len(out) >= limit {
			break
		}
	}
	return out
}

func acoustic(f *models.AudioFeatures) []string {
	var out []string
	if f.Danceability >= danceableMin {
		out = append(out, glyphDanceable)
	}
	if f.Energy >= energeticMin {
		out = append(out, glyphEnergetic)
	}
	if f.Valence >= positiveMin {
		out = append(out, glyphPositive)
	} else if f.Valence <= negativeMax {
		out = append(out, glyphNegative)
	}
	if f.Acousticness >= acousticMin {
		out = append(out, glyphAcoustic)
	}
	if f.Tempo >= fastTempoMin {
		out = append(out, glyphFast)
	} else if f.Tempo <= slowTempoMax {
		out = append(out, glyphSlow)
	}
	if len(out) > acousticCap {
		out = out[:acousticCap]
	}
	return out
}

func dedupe(glyphs []string) []string {
	seen := make(map[string]bool, len(glyphs))
	out := make([]string, 0, len(glyphs))
	for _, g := range glyphs {
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}
