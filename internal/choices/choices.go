package choices

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"songsnap/internal/models"
)

const DefaultDistractors = 3

// Set is one multiple-choice answer list and the index of its correct label.
type Set struct {
	Choices   []string
	AnswerIdx int
}

// Label is the display form of a track used as a choice.
func Label(t *models.Track) string {
	return fmt.Sprintf("%s — %s", t.Title, t.ArtistNames())
}

type Builder struct {
	distractors int
	rng         *rand.Rand
}

// NewBuilder returns a Builder drawing k distractors per set. k <= 0 selects the default of 3.
func NewBuilder(k int, rng *rand.Rand) *Builder {
	if k <= 0 {
		k = DefaultDistractors
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Builder{distractors: k, rng: rng}
}

// Build returns up to k+1 distinct labels for tracks[correctIdx], the rest sampled without
// replacement from the other tracks. Labels are compared case-insensitively; a batch with too
// few distinct tracks yields a shorter list.
func (b *Builder) Build(tracks []models.Track, correctIdx int) Set {
	correct := Label(&tracks[correctIdx])

	out := []string{correct}
	seen := map[string]bool{strings.ToLower(correct): true}
	for _, j := range b.rng.Perm(len(tracks)) {
		if len(out) >= b.distractors+1 {
			break
		}
		if j == correctIdx {
			continue
		}
		candidate := Label(&tracks[j])
		key := strings.ToLower(candidate)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, candidate)
	}

	b.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	answer := indexOf(out, correct)
	if answer < 0 {
		answer = b.rng.IntN(len(out))
		out[answer] = correct
	}

	return Set{Choices: out, AnswerIdx: answer}
}

func indexOf(items []string, item string) int {
	for i, v := range items {
		if v == item {
			return i
		}
	}
	return -1
}
