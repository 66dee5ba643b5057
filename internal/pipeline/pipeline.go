// Package pipeline turns a playlist into a written trivia dataset.
package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"songsnap/internal/catalog"
	"songsnap/internal/choices"
	"songsnap/internal/config"
	"songsnap/internal/dataset"
	"songsnap/internal/models"
	"songsnap/internal/riddle"
)

type TrackSource interface {
	FetchPlaylist(ctx context.Context, ref string) ([]models.Track, error)
}

type Enricher interface {
	Enrich(ctx context.Context, tracks []models.Track, opts catalog.EnrichOptions)
}

type Options struct {
	Playlist       string
	Output         string
	Pack           string
	MaxTracks      int
	Seed           uint64
	TitleCap       int
	Distractors    int
	Enrich         catalog.EnrichOptions
	OmitSpotifyURL bool
}

// OptionsFromConfig maps the loaded configuration onto build options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Playlist:    cfg.Playlist,
		Output:      cfg.Output,
		Pack:        cfg.Pack,
		MaxTracks:   cfg.MaxTracks,
		Seed:        cfg.Seed,
		TitleCap:    cfg.Riddle.TitleCap,
		Distractors: cfg.Choices.Distractors,
		Enrich: catalog.EnrichOptions{
			AudioFeatures: cfg.Enrich.AudioFeatures,
			Genres:        cfg.Enrich.Genres,
		},
		OmitSpotifyURL: cfg.IncludeSpotifyURL != nil && !*cfg.IncludeSpotifyURL,
	}
}

type Result struct {
	RunID  string
	Output string
	Rows   []models.Row
}

type Builder struct {
	source   TrackSource
	enricher Enricher
	logger   *zap.Logger
	opts     Options
}

// NewBuilder wires a build. enricher may be nil when no enrichment is configured.
func NewBuilder(source TrackSource, enricher Enricher, logger *zap.Logger, opts Options) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{source: source, enricher: enricher, logger: logger, opts: opts}
}

// Run fetches the playlist, derives one row per track and writes the dataset. Nothing is
// written unless every row was built.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := b.logger.With(zap.String("run_id", runID))
	start := time.Now()

	logger.Info("fetching playlist", zap.String("playlist", b.opts.Playlist))
	tracks, err := b.source.FetchPlaylist(ctx, b.opts.Playlist)
	if err != nil {
		return nil, err
	}

	if b.opts.MaxTracks > 0 && len(tracks) > b.opts.MaxTracks {
		logger.Info("capping tracks", zap.Int("fetched", len(tracks)), zap.Int("max_tracks", b.opts.MaxTracks))
		tracks = tracks[:b.opts.MaxTracks]
	}

	if b.enricher != nil && (b.opts.Enrich.AudioFeatures || b.opts.Enrich.Genres) {
		logger.Info("enriching tracks",
			zap.Bool("audio_features", b.opts.Enrich.AudioFeatures),
			zap.Bool("genres", b.opts.Enrich.Genres))
		b.enricher.Enrich(ctx, tracks, b.opts.Enrich)
	}

	rows := BuildRows(tracks, b.opts, newRand(b.opts.Seed))

	opts := dataset.WriteOptions{OmitSpotifyURL: b.opts.OmitSpotifyURL}
	if err := dataset.WriteFile(b.opts.Output, rows, opts); err != nil {
		return nil, fmt.Errorf("failed to write dataset: %w", err)
	}

	logger.Info("dataset written",
		zap.String("output", b.opts.Output),
		zap.Int("rows", len(rows)),
		zap.Duration("took", time.Since(start)))

	return &Result{RunID: runID, Output: b.opts.Output, Rows: rows}, nil
}

// BuildRows derives one row per track, in track order. Riddle fallbacks and choice
// shuffles draw from rng.
func BuildRows(tracks []models.Track, opts Options, rng *rand.Rand) []models.Row {
	synth := riddle.New(opts.TitleCap, rng)
	picker := choices.NewBuilder(opts.Distractors, rng)

	rows := make([]models.Row, 0, len(tracks))
	for i := range tracks {
		t := &tracks[i]
		emoji := synth.Riddle(t.Title, t.Genres, t.Features)
		set := picker.Build(tracks, i)
		rows = append(rows, dataset.Assemble(i, t, emoji, set, opts.Pack))
	}
	return rows
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
