package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/urfave/cli/v2"

	"songsnap/internal/catalog"
	"songsnap/internal/pipeline"
)

func buildCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build a trivia dataset from a public playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "playlist", Aliases: []string{"p"}, Usage: "playlist URL, URI or id"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file (.csv or .xlsx)"},
			&cli.StringFlag{Name: "pack", Usage: "pack name stored on every row"},
			&cli.IntFlag{Name: "max-tracks", Usage: "keep at most this many tracks (0 = all)"},
			&cli.Uint64Flag{Name: "seed", Usage: "seed for reproducible choices (0 = random)"},
			&cli.BoolFlag{Name: "clean-titles", Usage: "strip remaster, live and featuring suffixes"},
			&cli.BoolFlag{Name: "audio-features", Usage: "add acoustic glyphs and facts"},
			&cli.BoolFlag{Name: "genres", Usage: "add genre glyphs from artist genres"},
			&cli.BoolFlag{Name: "no-spotify-url", Usage: "omit the spotify_url column"},
			&cli.BoolFlag{Name: "no-spinner", Usage: "disable the progress spinner"},
		},
		Action: func(c *cli.Context) error {
			cfg := st.cfg
			if c.IsSet("playlist") {
				cfg.Playlist = c.String("playlist")
			}
			if c.IsSet("output") {
				cfg.Output = c.String("output")
			}
			if c.IsSet("pack") {
				cfg.Pack = c.String("pack")
			}
			if c.IsSet("max-tracks") {
				cfg.MaxTracks = c.Int("max-tracks")
			}
			if c.IsSet("seed") {
				cfg.Seed = c.Uint64("seed")
			}
			if c.IsSet("clean-titles") {
				cfg.CleanTitles = c.Bool("clean-titles")
			}
			if c.IsSet("audio-features") {
				cfg.Enrich.AudioFeatures = c.Bool("audio-features")
			}
			if c.IsSet("genres") {
				cfg.Enrich.Genres = c.Bool("genres")
			}
			if c.Bool("no-spotify-url") {
				include := false
				cfg.IncludeSpotifyURL = &include
			}
			if err := cfg.ValidateBuild(); err != nil {
				return err
			}

			ctx := c.Context
			client := catalog.NewClient(ctx, catalog.Credentials{
				ClientID:     cfg.Credentials.ClientID,
				ClientSecret: cfg.Credentials.ClientSecret,
			}, st.retry, st.logger, catalog.Options{
				Market:      cfg.Market,
				CleanTitles: cfg.CleanTitles,
			})
			builder := pipeline.NewBuilder(client, client, st.logger, pipeline.OptionsFromConfig(cfg))

			var res *pipeline.Result
			build := func(ctx context.Context) error {
				var err error
				res, err = builder.Run(ctx)
				return err
			}

			var err error
			if c.Bool("no-spinner") {
				err = build(ctx)
			} else {
				err = spinner.New().Title("Building dataset...").Context(ctx).ActionWithErr(build).Run()
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "Wrote %d rows to %s\n", len(res.Rows), res.Output)
			return nil
		},
	}
}
