package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"songsnap/internal/scoring"
)

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "Compute round scores",
		Subcommands: []*cli.Command{
			{
				Name:  "round",
				Usage: "Score a sound-bite round",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "correct", Usage: "the guess was right"},
					&cli.IntFlag{Name: "reveal", Usage: "reveal level reached (0-2)"},
					&cli.DurationFlag{Name: "elapsed", Usage: "time taken to answer"},
				},
				Action: func(c *cli.Context) error {
					score := scoring.RoundScore(c.Bool("correct"), c.Int("reveal"), c.Duration("elapsed"))
					fmt.Fprintln(c.App.Writer, score)
					return nil
				},
			},
			{
				Name:  "year",
				Usage: "Score a release year guess",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "truth", Usage: "actual release year (omit if unknown)"},
					&cli.IntFlag{Name: "guess", Usage: "guessed year (omit if unknown)"},
				},
				Action: func(c *cli.Context) error {
					var truth, guess *int
					if c.IsSet("truth") {
						v := c.Int("truth")
						truth = &v
					}
					if c.IsSet("guess") {
						v := c.Int("guess")
						guess = &v
					}
					score, diff := scoring.YearScore(truth, guess)
					fmt.Fprintf(c.App.Writer, "%d (off by %d)\n", score, diff)
					return nil
				},
			},
		},
	}
}
