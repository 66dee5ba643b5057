package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"songsnap/internal/dataset"
	"songsnap/internal/embed"
	"songsnap/internal/leaderboard"
	"songsnap/internal/models"
	"songsnap/internal/scoring"
)

func dailyCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "daily",
		Usage: "Show today's riddle from a dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dataset", Aliases: []string{"d"}, Usage: "dataset path or URL"},
			dateFlag(),
			&cli.BoolFlag{Name: "embed", Usage: "print the player iframe for the answer"},
			&cli.BoolFlag{Name: "play", Usage: "answer the riddle interactively"},
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "submit the round score under this name"},
			dbFlag(),
		},
		Action: func(c *cli.Context) error {
			source := st.cfg.Dataset
			if c.IsSet("dataset") {
				source = c.String("dataset")
			}

			rows, err := dataset.Load(c.Context, st.retry, source)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return errors.New("dataset has no rows")
			}

			date, err := st.date(c)
			if err != nil {
				return err
			}

			row := rows[scoring.DailyIndex(date, len(rows))]
			st.logger.Debug("daily pick", zap.String("date", date), zap.String("row", row.ID))

			w := c.App.Writer
			printRiddle(w, date, &row)

			if c.Bool("play") {
				if err := play(c, st, date, &row); err != nil {
					return err
				}
			}

			if c.Bool("embed") {
				if id, ok := embed.TrackID(row.SpotifyURL); ok {
					markup, err := embed.IFrame(id, embed.DefaultHeight)
					if err != nil {
						return err
					}
					fmt.Fprintln(w, markup)
				}
			}
			return nil
		},
	}
}

func printRiddle(w io.Writer, date string, row *models.Row) {
	fmt.Fprintf(w, "Daily riddle for %s (%s)\n\n", date, row.Pack)
	fmt.Fprintf(w, "  %s\n\n", row.Emoji)
	fmt.Fprintf(w, "Hint: %s\n", row.ContextHint)
	for i, choice := range row.Choices {
		fmt.Fprintf(w, "  %d. %s\n", i+1, choice)
	}
	if preview := row.Preview(0); preview != "" {
		fmt.Fprintf(w, "Preview: %s\n", preview)
	}
}

func play(c *cli.Context, st *state, date string, row *models.Row) error {
	w := c.App.Writer
	start := time.Now()

	reveal := 0
	if row.Preview(0) != "" {
		if err := huh.NewSelect[int]().
			Title("Reveal level").
			Options(
				huh.NewOption("Emoji only", 0),
				huh.NewOption("3s preview", 1),
				huh.NewOption("5s preview", 2),
			).
			Value(&reveal).
			Run(); err != nil {
			return err
		}
		if reveal > 0 {
			fmt.Fprintf(w, "Preview: %s\n", row.Preview(reveal))
		}
	}

	options := make([]huh.Option[int], len(row.Choices))
	for i, choice := range row.Choices {
		options[i] = huh.NewOption(choice, i)
	}
	guess := -1
	if err := huh.NewSelect[int]().Title("Which song is it?").Options(options...).Value(&guess).Run(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	correct := guess == row.AnswerIdx
	score := scoring.RoundScore(correct, reveal, elapsed)
	if correct {
		fmt.Fprintf(w, "Correct! +%d\n", score)
	} else {
		fmt.Fprintf(w, "Not quite, it was %s. +%d\n", row.Answer(), score)
	}
	for _, fact := range row.Facts {
		fmt.Fprintf(w, "  - %s\n", fact)
	}

	username := c.String("username")
	if username == "" {
		return nil
	}

	store, err := st.openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	streak := 0
	if correct {
		streak = 1
	}
	entry := leaderboard.Entry{
		Date:        date,
		Username:    username,
		Score:       score,
		Streak:      streak,
		Guesses:     1,
		RevealLevel: reveal,
		ElapsedMS:   elapsed.Milliseconds(),
	}
	if err := store.Submit(c.Context, entry); err != nil {
		return err
	}
	fmt.Fprintf(w, "Submitted %d for %s\n", score, date)
	return nil
}
