package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"

	"songsnap/internal/leaderboard"
	"songsnap/internal/scoring"
)

func leaderboardCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "Read or update the daily leaderboard",
		Subcommands: []*cli.Command{
			{
				Name:  "top",
				Usage: "Show the best scores for a day",
				Flags: []cli.Flag{
					dateFlag(),
					&cli.IntFlag{Name: "limit", Value: leaderboard.DefaultLimit, Usage: "rows to show"},
					dbFlag(),
				},
				Action: func(c *cli.Context) error {
					date, err := st.date(c)
					if err != nil {
						return err
					}
					store, err := st.openStore(c)
					if err != nil {
						return err
					}
					defer store.Close()

					entries, err := store.Top(c.Context, date, c.Int("limit"))
					if err != nil {
						return err
					}

					w := c.App.Writer
					if len(entries) == 0 {
						fmt.Fprintf(w, "No scores for %s yet\n", date)
						return nil
					}
					fmt.Fprintf(w, "Leaderboard for %s\n", date)
					for i, e := range entries {
						fmt.Fprintf(w, "%2d. %-32s %6d  streak %d  %.1fs\n",
							i+1, e.Username, e.Score, e.Streak, float64(e.ElapsedMS)/1000)
					}
					return nil
				},
			},
			{
				Name:  "submit",
				Usage: "Record a score",
				Flags: []cli.Flag{
					dateFlag(),
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}},
					&cli.IntFlag{Name: "score", Required: true},
					&cli.IntFlag{Name: "streak"},
					&cli.IntFlag{Name: "guesses"},
					&cli.IntFlag{Name: "reveal"},
					&cli.Int64Flag{Name: "elapsed-ms"},
					dbFlag(),
				},
				Action: func(c *cli.Context) error {
					date, err := st.date(c)
					if err != nil {
						return err
					}

					username := c.String("username")
					if username == "" {
						if err := huh.NewInput().Title("Username").Value(&username).Run(); err != nil {
							return err
						}
					}

					store, err := st.openStore(c)
					if err != nil {
						return err
					}
					defer store.Close()

					entry := leaderboard.Entry{
						Date:        date,
						Username:    username,
						Score:       c.Int("score"),
						Streak:      c.Int("streak"),
						Guesses:     c.Int("guesses"),
						RevealLevel: c.Int("reveal"),
						ElapsedMS:   c.Int64("elapsed-ms"),
					}
					if err := store.Submit(c.Context, entry); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Submitted %d for %s on %s\n", entry.Score, username, date)
					return nil
				},
			},
		},
	}
}

func (st *state) date(c *cli.Context) (string, error) {
	if date := c.String("date"); date != "" {
		if _, err := time.Parse(scoring.DateLayout, date); err != nil {
			return "", fmt.Errorf("invalid date %q: %w", date, err)
		}
		return date, nil
	}
	loc, err := st.cfg.Location()
	if err != nil {
		return "", err
	}
	return scoring.DailyDate(time.Now(), loc), nil
}
