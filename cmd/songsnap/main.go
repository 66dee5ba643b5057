package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"songsnap/internal/config"
	"songsnap/internal/httpclient"
	"songsnap/internal/leaderboard"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// state is filled in by the Before hook and shared by every command.
type state struct {
	cfg    *config.Config
	logger *zap.Logger
	retry  *retryablehttp.Client
}

func newApp() *cli.App {
	st := &state{}

	return &cli.App{
		Name:  "songsnap",
		Usage: "Build emoji music trivia datasets from Spotify playlists and play the daily round.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"SONGSNAP_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "emit production JSON logs",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			logger, err := newLogger(c.Bool("log-json"))
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			st.cfg = cfg
			st.logger = logger
			st.retry = httpclient.New(logger)
			return nil
		},
		After: func(c *cli.Context) error {
			if st.logger != nil {
				_ = st.logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			buildCommand(st),
			dailyCommand(st),
			scoreCommand(),
			leaderboardCommand(st),
		},
	}
}

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func (st *state) openStore(c *cli.Context) (leaderboard.Store, error) {
	lb := st.cfg.Leaderboard
	if c.IsSet("db") {
		lb.Driver = config.DriverSQLite
		lb.Path = c.String("db")
	}

	switch lb.Driver {
	case config.DriverREST:
		if lb.URL == "" || lb.APIKey == "" {
			return nil, fmt.Errorf("the rest leaderboard needs SUPABASE_URL and SUPABASE_ANON_KEY")
		}
		return leaderboard.NewRESTStore(lb.URL, lb.APIKey, lb.Table, st.retry), nil
	default:
		return leaderboard.NewSQLiteStore(lb.Path)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "db",
		Usage: "use a local SQLite leaderboard at this path",
	}
}

func dateFlag() cli.Flag {
	return &cli.StringFlag{Name: "date", Usage: "day to use (YYYY-MM-DD, default today)"}
}
