// Package config loads songsnap settings from an optional YAML file, a .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutput   = "songsnap_from_spotify.csv"
	DefaultPack     = "Playlist Import"
	DefaultMarket   = "US"
	DefaultTitleCap = 5
	DefaultTimezone = "America/Chicago"
	DefaultTable    = "songsnap_scores"
	DefaultDBPath   = "./data/leaderboard.db"

	DriverSQLite = "sqlite"
	DriverREST   = "rest"
)

var ErrMissingCredentials = errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set")

type Config struct {
	Playlist    string `yaml:"playlist"`
	Output      string `yaml:"output" validate:"required"`
	Pack        string `yaml:"pack" validate:"required"`
	MaxTracks   int    `yaml:"max_tracks" validate:"gte=0"`
	Market      string `yaml:"market" validate:"len=2,alpha"`
	Seed        uint64 `yaml:"seed"`
	CleanTitles bool   `yaml:"clean_titles"`

	// IncludeSpotifyURL adds the spotify_url column. Defaults to true.
	IncludeSpotifyURL *bool `yaml:"include_spotify_url"`

	Credentials struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
	} `yaml:"credentials"`

	Enrich struct {
		AudioFeatures bool `yaml:"audio_features"`
		Genres        bool `yaml:"genres"`
	} `yaml:"enrich"`

	Riddle struct {
		TitleCap int `yaml:"title_cap" validate:"gte=3,lte=5"`
	} `yaml:"riddle"`

	Choices struct {
		Distractors int `yaml:"distractors" validate:"gte=1,lte=10"`
	} `yaml:"choices"`

	// Dataset is the path or URL the game commands read rows from.
	Dataset  string `yaml:"dataset" validate:"required"`
	Timezone string `yaml:"timezone" validate:"required"`

	Leaderboard struct {
		Driver string `yaml:"driver" validate:"oneof=sqlite rest"`
		Path   string `yaml:"path"`
		URL    string `yaml:"url" validate:"omitempty,url"`
		APIKey string `yaml:"api_key"`
		Table  string `yaml:"table" validate:"required"`
	} `yaml:"leaderboard"`
}

// Load builds the configuration. Values from configPath (optional, may be "") are
// overridden by the environment, after .env has been loaded into it.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

// LoadConfig reads a YAML config file without applying defaults. Secrets may reference
// environment variables as ${NAME}.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.Credentials.ClientID = os.ExpandEnv(config.Credentials.ClientID)
	config.Credentials.ClientSecret = os.ExpandEnv(config.Credentials.ClientSecret)
	config.Leaderboard.APIKey = os.ExpandEnv(config.Leaderboard.APIKey)
	config.Leaderboard.URL = os.ExpandEnv(config.Leaderboard.URL)

	return config, nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString(&c.Credentials.ClientID, "SPOTIFY_CLIENT_ID")
	setString(&c.Credentials.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	setString(&c.Playlist, "SONGSNAP_PLAYLIST")
	setString(&c.Output, "SONGSNAP_OUTPUT")
	setString(&c.Pack, "SONGSNAP_PACK")
	setString(&c.Dataset, "SONGSNAP_DATASET")
	setString(&c.Leaderboard.URL, "SUPABASE_URL")
	setString(&c.Leaderboard.APIKey, "SUPABASE_ANON_KEY")
	setString(&c.Leaderboard.Table, "SUPABASE_TABLE")

	if v := os.Getenv("SONGSNAP_MAX_TRACKS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid SONGSNAP_MAX_TRACKS %q: %w", v, err)
		}
		c.MaxTracks = n
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Pack == "" {
		c.Pack = DefaultPack
	}
	if c.Market == "" {
		c.Market = DefaultMarket
	}
	if c.IncludeSpotifyURL == nil {
		include := true
		c.IncludeSpotifyURL = &include
	}
	if c.Riddle.TitleCap == 0 {
		c.Riddle.TitleCap = DefaultTitleCap
	}
	if c.Choices.Distractors == 0 {
		c.Choices.Distractors = 3
	}
	if c.Dataset == "" {
		c.Dataset = c.Output
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Leaderboard.Driver == "" {
		c.Leaderboard.Driver = DriverSQLite
		if c.Leaderboard.URL != "" {
			c.Leaderboard.Driver = DriverREST
		}
	}
	if c.Leaderboard.Path == "" {
		c.Leaderboard.Path = DefaultDBPath
	}
	if c.Leaderboard.Table == "" {
		c.Leaderboard.Table = DefaultTable
	}
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Leaderboard.Driver == DriverREST && (c.Leaderboard.URL == "" || c.Leaderboard.APIKey == "") {
		return errors.New("invalid config: the rest leaderboard needs SUPABASE_URL and SUPABASE_ANON_KEY")
	}
	return nil
}

// ValidateBuild checks what a dataset build needs on top of Validate.
func (c *Config) ValidateBuild() error {
	if c.Credentials.ClientID == "" || c.Credentials.ClientSecret == "" {
		return ErrMissingCredentials
	}
	if strings.TrimSpace(c.Playlist) == "" {
		return errors.New("invalid config: a playlist URL or id is required")
	}
	return c.Validate()
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
