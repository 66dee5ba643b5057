// Package catalog reads playlists and track metadata from the Spotify Web API.
package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"songsnap/internal/httpclient"
)

const DefaultMarket = "US"

var (
	ErrFetchFailed = errors.New("failed to fetch playlist")
	ErrNoTracks    = errors.New("no tracks found")
)

type Credentials struct {
	ClientID     string
	ClientSecret string
}

type Options struct {
	// Market resolves region-locked tracks. Empty means DefaultMarket.
	Market string
	// CleanTitles strips remaster, live and featuring suffixes from track titles.
	CleanTitles bool

	// BaseURL and TokenURL override the Spotify endpoints.
	BaseURL  string
	TokenURL string
}

type Client struct {
	api         *spotify.Client
	logger      *zap.Logger
	market      string
	cleanTitles bool
}

// NewClient authenticates with the client credentials flow. Token and API requests both
// go through retry, so transient failures are retried before they surface.
func NewClient(ctx context.Context, creds Credentials, retry *retryablehttp.Client, logger *zap.Logger, opts Options) *Client {
	if retry == nil {
		retry = httpclient.New(logger)
	}

	tokenURL := spotifyauth.TokenURL
	if opts.TokenURL != "" {
		tokenURL = opts.TokenURL
	}
	config := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpclient.Standard(retry))
	return NewWithHTTPClient(config.Client(ctx), logger, opts)
}

// NewWithHTTPClient wraps an already authorized HTTP client.
func NewWithHTTPClient(hc *http.Client, logger *zap.Logger, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := []spotify.ClientOption{spotify.WithRetry(true)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(opts.BaseURL))
	}

	market := opts.Market
	if market == "" {
		market = DefaultMarket
	}

	return &Client{
		api:         spotify.New(hc, clientOpts...),
		logger:      logger.Named("catalog"),
		market:      market,
		cleanTitles: opts.CleanTitles,
	}
}
