package leaderboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"songsnap/internal/httpclient"
)

const entryColumns = "date,username,score,streak,guesses,reveal_level,elapsed_ms"

// RESTStore talks to a PostgREST endpoint such as a Supabase project.
type RESTStore struct {
	client *resty.Client
	table  string
}

// NewRESTStore targets {baseURL}/rest/v1/{table}, authenticating with apiKey both as the
// apikey header and as a bearer token.
func NewRESTStore(baseURL, apiKey, table string, retry *retryablehttp.Client) *RESTStore {
	if retry == nil {
		retry = httpclient.New(nil)
	}

	client := resty.NewWithClient(httpclient.Standard(retry)).
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/rest/v1").
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")

	return &RESTStore{client: client, table: table}
}

func (s *RESTStore) Submit(ctx context.Context, e Entry) error {
	e, err := prepare(e)
	if err != nil {
		return err
	}

	filter := map[string]string{
		"date":     "eq." + e.Date,
		"username": "eq." + e.Username,
	}

	var existing []Entry
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(filter).
		SetQueryParam("select", "score").
		SetResult(&existing).
		Get("/" + s.table)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("failed to look up existing score: %w", err)
	}

	req := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal")

	if len(existing) > 0 {
		e.Score = max(existing[0].Score, e.Score)
		resp, err = req.SetQueryParams(filter).SetBody(e).Patch("/" + s.table)
	} else {
		resp, err = req.SetBody(e).Post("/" + s.table)
	}
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("failed to submit score: %w", err)
	}
	return nil
}

func (s *RESTStore) Top(ctx context.Context, date string, limit int) ([]Entry, error) {
	var entries []Entry
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": entryColumns,
			"date":   "eq." + date,
			"order":  "score.desc,elapsed_ms.asc",
			"limit":  strconv.Itoa(normalizeLimit(limit)),
		}).
		SetResult(&entries).
		Get("/" + s.table)
	if err := checkResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	return entries, nil
}

func (s *RESTStore) Close() error {
	return nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("status %s: %s", resp.Status(), strings.TrimSpace(resp.String()))
	}
	return nil
}
