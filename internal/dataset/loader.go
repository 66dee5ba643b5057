package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/xuri/excelize/v2"

	"songsnap/internal/httpclient"
	"songsnap/internal/models"
)

var ErrMissingColumns = errors.New("dataset missing required columns")

// Load reads a dataset from a local path or an http(s) URL. URLs are fetched through
// client; a nil client falls back to a default retrying client.
func Load(ctx context.Context, client *retryablehttp.Client, source string) ([]models.Row, error) {
	data, err := readSource(ctx, client, source)
	if err != nil {
		return nil, err
	}

	var records [][]string
	if isXLSX(strings.SplitN(source, "?", 2)[0]) {
		records, err = readXLSX(data)
	} else {
		records, err = csv.NewReader(bytes.NewReader(data)).ReadAll()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", source, err)
	}

	return ParseRecords(records)
}

// ParseRecords converts a header row plus data rows into dataset rows. The spotify_url
// column is optional; every other column in RequiredColumns must be present.
func ParseRecords(records [][]string) ([]models.Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(RequiredColumns, ", "))
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	rows := make([]models.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		answerIdx, _ := toInt(get("answer_idx"))
		row := models.Row{
			ID:          get("id"),
			Title:       get("title"),
			Artist:      get("artist"),
			Emoji:       get("emoji"),
			Choices:     DecodeList(get("choices_json")),
			AnswerIdx:   answerIdx,
			Preview1s:   get("preview_1s_url"),
			Preview3s:   get("preview_3s_url"),
			Preview5s:   get("preview_5s_url"),
			ContextHint: get("context_hint"),
			Facts:       DecodeList(get("facts_json")),
			Pack:        get("pack"),
			TVMovieRef:  get("tv_movie_ref"),
			SpotifyURL:  get(ColumnSpotifyURL),
		}
		if year, ok := toInt(get("year")); ok {
			row.Year = &year
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DecodeList parses a JSON list cell leniently. Cells that only parse once curly quotes
// and em dashes are replaced are accepted; blank or unparsable cells yield an empty list.
func DecodeList(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return []string{}
	}

	var out []string
	if err := json.Unmarshal([]byte(cell), &out); err == nil && out != nil {
		return out
	}

	normalized := strings.NewReplacer("’", "'", "—", "-").Replace(cell)
	out = nil
	if err := json.Unmarshal([]byte(normalized), &out); err == nil && out != nil {
		return out
	}
	return []string{}
}

func toInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	// Spreadsheet tools like to write years as 1989.0.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

func readSource(ctx context.Context, client *retryablehttp.Client, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}
		return data, nil
	}

	if client == nil {
		client = httpclient.New(nil)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch dataset: status code %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetRows(f.GetSheetName(0))
}
