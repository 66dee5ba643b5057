package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"songsnap/internal/models"
)

const (
	ColumnSpotifyURL = "spotify_url"

	sheetName = "Sheet1"
)

// RequiredColumns is the fixed column set every dataset carries, in output order.
var RequiredColumns = []string{
	"id", "title", "artist", "emoji", "choices_json", "answer_idx",
	"preview_1s_url", "preview_3s_url", "preview_5s_url", "context_hint",
	"facts_json", "pack", "year", "tv_movie_ref",
}

type WriteOptions struct {
	// OmitSpotifyURL drops the trailing spotify_url column.
	OmitSpotifyURL bool
}

// Columns returns the header written for the given options.
func (o WriteOptions) Columns() []string {
	cols := append([]string(nil), RequiredColumns...)
	if !o.OmitSpotifyURL {
		cols = append(cols, ColumnSpotifyURL)
	}
	return cols
}

// WriteFile replaces path with the serialized rows. Rows go to a temporary file in the
// same directory first, so an existing dataset is either fully replaced or left untouched.
// A .xlsx extension writes a workbook, anything else CSV.
func WriteFile(path string, rows []models.Row, opts WriteOptions) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".songsnap-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	write := WriteCSV
	if isXLSX(path) {
		write = WriteXLSX
	}
	if err := write(tmp, rows, opts); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func WriteCSV(w io.Writer, rows []models.Row, opts WriteOptions) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(opts.Columns()); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, row := range rows {
		record, err := toRecord(row, opts)
		if err != nil {
			return err
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing row %s: %w", row.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, rows []models.Row, opts WriteOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	writeRow := func(n int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, n)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return sw.SetRow(cell, cells)
	}

	if err := writeRow(1, opts.Columns()); err != nil {
		return fmt.Errorf("error writing sheet header: %w", err)
	}
	for i, row := range rows {
		record, err := toRecord(row, opts)
		if err != nil {
			return err
		}
		if err := writeRow(i+2, record); err != nil {
			return fmt.Errorf("error writing row %s: %w", row.ID, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	return f.Write(w)
}

func toRecord(row models.Row, opts WriteOptions) ([]string, error) {
	choicesJSON, err := EncodeList(row.Choices)
	if err != nil {
		return nil, fmt.Errorf("failed to encode choices for %s: %w", row.ID, err)
	}
	factsJSON, err := EncodeList(row.Facts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode facts for %s: %w", row.ID, err)
	}

	year := ""
	if row.Year != nil {
		year = strconv.Itoa(*row.Year)
	}

	rec := []string{
		row.ID,
		row.Title,
		row.Artist,
		row.Emoji,
		choicesJSON,
		strconv.Itoa(row.AnswerIdx),
		row.Preview1s,
		row.Preview3s,
		row.Preview5s,
		row.ContextHint,
		factsJSON,
		row.Pack,
		year,
		row.TVMovieRef,
	}
	if !opts.OmitSpotifyURL {
		rec = append(rec, row.SpotifyURL)
	}
	return rec, nil
}

// EncodeList serializes a list of strings as compact JSON. Non-ASCII text and HTML
// characters are kept as-is.
func EncodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
