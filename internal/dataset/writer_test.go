package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"songsnap/internal/models"
)

func sampleRows() []models.Row {
	return []models.Row{
		{
			ID:          "sp_0000",
			Title:       "Get Lucky",
			Artist:      "Daft Punk, Pharrell Williams",
			Emoji:       "🍀🕺",
			Choices:     []string{"Get Lucky — Daft Punk, Pharrell Williams", "Happy — Pharrell Williams", "Don't Stop <Me> Now — Queen & Co"},
			AnswerIdx:   0,
			Preview1s:   "https://p.scdn.co/a",
			Preview3s:   "https://p.scdn.co/a",
			Preview5s:   "https://p.scdn.co/a",
			ContextHint: "From 'Random Access Memories' (2013)",
			Facts:       []string{"From album: Random Access Memories", "Release year: 2013"},
			Pack:        "Playlist Import",
			Year:        intPtr(2013),
			SpotifyURL:  "https://open.spotify.com/track/69kOkLUCkxIZYexIgSG8rq",
		},
		{
			ID:          "sp_0001",
			Title:       "Untitled, \"quoted\"",
			Artist:      "",
			Emoji:       "🎵✨",
			Choices:     []string{"Untitled, \"quoted\" — "},
			ContextHint: "Album info not available",
			Facts:       []string{"Single release"},
			Pack:        "Playlist Import",
		},
	}
}

func TestEncodeListRoundTrip(t *testing.T) {
	lists := [][]string{
		{"Get Lucky — Daft Punk", "Café del Mar — Energy 52", "Rock & Roll <3"},
		{},
		{"single"},
	}

	for _, list := range lists {
		encoded, err := EncodeList(list)
		if err != nil {
			t.Fatalf("EncodeList failed: %v", err)
		}
		if strings.Contains(encoded, "\\u") {
			t.Fatalf("expected unescaped output, got %s", encoded)
		}
		if got := DecodeList(encoded); !reflect.DeepEqual(got, list) {
			t.Fatalf("round trip mismatch: got %v, want %v", got, list)
		}
	}

	if encoded, _ := EncodeList(nil); encoded != "[]" {
		t.Fatalf("expected nil list to encode as [], got %s", encoded)
	}
}

func TestWriteCSVColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows(), WriteOptions{}); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to read back CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	wantHeader := "id,title,artist,emoji,choices_json,answer_idx,preview_1s_url,preview_3s_url,preview_5s_url,context_hint,facts_json,pack,year,tv_movie_ref,spotify_url"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Fatalf("header = %s, want %s", got, wantHeader)
	}

	second := records[2]
	if second[12] != "" {
		t.Fatalf("expected empty year cell, got %q", second[12])
	}
	if second[6] != "" || second[7] != "" || second[8] != "" {
		t.Fatalf("expected empty preview cells, got %v", second[6:9])
	}
	if records[1][12] != "2013" || records[1][5] != "0" {
		t.Fatalf("unexpected year/answer cells: %v", records[1])
	}
}

func TestWriteCSVOmitSpotifyURL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows(), WriteOptions{OmitSpotifyURL: true}); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to read back CSV: %v", err)
	}
	if len(records[0]) != len(RequiredColumns) {
		t.Fatalf("expected %d columns, got %d", len(RequiredColumns), len(records[0]))
	}
}

func TestWriteFileOverwritesAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "songsnap.csv")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stale content that is much longer than nothing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	rows := sampleRows()
	if err := WriteFile(path, rows, WriteOptions{}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := Load(t.Context(), nil, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertRowsEqual(t, loaded, rows)

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the dataset in the output dir, found %d entries", len(entries))
	}
}

func TestWriteFileXLSXRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songsnap.xlsx")

	rows := sampleRows()
	if err := WriteFile(path, rows, WriteOptions{}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := Load(t.Context(), nil, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertRowsEqual(t, loaded, rows)
}

func TestWriteFileLeavesExistingFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "songsnap.csv")
	if err := os.WriteFile(path, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	// A directory squatting on the target makes the final rename fail.
	blocked := filepath.Join(dir, "blocked.csv")
	if err := os.MkdirAll(filepath.Join(blocked, "child"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(blocked, sampleRows(), WriteOptions{}); err == nil {
		t.Fatal("expected an error when the target is a non-empty directory")
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "previous" {
		t.Fatalf("unrelated file changed: %q %v", data, err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".songsnap-") {
			t.Fatalf("temp file %s left behind", e.Name())
		}
	}
}

func TestLoadMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("id,title,artist\nsp_0000,a,b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(t.Context(), nil, path)
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !strings.Contains(err.Error(), "choices_json") {
		t.Fatalf("expected the missing column names in the error, got %v", err)
	}
}

func assertRowsEqual(t *testing.T, got, want []models.Row) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.Choices == nil {
			w.Choices = []string{}
		}
		if w.Facts == nil {
			w.Facts = []string{}
		}
		if !reflect.DeepEqual(g, w) {
			t.Fatalf("row %d mismatch:\n got %+v\nwant %+v", i, g, w)
		}
	}
}
