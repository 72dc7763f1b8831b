package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/zetronik/tv-movies-parser/internal/config"
)

func gzipBody(t *testing.T, lines string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(lines)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func newExportClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.TMDB.ExportBaseURL = baseURL
	return NewClient(&cfg, nil)
}

func TestExportDay(t *testing.T) {
	now := time.Date(2026, time.March, 1, 4, 30, 0, 0, time.UTC)
	day := ExportDay(now)
	if day.Year() != 2026 || day.Month() != time.February || day.Day() != 28 {
		t.Fatalf("unexpected export day: %v", day)
	}
	if got := exportFileName(day); got != "movie_ids_02_28_2026.json.gz" {
		t.Fatalf("unexpected file name: %s", got)
	}
}

func TestDailyIDsDecodesExport(t *testing.T) {
	body := gzipBody(t, `{"id":603,"original_title":"The Matrix","popularity":50.1}
{"id":497,"original_title":"The Green Mile","popularity":40.2}
not json at all
{"id":0}
{"id":278}`)

	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		_, _ = w.Write(body)
	}))
	defer server.Close()

	client := newExportClient(t, server.URL)
	day := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	ids, err := client.DailyIDs(context.Background(), day)
	if err != nil {
		t.Fatalf("DailyIDs: %v", err)
	}
	if requested != "/movie_ids_08_30_2026.json.gz" {
		t.Fatalf("unexpected request path: %s", requested)
	}
	want := []int64{603, 497, 278}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("got ids %v, want %v", ids, want)
	}
}

func TestDailyIDsRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newExportClient(t, server.URL)
	if _, err := client.DailyIDs(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error for 404 export")
	}
}

func TestNewWorkSet(t *testing.T) {
	upstream := []int64{1, 2, 3, 4, 5}
	local := map[int64]struct{}{2: {}, 4: {}}

	got := NewWorkSet(upstream, local, 0)
	if !reflect.DeepEqual(got, []int64{1, 3, 5}) {
		t.Fatalf("uncapped: got %v", got)
	}

	got = NewWorkSet(upstream, local, 2)
	if !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Fatalf("capped: got %v", got)
	}

	if got := NewWorkSet(nil, local, 10); got != nil {
		t.Fatalf("expected nil for empty upstream, got %v", got)
	}
}
