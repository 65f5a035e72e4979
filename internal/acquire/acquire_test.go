// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/movie-tracker/pkg/types"
)

var fakeJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 'p', 'o', 's', 't', 'e', 'r'}

func posterServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.Header.Get("User-Agent"); got != "movie-tracker-test" {
			t.Errorf("User-Agent = %q, want movie-tracker-test", got)
		}
		if strings.HasSuffix(r.URL.Path, "/missing.jpg") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(fakeJPEG)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func urlFunc(base string) URLFunc {
	return func(path, size string) string { return base + "/" + size + path }
}

func testConfig(t *testing.T) types.PosterConfig {
	return types.PosterConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "movie-tracker-test"},
		Dir:        filepath.Join(t.TempDir(), DirName),
		Size:       "w342",
	}
}

func TestAcquirePoster(t *testing.T) {
	var hits atomic.Int32
	srv := posterServer(t, &hits)
	cfg := testConfig(t)
	m := types.Movie{ID: 949, Title: "Heat", PosterPath: "/heat.jpg"}

	var buf bytes.Buffer
	path, skipped, err := AcquirePoster(context.Background(), srv.Client(), m, urlFunc(srv.URL), cfg, &buf)
	if err != nil {
		t.Fatalf("AcquirePoster: %v", err)
	}
	if skipped {
		t.Error("first download reported skipped")
	}
	if path != filepath.Join(cfg.Dir, "949.jpg") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading poster: %v", err)
	}
	if !bytes.Equal(data, fakeJPEG) {
		t.Errorf("poster content = %v, want %v", data, fakeJPEG)
	}
	if !strings.Contains(buf.String(), "downloading: Heat") {
		t.Errorf("output = %q, want downloading line", buf.String())
	}

	// A second run finds the file and makes no request.
	buf.Reset()
	_, skipped, err = AcquirePoster(context.Background(), srv.Client(), m, urlFunc(srv.URL), cfg, &buf)
	if err != nil {
		t.Fatalf("second AcquirePoster: %v", err)
	}
	if !skipped {
		t.Error("second download not skipped")
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestAcquirePosterWithoutPosterPath(t *testing.T) {
	cfg := testConfig(t)
	_, _, err := AcquirePoster(context.Background(), http.DefaultClient, types.Movie{ID: 1}, urlFunc("http://unused"), cfg, &bytes.Buffer{})
	if err != ErrNoPoster {
		t.Fatalf("err = %v, want ErrNoPoster", err)
	}
}

func TestAcquirePosterHTTPErrorLeavesNoFile(t *testing.T) {
	var hits atomic.Int32
	srv := posterServer(t, &hits)
	cfg := testConfig(t)
	m := types.Movie{ID: 7, Title: "Lost", PosterPath: "/missing.jpg"}

	_, _, err := AcquirePoster(context.Background(), srv.Client(), m, urlFunc(srv.URL), cfg, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "HTTP 404") {
		t.Fatalf("err = %v, want HTTP 404", err)
	}
	entries, _ := os.ReadDir(cfg.Dir)
	if len(entries) != 0 {
		t.Errorf("poster dir has %d entries after failure, want 0", len(entries))
	}
}

func TestAcquireBatch(t *testing.T) {
	var hits atomic.Int32
	srv := posterServer(t, &hits)
	cfg := testConfig(t)

	movies := []types.Movie{
		{ID: 1, Title: "One", PosterPath: "/one.jpg"},
		{ID: 2, Title: "No Poster"},
		{ID: 3, Title: "Missing", PosterPath: "/missing.jpg"},
		{ID: 4, Title: "Four", PosterPath: "/four.jpg"},
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(cfg.Dir, 4), fakeJPEG, 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	res := AcquireBatch(context.Background(), srv.Client(), movies, urlFunc(srv.URL), cfg, &buf)

	if res.Downloaded != 1 || res.Skipped != 1 || res.Failed != 2 {
		t.Errorf("result = %+v, want 1 downloaded, 1 skipped, 2 failed", res)
	}
	if res.Total() != 4 || !res.HasFailures() {
		t.Errorf("Total = %d, HasFailures = %v", res.Total(), res.HasFailures())
	}
	if len(res.Paths) != 2 {
		t.Errorf("paths = %v, want 2", res.Paths)
	}
	if !strings.Contains(buf.String(), "Batch summary: 1 downloaded, 1 skipped, 2 failed (total: 4)") {
		t.Errorf("missing summary in output:\n%s", buf.String())
	}
}

func TestAcquireBatchStopsOnCancel(t *testing.T) {
	var hits atomic.Int32
	srv := posterServer(t, &hits)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := AcquireBatch(ctx, srv.Client(), []types.Movie{{ID: 1, Title: "One", PosterPath: "/one.jpg"}},
		urlFunc(srv.URL), testConfig(t), &bytes.Buffer{})
	if res.Total() != 0 {
		t.Errorf("Total = %d after cancel, want 0", res.Total())
	}
	if hits.Load() != 0 {
		t.Errorf("server hits = %d, want 0", hits.Load())
	}
}
