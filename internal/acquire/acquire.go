// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads poster images for collection entries into a local
// directory, one <movie-id>.jpg per movie.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/movie-tracker/internal/httputil"
	"github.com/pdiddy/movie-tracker/internal/metrics"
	"github.com/pdiddy/movie-tracker/pkg/types"
)

// DirName is the poster directory under the data directory.
const DirName = "posters"

// ErrNoPoster is returned for movies the provider has no poster for.
var ErrNoPoster = errors.New("movie has no poster")

// URLFunc returns the image URL of a poster path at the given size.
type URLFunc func(path, size string) string

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Paths      []string
}

// Total returns the total number of movies processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any downloads failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Path returns where the poster of movieID is stored under dir.
func Path(dir string, movieID int) string {
	return filepath.Join(dir, strconv.Itoa(movieID)+".jpg")
}

// AcquirePoster downloads the poster of m into cfg.Dir. If the file already
// exists the download is skipped; the skipped return value reports that.
func AcquirePoster(ctx context.Context, client *http.Client, m types.Movie, imageURL URLFunc, cfg types.PosterConfig, w io.Writer) (path string, skipped bool, err error) {
	path = Path(cfg.Dir, m.ID)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "skipped: %s (already downloaded)\n", m.Title)
		return path, true, nil
	}
	if m.PosterPath == "" {
		return "", false, ErrNoPoster
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating directory %s: %w", cfg.Dir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", m.Title)
	if err := downloadFile(ctx, client, imageURL(m.PosterPath, cfg.Size), path, cfg); err != nil {
		return "", false, fmt.Errorf("downloading poster for %d: %w", m.ID, err)
	}
	return path, false, nil
}

// AcquireBatch downloads posters for movies, printing per-item status and
// returning a summary. It continues after individual failures and waits
// cfg.DownloadDelay between consecutive downloads. Cancelling ctx stops the
// batch; the movies not reached are not counted.
func AcquireBatch(ctx context.Context, client *http.Client, movies []types.Movie, imageURL URLFunc, cfg types.PosterConfig, w io.Writer) BatchResult {
	log := zerolog.Ctx(ctx)
	var result BatchResult
	downloaded := false
	for _, m := range movies {
		if ctx.Err() != nil {
			break
		}
		if downloaded && cfg.DownloadDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(cfg.DownloadDelay):
			}
		}

		path, wasSkipped, err := AcquirePoster(ctx, client, m, imageURL, cfg, w)
		downloaded = err == nil && !wasSkipped
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", m.Title, err)
			log.Debug().Err(err).Int("movie_id", m.ID).Msg("poster download failed")
			metrics.PosterDownloadsTotal.WithLabelValues("failed").Inc()
			result.Failed++
			continue
		case wasSkipped:
			metrics.PosterDownloadsTotal.WithLabelValues("skipped").Inc()
			result.Skipped++
		default:
			metrics.PosterDownloadsTotal.WithLabelValues("downloaded").Inc()
			result.Downloaded++
		}
		result.Paths = append(result.Paths, path)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// downloadFile fetches url to destPath through a temporary file in the same
// directory, so a failed download never leaves a partial poster behind.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.PosterConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".poster-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
