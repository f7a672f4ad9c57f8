// Package wordfreq builds dictionaries from the wordfreq dataset, which ships
// inside the wordfreq Python wheel as cBpack msgpack files.
package wordfreq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const pypiEndpoint = "https://pypi.org/pypi/wordfreq/json"

// Download describes a wordfreq wheel in the local cache.
type Download struct {
	Version  string
	Path     string
	Filename string
	Cached   bool
}

type pypiFile struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Packagetype string `json:"packagetype"`
}

type pypiRelease struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	URLs []pypiFile `json:"urls"`
}

// Fetcher downloads wordfreq wheels from PyPI.
type Fetcher struct {
	Endpoint string
	HTTP     *http.Client
}

// NewFetcher returns a Fetcher for the public PyPI index.
func NewFetcher() *Fetcher {
	return &Fetcher{Endpoint: pypiEndpoint, HTTP: &http.Client{Timeout: 60 * time.Second}}
}

// Latest makes sure the newest wheel is in cacheDir and returns it.
func (f *Fetcher) Latest(ctx context.Context, cacheDir string) (Download, error) {
	if cacheDir == "" {
		return Download{}, errors.New("cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Download{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	var release pypiRelease
	if err := f.getJSON(ctx, f.Endpoint, &release); err != nil {
		return Download{}, err
	}
	if release.Info.Version == "" {
		return Download{}, errors.New("missing version in pypi response")
	}
	file, ok := pickWheel(release.URLs)
	if !ok {
		return Download{}, errors.New("no suitable wordfreq wheel found")
	}

	dl := Download{Version: release.Info.Version, Filename: file.Filename, Path: filepath.Join(cacheDir, file.Filename)}
	if _, err := os.Stat(dl.Path); err == nil {
		dl.Cached = true
		return dl, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Download{}, fmt.Errorf("failed to stat cached wheel: %w", err)
	}
	if err := f.saveTo(ctx, file.URL, dl.Path); err != nil {
		return Download{}, err
	}
	return dl, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := f.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status for %s: %s", url, resp.Status)
	}
	return resp, nil
}

func (f *Fetcher) getJSON(ctx context.Context, url string, into any) error {
	resp, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("failed to decode pypi response: %w", err)
	}
	return nil
}

// saveTo downloads url into a temp file next to dest and renames it into
// place so a partial download never looks cached.
func (f *Fetcher) saveTo(ctx context.Context, url, dest string) error {
	resp, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "wordfreq-*.whl")
	if err != nil {
		return fmt.Errorf("failed to create temp wheel: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return fmt.Errorf("failed to download wheel: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp wheel: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to move wheel into cache: %w", err)
	}
	return nil
}

func pickWheel(files []pypiFile) (pypiFile, bool) {
	var fallback *pypiFile
	for i := range files {
		if files[i].Packagetype != "bdist_wheel" {
			continue
		}
		if strings.HasSuffix(files[i].Filename, "py3-none-any.whl") {
			return files[i], true
		}
		if fallback == nil {
			fallback = &files[i]
		}
	}
	if fallback == nil {
		return pypiFile{}, false
	}
	return *fallback, true
}
