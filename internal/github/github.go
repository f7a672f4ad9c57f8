// Package github fetches the repository star count shown in the header.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultRepo is the repository whose stars are shown.
const DefaultRepo = "verte-zerg/typermonkey"

const apiBase = "https://api.github.com"

// Client reads public repository metadata.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a Client for the public GitHub API.
func NewClient() *Client {
	return &Client{BaseURL: apiBase, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

type repoResponse struct {
	StargazersCount int `json:"stargazers_count"`
}

// Stars returns the stargazer count of repo ("owner/name").
func (c *Client) Stars(ctx context.Context, repo string) (int, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return 0, fmt.Errorf("invalid repository %q", repo)
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/repos/" + owner + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected github status: %s", resp.Status)
	}
	var payload repoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode github response: %w", err)
	}
	if payload.StargazersCount < 0 {
		return 0, errors.New("negative star count")
	}
	return payload.StargazersCount, nil
}

// FormatStarCount renders n the way the badge shows it: 999, 1k, 1.2k, 12.3k.
// Thousands are rounded to one decimal.
func FormatStarCount(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}
	tenths := (n + 50) / 100
	whole, frac := tenths/10, tenths%10
	if frac == 0 {
		return strconv.Itoa(whole) + "k"
	}
	return fmt.Sprintf("%d.%dk", whole, frac)
}
