package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"braces.dev/errtrace"
)

// DefaultCratesIOURL is the crates.io registry API root.
const DefaultCratesIOURL = "https://crates.io/api/v1"

// CrateSummary is one crates.io search hit.
type CrateSummary struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	MaxVersion  string `json:"max_version" yaml:"max_version"`
	Downloads   int    `json:"downloads" yaml:"downloads"`
}

// CratesIO searches the crates.io registry.
type CratesIO struct {
	BaseURL   string
	client    *http.Client
	userAgent string
}

// NewCratesIO returns a registry client whose requests give up after timeout.
func NewCratesIO(baseURL string, timeout time.Duration, userAgent string) *CratesIO {
	if baseURL == "" {
		baseURL = DefaultCratesIOURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &CratesIO{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Search returns up to limit crates matching query, in registry order.
func (c *CratesIO) Search(ctx context.Context, query string, limit int) ([]CrateSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	u := fmt.Sprintf("%s/crates?q=%s&per_page=%s",
		c.BaseURL, url.QueryEscape(query), strconv.Itoa(limit))
	slog.Debug("searching crates.io", "query", query, "limit", limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errtrace.Wrap(&FetchError{URL: u, Err: err})
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errtrace.Wrap(&FetchError{URL: u, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errtrace.Wrap(&FetchError{
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("crates.io: %s", strings.TrimSpace(string(body))),
		})
	}

	var payload struct {
		Crates []CrateSummary `json:"crates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errtrace.Wrap(&FetchError{URL: u, Err: fmt.Errorf("decoding crates.io response: %w", err)})
	}
	if payload.Crates == nil {
		payload.Crates = []CrateSummary{}
	}
	return payload.Crates, nil
}
