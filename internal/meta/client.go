// Package meta enriches saved content with metadata from Cinemeta, Stremio's
// public metadata addon.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultSources are the endpoints tried in order. The first response that
// carries at least one useful field wins.
var DefaultSources = []string{
	"https://cinemeta-live.strem.io",
	"https://v3-cinemeta.strem.io",
}

// Meta is the best-effort enrichment result. A zero value is a valid result:
// callers must tolerate fully-empty metadata and fall back to the IMDb id as
// the display name.
type Meta struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Poster      string `json:"poster"`
	Background  string `json:"background"`
	Logo        string `json:"logo"`
	ReleaseInfo string `json:"releaseInfo"`
	IMDbRating  Rating `json:"imdbRating"`
}

// Rating is an IMDb rating. Sources disagree on whether it's a JSON string
// or a number, so it accepts both and keeps the textual form.
type Rating string

func (r *Rating) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*r = Rating(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*r = Rating(asNumber.String())
	return nil
}

// DisplayName returns the best available name, falling back to fallback
// (usually the IMDb id) when the sources had nothing.
func (m Meta) DisplayName(fallback string) string {
	if m.Name != "" {
		return m.Name
	}
	if m.Title != "" {
		return m.Title
	}
	return fallback
}

// useful reports whether the response carried anything worth keeping.
// Responses without any of these fields are treated like a miss so the next
// source gets a chance.
func (m Meta) useful() bool {
	return m.Name != "" || m.Title != "" || m.Poster != "" || m.Background != "" || m.Logo != ""
}

// ClientOptions configure a Client.
type ClientOptions struct {
	// BaseURLs are the source endpoints, tried in order.
	// Defaults to DefaultSources.
	BaseURLs []string
	// Timeout is the timeout for a single source request.
	// Default: 5 seconds.
	Timeout time.Duration
}

// DefaultClientOpts are ClientOptions with timeout and sources set.
var DefaultClientOpts = ClientOptions{
	BaseURLs: DefaultSources,
	Timeout:  5 * time.Second,
}

// Client fetches metadata with multi-source fallback. Fetch never returns an
// error: every transport or decode failure just means "try the next source",
// and when all sources are dry the result is simply empty.
type Client struct {
	baseURLs   []string
	httpClient *http.Client
	cache      *InMemoryCache
	logger     *zap.Logger
}

// NewClient creates a Cinemeta client. The cache can be nil to disable
// result caching.
func NewClient(opts ClientOptions, cache *InMemoryCache, logger *zap.Logger) *Client {
	if opts.BaseURLs == nil {
		opts.BaseURLs = DefaultClientOpts.BaseURLs
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultClientOpts.Timeout
	}
	return &Client{
		baseURLs: opts.BaseURLs,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		cache:  cache,
		logger: logger,
	}
}

// Fetch returns best-effort metadata for the content. kind must be "movie"
// or "series"; id is an IMDb id like "tt0468569".
func (c *Client) Fetch(ctx context.Context, kind, id string) Meta {
	cacheKey := kind + ":" + id
	if c.cache != nil {
		if m, ok := c.cache.Get(cacheKey); ok {
			return m
		}
	}

	for _, baseURL := range c.baseURLs {
		m, err := c.fetchFrom(ctx, baseURL, kind, id)
		if err != nil {
			c.logger.Debug("Metadata source failed, trying next",
				zap.String("source", baseURL), zap.String("id", id), zap.Error(err))
			continue
		}
		if !m.useful() {
			continue
		}
		if c.cache != nil {
			c.cache.Set(cacheKey, m)
		}
		return m
	}

	c.logger.Info("No metadata from any source", zap.String("kind", kind), zap.String("id", id))
	return Meta{}
}

func (c *Client) fetchFrom(ctx context.Context, baseURL, kind, id string) (Meta, error) {
	reqURL := fmt.Sprintf("%s/meta/%s/%s.json", baseURL, kind, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Meta{}, fmt.Errorf("couldn't create request: %w", err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return Meta{}, fmt.Errorf("couldn't send request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Meta{}, fmt.Errorf("got status %v", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Meta{}, fmt.Errorf("couldn't read response body: %w", err)
	}
	var wrapper struct {
		Meta Meta `json:"meta"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return Meta{}, fmt.Errorf("couldn't unmarshal response body: %w", err)
	}
	return wrapper.Meta, nil
}
