package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/samorobo/twitter-trends-bot/internal/metrics"
	"github.com/samorobo/twitter-trends-bot/pkg/httpclient"
	"github.com/samorobo/twitter-trends-bot/pkg/useragent"
)

const (
	// DefaultBaseURL is the Google Custom Search endpoint.
	DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

	// DefaultPlaceholder is returned whenever a lookup fails at any layer.
	DefaultPlaceholder = "https://via.placeholder.com/300x200?text=Nigeria+News"

	// DefaultQuerySuffix biases image results toward regional news coverage.
	DefaultQuerySuffix = " Nigeria news"
)

// Config sets up an image Resolver.
type Config struct {
	APIKey         string
	SearchEngineID string
	// BaseURL overrides the search endpoint, mainly for tests.
	BaseURL string
	// QuerySuffix is appended to every topic before searching.
	QuerySuffix string
	// Placeholder is the URL substituted on any failure.
	Placeholder string
	Timeout     time.Duration
	UAPool      *useragent.Pool
	Logger      *slog.Logger
}

// Resolver finds one representative image URL per topic via the Google Custom
// Search API. Lookups never fail from the caller's perspective; every error
// path collapses into the placeholder URL.
type Resolver struct {
	cfg    Config
	client *httpclient.Client
	logger *slog.Logger
}

// NewResolver creates a Resolver from the given configuration.
func NewResolver(cfg Config) (*Resolver, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.QuerySuffix == "" {
		cfg.QuerySuffix = DefaultQuerySuffix
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}

	return &Resolver{cfg: cfg, client: client, logger: logger}, nil
}

// searchResponse mirrors the part of the Custom Search payload we read.
type searchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// Resolve returns an image URL for the topic. On any failure (network, HTTP
// status, malformed payload, empty results) it logs the cause and returns the
// placeholder; it never returns an empty string or an error.
func (r *Resolver) Resolve(ctx context.Context, topic string) string {
	link, err := r.search(ctx, topic)
	if err != nil {
		metrics.RecordImageLookup(false)
		r.logger.Warn("image lookup failed, using placeholder", "topic", topic, "err", err)
		return r.cfg.Placeholder
	}
	metrics.RecordImageLookup(true)
	return link
}

func (r *Resolver) search(ctx context.Context, topic string) (string, error) {
	params := url.Values{}
	params.Set("q", topic+r.cfg.QuerySuffix)
	params.Set("num", "1")
	params.Set("safe", "medium")
	params.Set("searchType", "image")
	params.Set("imgSize", "medium")
	params.Set("key", r.cfg.APIKey)
	params.Set("cx", r.cfg.SearchEngineID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UAPool.GetSequential())
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	if len(parsed.Items) == 0 || parsed.Items[0].Link == "" {
		return "", fmt.Errorf("no image results for %q", topic)
	}

	return parsed.Items[0].Link, nil
}
