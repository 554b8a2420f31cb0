package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/openpress/factcheck/internal/cache"
	"github.com/openpress/factcheck/internal/model"
	"github.com/openpress/factcheck/internal/worker"
)

const defaultBraveBaseURL = "https://api.search.brave.com/res/v1/web/search"

// BraveBackend queries the Brave Search API
type BraveBackend struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
	userAgent  string
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewBraveBackend creates a Brave search backend. An empty API key yields
// an inert backend that always returns empty responses.
func NewBraveBackend(cfg model.SearchConfig, httpCfg model.HTTPConfig, limiter *worker.Limiter, c cache.Cache) *BraveBackend {
	return &BraveBackend{
		apiKey:     cfg.BraveAPIKey,
		baseURL:    defaultBraveBaseURL,
		maxResults: cfg.MaxResultsPerBackend,
		httpClient: &http.Client{Timeout: httpCfg.Timeout},
		userAgent:  httpCfg.UserAgent,
		limiter:    limiter,
		cache:      c,
		cacheTTL:   cfg.CacheTTL,
	}
}

// Name returns the backend identifier
func (b *BraveBackend) Name() string {
	return "brave"
}

// Configured reports whether an API key is present
func (b *BraveBackend) Configured() bool {
	return b.apiKey != ""
}

// Search queries Brave for the given query. Errors are absorbed into an
// empty response per the backend contract.
func (b *BraveBackend) Search(ctx context.Context, query string) SearchResponse {
	if !b.Configured() || query == "" {
		return emptyResponse(b.Name())
	}

	if cached, ok := b.cachedResults(query); ok {
		return SearchResponse{Results: cached, TotalResults: len(cached), Source: b.Name()}
	}

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx, b.Name()); err != nil {
			return emptyResponse(b.Name())
		}
	}

	results, err := b.doSearch(ctx, query)
	if err != nil {
		return emptyResponse(b.Name())
	}

	b.storeResults(query, results)

	return SearchResponse{
		Results:      results,
		TotalResults: len(results),
		Source:       b.Name(),
	}
}

func (b *BraveBackend) doSearch(ctx context.Context, query string) ([]model.SearchResult, error) {
	endpoint := fmt.Sprintf("%s?q=%s&count=%d", b.baseURL, url.QueryEscape(query), b.count())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)
	req.Header.Set("User-Agent", b.userAgent)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2_000_000))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	results := make([]model.SearchResult, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, model.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Description,
			Source:  b.Name(),
		})
	}
	return results, nil
}

func (b *BraveBackend) count() int {
	if b.maxResults <= 0 {
		return 5
	}
	return b.maxResults
}

func (b *BraveBackend) cachedResults(query string) ([]model.SearchResult, bool) {
	if b.cache == nil || b.cacheTTL <= 0 {
		return nil, false
	}
	data, ok := b.cache.Get(cache.Key(b.Name(), query))
	if !ok {
		return nil, false
	}
	var results []model.SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false
	}
	return results, true
}

func (b *BraveBackend) storeResults(query string, results []model.SearchResult) {
	if b.cache == nil || b.cacheTTL <= 0 {
		return
	}
	if data, err := json.Marshal(results); err == nil {
		_ = b.cache.Set(cache.Key(b.Name(), query), data, b.cacheTTL)
	}
}
