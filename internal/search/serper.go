package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openpress/factcheck/internal/cache"
	"github.com/openpress/factcheck/internal/model"
	"github.com/openpress/factcheck/internal/worker"
)

const defaultSerperBaseURL = "https://google.serper.dev/search"

// SerperBackend queries the Serper.dev Google Search API
type SerperBackend struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
	userAgent  string
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewSerperBackend creates a Serper search backend. An empty API key
// yields an inert backend that always returns empty responses.
func NewSerperBackend(cfg model.SearchConfig, httpCfg model.HTTPConfig, limiter *worker.Limiter, c cache.Cache) *SerperBackend {
	return &SerperBackend{
		apiKey:     cfg.SerperAPIKey,
		baseURL:    defaultSerperBaseURL,
		maxResults: cfg.MaxResultsPerBackend,
		httpClient: &http.Client{Timeout: httpCfg.Timeout},
		userAgent:  httpCfg.UserAgent,
		limiter:    limiter,
		cache:      c,
		cacheTTL:   cfg.CacheTTL,
	}
}

// Name returns the backend identifier
func (b *SerperBackend) Name() string {
	return "serper"
}

// Configured reports whether an API key is present
func (b *SerperBackend) Configured() bool {
	return b.apiKey != ""
}

// Search queries Serper for the given query. Errors are absorbed into an
// empty response per the backend contract.
func (b *SerperBackend) Search(ctx context.Context, query string) SearchResponse {
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

func (b *SerperBackend) doSearch(ctx context.Context, query string) ([]model.SearchResult, error) {
	num := b.maxResults
	if num <= 0 {
		num = 5
	}

	payload, err := json.Marshal(map[string]interface{}{
		"q":   query,
		"num": num,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", b.apiKey)
	req.Header.Set("User-Agent", b.userAgent)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper search: %w", err)
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
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	results := make([]model.SearchResult, 0, len(parsed.Organic))
	for _, r := range parsed.Organic {
		if r.Link == "" {
			continue
		}
		results = append(results, model.SearchResult{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
			Source:  b.Name(),
		})
	}
	return results, nil
}

func (b *SerperBackend) cachedResults(query string) ([]model.SearchResult, bool) {
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

func (b *SerperBackend) storeResults(query string, results []model.SearchResult) {
	if b.cache == nil || b.cacheTTL <= 0 {
		return
	}
	if data, err := json.Marshal(results); err == nil {
		_ = b.cache.Set(cache.Key(b.Name(), query), data, b.cacheTTL)
	}
}
