package search

import (
	"context"
	"sync"

	"github.com/openpress/factcheck/internal/model"
)

// CombinedSource tags result sets merged from multiple backends
const CombinedSource = "combined"

// Aggregator fans a single query out to all configured backends and
// merges the results
type Aggregator struct {
	backends []Backend
}

// NewAggregator creates an aggregator over the given backends.
// Registration order determines merge order.
func NewAggregator(backends ...Backend) *Aggregator {
	return &Aggregator{backends: backends}
}

// SearchAll queries every configured backend concurrently, waits for all
// of them, concatenates results in registration order, and deduplicates
// by URL keeping the first occurrence.
func (a *Aggregator) SearchAll(ctx context.Context, query string) SearchResponse {
	configured := a.configured()
	if len(configured) == 0 {
		return emptyResponse(CombinedSource)
	}

	// Each goroutine writes only to its own slot, so the merge below is
	// deterministic for a fixed configuration and fixed responses.
	responses := make([]SearchResponse, len(configured))
	var wg sync.WaitGroup

	for i, b := range configured {
		wg.Add(1)
		go func(idx int, backend Backend) {
			defer wg.Done()
			// A misbehaving backend must degrade to an empty response,
			// never take down the other backends or the process.
			defer func() {
				if r := recover(); r != nil {
					responses[idx] = emptyResponse(backend.Name())
				}
			}()
			responses[idx] = backend.Search(ctx, query)
		}(i, b)
	}

	wg.Wait()

	var all []model.SearchResult
	for _, resp := range responses {
		all = append(all, resp.Results...)
	}

	deduped := dedupeByURL(all)

	return SearchResponse{
		Results:      deduped,
		TotalResults: len(deduped),
		Source:       CombinedSource,
	}
}

// HasAnyBackendConfigured reports whether at least one backend can be queried
func (a *Aggregator) HasAnyBackendConfigured() bool {
	return len(a.configured()) > 0
}

// ConfiguredBackendNames returns the names of all configured backends in
// registration order
func (a *Aggregator) ConfiguredBackendNames() []string {
	configured := a.configured()
	names := make([]string, 0, len(configured))
	for _, b := range configured {
		names = append(names, b.Name())
	}
	return names
}

func (a *Aggregator) configured() []Backend {
	var configured []Backend
	for _, b := range a.backends {
		if b.Configured() {
			configured = append(configured, b)
		}
	}
	return configured
}

// dedupeByURL removes duplicate URLs, keeping the first occurrence and
// preserving order
func dedupeByURL(results []model.SearchResult) []model.SearchResult {
	seen := make(map[string]bool, len(results))
	deduped := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		deduped = append(deduped, r)
	}
	return deduped
}
