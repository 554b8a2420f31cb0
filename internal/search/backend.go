// Package search queries external web-search APIs and merges their
// results for claim corroboration.
//
// Backends are the sole failure-containment boundary for third-party
// instability: a missing credential, transport error, or non-2xx status
// always collapses to an empty response, never an error.
package search

import (
	"context"

	"github.com/openpress/factcheck/internal/model"
)

// Backend searches a single external web-search service
type Backend interface {
	// Name returns the backend identifier (e.g. "brave")
	Name() string

	// Configured reports whether the backend has credentials and can be queried
	Configured() bool

	// Search queries the backend. It never fails: any error is absorbed
	// and surfaced as an empty response.
	Search(ctx context.Context, query string) SearchResponse
}

// SearchResponse is the result set from one backend (or the combined set
// from the aggregator)
type SearchResponse struct {
	Results      []model.SearchResult `json:"results"`
	TotalResults int                  `json:"totalResults"`
	Source       string               `json:"source"`
}

// emptyResponse is what a backend returns when it cannot or should not query
func emptyResponse(source string) SearchResponse {
	return SearchResponse{
		Results:      []model.SearchResult{},
		TotalResults: 0,
		Source:       source,
	}
}
