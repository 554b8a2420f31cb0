package search

import (
	"context"
	"testing"

	"github.com/openpress/factcheck/internal/model"
)

// fakeBackend is a canned-response backend for aggregator tests
type fakeBackend struct {
	name       string
	configured bool
	results    []model.SearchResult
}

func (f *fakeBackend) Name() string     { return f.name }
func (f *fakeBackend) Configured() bool { return f.configured }

func (f *fakeBackend) Search(ctx context.Context, query string) SearchResponse {
	if !f.configured {
		return emptyResponse(f.name)
	}
	return SearchResponse{Results: f.results, TotalResults: len(f.results), Source: f.name}
}

func result(url, source string) model.SearchResult {
	return model.SearchResult{Title: "t", URL: url, Snippet: "s", Source: source}
}

func TestAggregator_SearchAll_MergesInRegistrationOrder(t *testing.T) {
	a := NewAggregator(
		&fakeBackend{name: "brave", configured: true, results: []model.SearchResult{
			result("https://example.com/1", "brave"),
			result("https://example.com/2", "brave"),
		}},
		&fakeBackend{name: "serper", configured: true, results: []model.SearchResult{
			result("https://example.com/3", "serper"),
		}},
	)

	resp := a.SearchAll(context.Background(), "test query")

	if resp.Source != CombinedSource {
		t.Errorf("Expected source %q, got %q", CombinedSource, resp.Source)
	}
	if resp.TotalResults != 3 {
		t.Fatalf("Expected 3 results, got %d", resp.TotalResults)
	}

	wantOrder := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}
	for i, want := range wantOrder {
		if resp.Results[i].URL != want {
			t.Errorf("Result %d: expected URL %s, got %s", i, want, resp.Results[i].URL)
		}
	}
}

func TestAggregator_SearchAll_DeduplicatesByURLFirstWins(t *testing.T) {
	a := NewAggregator(
		&fakeBackend{name: "brave", configured: true, results: []model.SearchResult{
			result("https://example.com/shared", "brave"),
			result("https://example.com/only-brave", "brave"),
		}},
		&fakeBackend{name: "serper", configured: true, results: []model.SearchResult{
			result("https://example.com/shared", "serper"),
		}},
	)

	resp := a.SearchAll(context.Background(), "test query")

	if resp.TotalResults != 2 {
		t.Fatalf("Expected 2 results after dedup, got %d", resp.TotalResults)
	}

	// No two entries share a URL
	seen := make(map[string]bool)
	for _, r := range resp.Results {
		if seen[r.URL] {
			t.Errorf("Duplicate URL in aggregated results: %s", r.URL)
		}
		seen[r.URL] = true
	}

	// First occurrence wins: the shared URL keeps the brave tag
	if resp.Results[0].URL != "https://example.com/shared" || resp.Results[0].Source != "brave" {
		t.Errorf("Expected first-wins dedup to keep brave result, got %+v", resp.Results[0])
	}
}

func TestAggregator_SearchAll_SkipsUnconfiguredBackends(t *testing.T) {
	a := NewAggregator(
		&fakeBackend{name: "brave", configured: false},
		&fakeBackend{name: "serper", configured: true, results: []model.SearchResult{
			result("https://example.com/1", "serper"),
		}},
	)

	resp := a.SearchAll(context.Background(), "test query")

	if resp.TotalResults != 1 {
		t.Fatalf("Expected 1 result, got %d", resp.TotalResults)
	}
	if resp.Results[0].Source != "serper" {
		t.Errorf("Expected serper result, got %s", resp.Results[0].Source)
	}
}

func TestAggregator_SearchAll_NoBackendsConfigured(t *testing.T) {
	a := NewAggregator(
		&fakeBackend{name: "brave", configured: false},
		&fakeBackend{name: "serper", configured: false},
	)

	resp := a.SearchAll(context.Background(), "test query")

	if resp.TotalResults != 0 || len(resp.Results) != 0 {
		t.Errorf("Expected empty response, got %+v", resp)
	}
	if resp.Results == nil {
		t.Error("Expected non-nil empty result slice")
	}
}

func TestAggregator_HasAnyBackendConfigured(t *testing.T) {
	none := NewAggregator(&fakeBackend{name: "brave"})
	if none.HasAnyBackendConfigured() {
		t.Error("Expected false with no configured backends")
	}

	one := NewAggregator(&fakeBackend{name: "brave"}, &fakeBackend{name: "serper", configured: true})
	if !one.HasAnyBackendConfigured() {
		t.Error("Expected true with one configured backend")
	}
}

func TestAggregator_ConfiguredBackendNames(t *testing.T) {
	a := NewAggregator(
		&fakeBackend{name: "brave", configured: true},
		&fakeBackend{name: "serper", configured: false},
	)

	names := a.ConfiguredBackendNames()
	if len(names) != 1 || names[0] != "brave" {
		t.Errorf("Expected [brave], got %v", names)
	}
}

// panicBackend simulates a backend with an internal failure
type panicBackend struct {
	name string
}

func (p *panicBackend) Name() string     { return p.name }
func (p *panicBackend) Configured() bool { return true }

func (p *panicBackend) Search(ctx context.Context, query string) SearchResponse {
	panic("backend exploded")
}

func TestSearchAll_BackendPanicDegradesToEmpty(t *testing.T) {
	a := NewAggregator(
		&panicBackend{name: "brave"},
		&fakeBackend{name: "serper", configured: true, results: []model.SearchResult{
			{Title: "Laksa", URL: "https://example.com/laksa", Snippet: "noodle soup", Source: "serper"},
		}},
	)

	resp := a.SearchAll(context.Background(), "laksa origin")

	if resp.TotalResults != 1 || len(resp.Results) != 1 {
		t.Fatalf("Expected only the healthy backend's result, got %+v", resp)
	}
	if resp.Results[0].URL != "https://example.com/laksa" {
		t.Errorf("Unexpected result: %+v", resp.Results[0])
	}
	if resp.Source != CombinedSource {
		t.Errorf("Expected combined source, got %s", resp.Source)
	}
}
