package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openpress/factcheck/internal/cache"
	"github.com/openpress/factcheck/internal/model"
)

func newTestBrave(apiKey, baseURL string, c cache.Cache, ttl time.Duration) *BraveBackend {
	b := NewBraveBackend(
		model.SearchConfig{BraveAPIKey: apiKey, MaxResultsPerBackend: 5, CacheTTL: ttl},
		model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "factcheck-test"},
		nil, c,
	)
	if baseURL != "" {
		b.baseURL = baseURL
	}
	return b
}

func TestBraveBackend_Search_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Subscription-Token") != "test-key" {
			t.Errorf("Expected X-Subscription-Token test-key, got %s", r.Header.Get("X-Subscription-Token"))
		}
		if q := r.URL.Query().Get("q"); q != "laksa origin" {
			t.Errorf("Expected query 'laksa origin', got %q", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"title":"Laksa","url":"https://example.com/laksa","description":"A spicy noodle soup"},
			{"title":"History","url":"https://example.com/history","description":"Origins"}
		]}}`))
	}))
	defer server.Close()

	b := newTestBrave("test-key", server.URL, nil, 0)

	resp := b.Search(context.Background(), "laksa origin")

	if resp.Source != "brave" {
		t.Errorf("Expected source brave, got %s", resp.Source)
	}
	if resp.TotalResults != 2 {
		t.Fatalf("Expected 2 results, got %d", resp.TotalResults)
	}
	if resp.Results[0].URL != "https://example.com/laksa" {
		t.Errorf("Unexpected first result: %+v", resp.Results[0])
	}
	if resp.Results[0].Source != "brave" {
		t.Errorf("Expected result tagged brave, got %s", resp.Results[0].Source)
	}
}

func TestBraveBackend_Search_NotConfigured(t *testing.T) {
	b := newTestBrave("", "", nil, 0)

	if b.Configured() {
		t.Error("Expected backend without key to report unconfigured")
	}

	resp := b.Search(context.Background(), "anything")
	if resp.TotalResults != 0 || len(resp.Results) != 0 {
		t.Errorf("Expected empty response, got %+v", resp)
	}
}

func TestBraveBackend_Search_EmptyQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no outbound call for empty query")
	}))
	defer server.Close()

	b := newTestBrave("test-key", server.URL, nil, 0)

	resp := b.Search(context.Background(), "")
	if resp.TotalResults != 0 {
		t.Errorf("Expected empty response for empty query, got %+v", resp)
	}
}

func TestBraveBackend_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	b := newTestBrave("test-key", server.URL, nil, 0)

	resp := b.Search(context.Background(), "anything")
	if resp.TotalResults != 0 || len(resp.Results) != 0 {
		t.Errorf("Expected empty response on server error, got %+v", resp)
	}
}

func TestBraveBackend_Search_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{malformed`))
	}))
	defer server.Close()

	b := newTestBrave("test-key", server.URL, nil, 0)

	resp := b.Search(context.Background(), "anything")
	if resp.TotalResults != 0 {
		t.Errorf("Expected empty response for malformed JSON, got %+v", resp)
	}
}

func TestBraveBackend_Search_Unreachable(t *testing.T) {
	// Closed server to force a transport error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	b := newTestBrave("test-key", url, nil, 0)

	resp := b.Search(context.Background(), "anything")
	if resp.TotalResults != 0 {
		t.Errorf("Expected empty response when unreachable, got %+v", resp)
	}
}

func TestBraveBackend_Search_CachesResponses(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"web":{"results":[{"title":"T","url":"https://example.com/1","description":"D"}]}}`))
	}))
	defer server.Close()

	c := cache.NewMemoryCache(time.Minute, time.Minute)
	b := newTestBrave("test-key", server.URL, c, time.Minute)

	first := b.Search(context.Background(), "cached query")
	second := b.Search(context.Background(), "cached query")

	if calls != 1 {
		t.Errorf("Expected 1 outbound call, got %d", calls)
	}
	if first.TotalResults != 1 || second.TotalResults != 1 {
		t.Errorf("Expected identical cached results, got %d and %d", first.TotalResults, second.TotalResults)
	}
	if second.Results[0].URL != first.Results[0].URL {
		t.Errorf("Cached result mismatch: %+v vs %+v", first.Results[0], second.Results[0])
	}
}
