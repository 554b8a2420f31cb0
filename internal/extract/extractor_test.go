package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/openpress/factcheck/internal/llm"
	"github.com/openpress/factcheck/internal/model"
)

// fakeProvider returns a canned completion or error
type fakeProvider struct {
	response string
	err      error
	lastReq  llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Text: f.response, Model: "fake-model"}, nil
}

const validClaimsJSON = `{"claims":[
	{"text":"Laksa originated in Southeast Asia","category":"fact","importance":"high","searchQuery":"laksa origin southeast asia"},
	{"text":"Laksa is the best soup","category":"opinion","importance":"low","searchQuery":"laksa best soup"},
	{"text":"Laksa will gain popularity","category":"prediction","importance":"medium","searchQuery":"laksa popularity trend"}
]}`

func TestExtractClaims_FiltersToFactualClaims(t *testing.T) {
	provider := &fakeProvider{response: validClaimsJSON}
	e := NewClaimExtractor(provider, "fake-model")

	result, err := e.ExtractClaims(context.Background(), "Laksa", "An article about laksa.")
	if err != nil {
		t.Fatalf("ExtractClaims failed: %v", err)
	}

	if result.TotalClaims != 3 {
		t.Errorf("Expected 3 total claims, got %d", result.TotalClaims)
	}
	if result.FactualClaims != 1 {
		t.Errorf("Expected 1 factual claim, got %d", result.FactualClaims)
	}
	if len(result.Claims) != 1 {
		t.Fatalf("Expected 1 claim in result, got %d", len(result.Claims))
	}

	claim := result.Claims[0]
	if claim.Category != model.CategoryFact {
		t.Errorf("Expected fact category, got %s", claim.Category)
	}
	if claim.Importance != model.ImportanceHigh {
		t.Errorf("Expected high importance, got %s", claim.Importance)
	}
	if claim.SearchQuery != "laksa origin southeast asia" {
		t.Errorf("Unexpected search query: %s", claim.SearchQuery)
	}
}

func TestExtractClaims_StripsCodeFences(t *testing.T) {
	provider := &fakeProvider{response: "```json\n" + validClaimsJSON + "\n```"}
	e := NewClaimExtractor(provider, "fake-model")

	result, err := e.ExtractClaims(context.Background(), "Laksa", "An article about laksa.")
	if err != nil {
		t.Fatalf("ExtractClaims failed: %v", err)
	}
	if result.FactualClaims != 1 {
		t.Errorf("Expected 1 factual claim after fence stripping, got %d", result.FactualClaims)
	}
}

func TestExtractClaims_MalformedResponseYieldsZeroClaims(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"claims": [{]}`,
		"```\ngarbage\n```",
		"",
	}

	for _, response := range cases {
		provider := &fakeProvider{response: response}
		e := NewClaimExtractor(provider, "fake-model")

		result, err := e.ExtractClaims(context.Background(), "Title", "Content")
		if err != nil {
			t.Errorf("Response %q: expected nil error, got %v", response, err)
		}
		if result.TotalClaims != 0 || result.FactualClaims != 0 || len(result.Claims) != 0 {
			t.Errorf("Response %q: expected zero-claims result, got %+v", response, result)
		}
		if result.Claims == nil {
			t.Errorf("Response %q: expected non-nil empty claims slice", response)
		}
	}
}

func TestExtractClaims_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("connection refused")}
	e := NewClaimExtractor(provider, "fake-model")

	result, err := e.ExtractClaims(context.Background(), "Title", "Content")
	if err == nil {
		t.Fatal("Expected error from provider failure")
	}
	if len(result.Claims) != 0 {
		t.Errorf("Expected zero claims on provider error, got %d", len(result.Claims))
	}
}

func TestExtractClaims_NoProvider(t *testing.T) {
	e := NewClaimExtractor(nil, "")

	_, err := e.ExtractClaims(context.Background(), "Title", "Content")
	if err == nil {
		t.Fatal("Expected error with no provider configured")
	}
}

func TestExtractClaims_NormalizesUnknownFields(t *testing.T) {
	provider := &fakeProvider{response: `{"claims":[
		{"text":"The sky is blue","category":"FACT","importance":"critical","searchQuery":""}
	]}`}
	e := NewClaimExtractor(provider, "fake-model")

	result, err := e.ExtractClaims(context.Background(), "Title", "Content")
	if err != nil {
		t.Fatalf("ExtractClaims failed: %v", err)
	}
	if result.FactualClaims != 1 {
		t.Fatalf("Expected uppercase category to normalize to fact, got %d factual claims", result.FactualClaims)
	}

	claim := result.Claims[0]
	if claim.Importance != model.ImportanceMedium {
		t.Errorf("Expected unknown importance to default to medium, got %s", claim.Importance)
	}
	if claim.SearchQuery != "The sky is blue" {
		t.Errorf("Expected empty search query to fall back to claim text, got %q", claim.SearchQuery)
	}
}

func TestExtractClaims_SkipsEmptyText(t *testing.T) {
	provider := &fakeProvider{response: `{"claims":[
		{"text":"  ","category":"fact","importance":"high","searchQuery":"q"},
		{"text":"Real claim","category":"fact","importance":"low","searchQuery":"real claim"}
	]}`}
	e := NewClaimExtractor(provider, "fake-model")

	result, err := e.ExtractClaims(context.Background(), "Title", "Content")
	if err != nil {
		t.Fatalf("ExtractClaims failed: %v", err)
	}
	if result.TotalClaims != 1 || result.FactualClaims != 1 {
		t.Errorf("Expected blank-text claim to be dropped, got %+v", result)
	}
}

func TestHasEnoughClaims(t *testing.T) {
	if HasEnoughClaims(ExtractionResult{}) {
		t.Error("Expected false for zero factual claims")
	}
	if !HasEnoughClaims(ExtractionResult{FactualClaims: 1}) {
		t.Error("Expected true for one factual claim")
	}
}

func TestBuildPrompt_StripsHTMLContent(t *testing.T) {
	provider := &fakeProvider{response: validClaimsJSON}
	e := NewClaimExtractor(provider, "fake-model")

	htmlContent := `<html><body><script>alert("x")</script><p>Laksa is a noodle soup.</p></body></html>`
	_, err := e.ExtractClaims(context.Background(), "Laksa", htmlContent)
	if err != nil {
		t.Fatalf("ExtractClaims failed: %v", err)
	}

	prompt := provider.lastReq.Prompt
	for _, markup := range []string{"<p>", "<script>", "alert("} {
		if strings.Contains(prompt, markup) {
			t.Errorf("Expected %q stripped from prompt, got: %s", markup, prompt)
		}
	}
	if !strings.Contains(prompt, "Laksa is a noodle soup.") {
		t.Errorf("Expected visible text preserved in prompt, got: %s", prompt)
	}
}
