// Package extract turns article text into typed, verifiable claims using
// an external completion service.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openpress/factcheck/internal/llm"
	"github.com/openpress/factcheck/internal/model"
)

const extractionSystemPrompt = `You are a fact-checking assistant. Extract verifiable factual claims from articles.
Respond ONLY with a JSON object of the form:
{"claims": [{"text": "...", "category": "fact|opinion|prediction", "importance": "high|medium|low", "searchQuery": "..."}]}
For each claim, "searchQuery" must be a short search-engine-optimized query that would surface corroborating sources.
Do not include any text outside the JSON object.`

// ClaimExtractor extracts factual claims from articles via a completion provider
type ClaimExtractor struct {
	provider llm.Provider
	model    string
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(provider llm.Provider, modelName string) *ClaimExtractor {
	return &ClaimExtractor{
		provider: provider,
		model:    modelName,
	}
}

// ExtractionResult contains the extracted claims plus observability counts
type ExtractionResult struct {
	Claims        []model.Claim `json:"claims"`        // Factual claims only
	TotalClaims   int           `json:"totalClaims"`   // Everything the extractor proposed
	FactualClaims int           `json:"factualClaims"` // len(Claims)
}

// emptyExtraction is the canonical zero-claims result
func emptyExtraction() ExtractionResult {
	return ExtractionResult{Claims: []model.Claim{}}
}

// ExtractClaims asks the completion service to enumerate factual claims
// in the article. A malformed response degrades to zero claims, which the
// rest of the pipeline treats as a legitimate non-error state. Only a
// failed provider call returns an error.
func (e *ClaimExtractor) ExtractClaims(ctx context.Context, title, content string) (ExtractionResult, error) {
	if e.provider == nil {
		return emptyExtraction(), fmt.Errorf("no completion provider configured")
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System:      extractionSystemPrompt,
		Prompt:      buildPrompt(title, content),
		Model:       e.model,
		Temperature: 0.2,
	})
	if err != nil {
		return emptyExtraction(), fmt.Errorf("claim extraction: %w", err)
	}

	return parseExtraction(resp.Text), nil
}

// HasEnoughClaims reports whether any factual claims were found
func HasEnoughClaims(result ExtractionResult) bool {
	return result.FactualClaims > 0
}

// buildPrompt constructs the extraction prompt from article title and body.
// HTML bodies are reduced to visible text first to avoid prompting with markup.
func buildPrompt(title, content string) string {
	body := content
	if looksLikeHTML(body) {
		body = stripHTML(body)
	}
	return fmt.Sprintf("Extract the factual claims from this article.\n\nTitle: %s\n\nContent:\n%s", title, body)
}

// rawClaim mirrors the JSON shape the extraction service is asked to produce
type rawClaim struct {
	Text        string `json:"text"`
	Category    string `json:"category"`
	Importance  string `json:"importance"`
	SearchQuery string `json:"searchQuery"`
}

// parseExtraction parses the service response into typed claims. It
// either returns a fully-typed result or the canonical empty result,
// never a partially-parsed one.
func parseExtraction(text string) ExtractionResult {
	cleaned := stripCodeFences(text)

	var parsed struct {
		Claims []rawClaim `json:"claims"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return emptyExtraction()
	}

	result := emptyExtraction()
	for _, rc := range parsed.Claims {
		if strings.TrimSpace(rc.Text) == "" {
			continue
		}
		result.TotalClaims++

		claim := normalizeClaim(rc)
		if !claim.IsFactual() {
			continue
		}
		result.Claims = append(result.Claims, claim)
	}
	result.FactualClaims = len(result.Claims)

	return result
}

// normalizeClaim maps a raw claim into the typed model, defaulting
// unrecognized fields rather than rejecting the claim
func normalizeClaim(rc rawClaim) model.Claim {
	category := model.ClaimCategory(strings.ToLower(strings.TrimSpace(rc.Category)))
	switch category {
	case model.CategoryFact, model.CategoryOpinion, model.CategoryPrediction:
	default:
		category = model.CategoryOpinion
	}

	importance := model.ClaimImportance(strings.ToLower(strings.TrimSpace(rc.Importance)))
	switch importance {
	case model.ImportanceHigh, model.ImportanceMedium, model.ImportanceLow:
	default:
		importance = model.ImportanceMedium
	}

	query := strings.TrimSpace(rc.SearchQuery)
	if query == "" {
		query = strings.TrimSpace(rc.Text)
	}

	return model.Claim{
		Text:        strings.TrimSpace(rc.Text),
		Category:    category,
		Importance:  importance,
		SearchQuery: query,
	}
}

// stripCodeFences removes surrounding markdown code-fence wrappers that
// completion services commonly add around JSON
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)

	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}
