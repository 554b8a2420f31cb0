// Package verify scores how well individual claims are corroborated by
// web-search results.
//
// The confidence formula is a deliberately simple, auditable heuristic:
// every term is visible in the reasoning string and no term depends on
// anything but the claim and its search results.
package verify

import (
	"context"
	"fmt"

	"github.com/openpress/factcheck/internal/model"
	"github.com/openpress/factcheck/internal/search"
)

// Scoring terms. The base term is capped so that source volume alone can
// never fully verify a claim; full confidence requires provider
// diversity or a high-importance bonus on top.
const (
	pointsPerSource = 12
	baseCap         = 60
	diversityBonus  = 20
	importanceBonus = 20
)

// Searcher is the slice of the aggregator the verifier needs
type Searcher interface {
	SearchAll(ctx context.Context, query string) search.SearchResponse
}

// Verifier computes a confidence score and classification for one claim
type Verifier struct {
	searcher Searcher
}

// NewVerifier creates a new claim verifier
func NewVerifier(searcher Searcher) *Verifier {
	return &Verifier{searcher: searcher}
}

// Verify searches for corroborating sources and scores the claim.
// Deterministic given the claim and the backends' responses.
func (v *Verifier) Verify(ctx context.Context, claim model.Claim) model.ClaimVerification {
	resp := v.searcher.SearchAll(ctx, claim.SearchQuery)

	if len(resp.Results) == 0 {
		return model.ClaimVerification{
			Claim:      claim,
			Verified:   false,
			Confidence: 0,
			Sources:    []model.SearchResult{},
			Reasoning:  "no sources found to corroborate this claim",
		}
	}

	sourceCount := len(resp.Results)
	providerCount := countProviders(resp.Results)
	diversity := providerCount > 1

	confidence := sourceCount * pointsPerSource
	if confidence > baseCap {
		confidence = baseCap
	}
	if diversity {
		confidence += diversityBonus
	}
	if claim.Importance == model.ImportanceHigh {
		confidence += importanceBonus
	}
	if confidence > 100 {
		confidence = 100
	}

	verified := confidence >= model.ClaimVerificationThreshold

	return model.ClaimVerification{
		Claim:      claim,
		Verified:   verified,
		Confidence: confidence,
		Sources:    resp.Results,
		Reasoning:  buildReasoning(verified, sourceCount, providerCount),
	}
}

// countProviders counts distinct source tags in the result set
func countProviders(results []model.SearchResult) int {
	seen := make(map[string]bool, 2)
	for _, r := range results {
		seen[r.Source] = true
	}
	return len(seen)
}

// buildReasoning renders a short explanation of the score
func buildReasoning(verified bool, sourceCount, providerCount int) string {
	outcome := "insufficient corroboration"
	if verified {
		outcome = "corroborated"
	}

	diversity := "a single provider"
	if providerCount > 1 {
		diversity = fmt.Sprintf("%d independent providers", providerCount)
	}

	return fmt.Sprintf("%s: %d sources found across %s", outcome, sourceCount, diversity)
}
