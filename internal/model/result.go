package model

import "time"

// Scoring thresholds shared across the pipeline
const (
	// ClaimVerificationThreshold is the minimum confidence for a single
	// claim to count as verified.
	ClaimVerificationThreshold = 60

	// ArticlePublicationThreshold is the default article-level score an
	// article must reach to pass fact-checking.
	ArticlePublicationThreshold = 70

	// DefaultMaxClaims bounds how many factual claims are verified per
	// article regardless of how many the extractor proposes.
	DefaultMaxClaims = 10
)

// SearchResult is one hit returned by a search backend
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"` // Backend that produced the hit (e.g. "brave")
}

// ClaimVerification is the outcome of verifying one claim
type ClaimVerification struct {
	Claim      Claim          `json:"claim"`      // Embedded copy, not a reference
	Verified   bool           `json:"verified"`   // confidence >= ClaimVerificationThreshold
	Confidence int            `json:"confidence"` // 0-100
	Sources    []SearchResult `json:"sources"`    // Deduplicated results used for scoring
	Reasoning  string         `json:"reasoning"`  // Human-readable explanation
}

// CheckStatus describes how a fact-check run concluded
type CheckStatus string

const (
	StatusVerified CheckStatus = "verified" // Ran and the article passed
	StatusFailed   CheckStatus = "failed"   // Ran and the article fell below threshold
	StatusSkipped  CheckStatus = "skipped"  // Could not run; fail-open, passed is forced true
)

// FactCheckResult is the outcome of fact-checking one article
type FactCheckResult struct {
	Passed         bool                `json:"passed"`
	Score          int                 `json:"score"`     // Mean of per-claim confidences
	Threshold      int                 `json:"threshold"` // Article-level pass threshold for this run
	TotalClaims    int                 `json:"totalClaims"`
	VerifiedClaims int                 `json:"verifiedClaims"`
	FailedClaims   int                 `json:"failedClaims"`
	Verifications  []ClaimVerification `json:"verifications"`
	Sources        []string            `json:"sources"`        // Deduplicated URLs across all claims, first-seen order
	CheckedAt      time.Time           `json:"checkedAt"`
	SearchAPIsUsed []string            `json:"searchAPIsUsed"` // Backends configured during this run
	Status         CheckStatus         `json:"status"`
}
