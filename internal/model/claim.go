package model

// Claim represents a single factual assertion extracted from an article
type Claim struct {
	Text        string          `json:"text"`        // The assertion in natural language
	Category    ClaimCategory   `json:"category"`    // fact, opinion, or prediction
	Importance  ClaimImportance `json:"importance"`  // Influences confidence weighting
	SearchQuery string          `json:"searchQuery"` // Search-optimized query derived from the claim
}

// ClaimCategory classifies the nature of an extracted claim
type ClaimCategory string

const (
	CategoryFact       ClaimCategory = "fact"       // Verifiable factual assertion
	CategoryOpinion    ClaimCategory = "opinion"    // Subjective judgment
	CategoryPrediction ClaimCategory = "prediction" // Statement about the future
)

// ClaimImportance ranks how central a claim is to the article
type ClaimImportance string

const (
	ImportanceHigh   ClaimImportance = "high"
	ImportanceMedium ClaimImportance = "medium"
	ImportanceLow    ClaimImportance = "low"
)

// IsFactual reports whether the claim should proceed to verification.
// Opinions and predictions are surfaced for observability but never verified.
func (c Claim) IsFactual() bool {
	return c.Category == CategoryFact
}
