package model

import "time"

// Config holds the complete fact-check pipeline configuration
type Config struct {
	Search      SearchConfig      `yaml:"search"`
	LLM         LLMConfig         `yaml:"llm"`
	HTTP        HTTPConfig        `yaml:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Check       CheckConfig       `yaml:"check"`
	Output      OutputConfig      `yaml:"output"`
}

// SearchConfig configures the web-search backends
type SearchConfig struct {
	BraveAPIKey  string `yaml:"brave_api_key,omitempty"`
	SerperAPIKey string `yaml:"serper_api_key,omitempty"`

	// MaxResultsPerBackend caps how many hits each backend requests
	MaxResultsPerBackend int `yaml:"max_results_per_backend"`

	// CacheTTL is how long query responses are reused; 0 disables caching
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// RequestsPerSecond and Burst bound outbound calls per backend
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LLMConfig configures the claim-extraction service
type LLMConfig struct {
	Provider  string `yaml:"provider"`           // "openai" or "" (extraction disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"`                  // From env, never written to config files
	BaseURL   string `yaml:"base_url,omitempty"` // Custom endpoint
	Timeout   int    `yaml:"timeout"`            // Seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// HTTPConfig configures outbound HTTP behavior for search backends
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// ConcurrencyConfig bounds parallelism at the two fan-out points
type ConcurrencyConfig struct {
	VerificationWorkers int `yaml:"verification_workers"` // Concurrent claim verifications
	BatchWorkers        int `yaml:"batch_workers"`        // Concurrent articles in batch mode
}

// CheckConfig holds the article-level decision parameters
type CheckConfig struct {
	Threshold int `yaml:"threshold"`  // Article pass threshold
	MaxClaims int `yaml:"max_claims"` // Cap on claims verified per article
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxResultsPerBackend: 5,
			CacheTTL:             5 * time.Minute,
			RequestsPerSecond:    2,
			Burst:                5,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 2000,
		},
		HTTP: HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "factcheck/0.1 (+https://github.com/openpress/factcheck)",
		},
		Concurrency: ConcurrencyConfig{
			VerificationWorkers: 5,
			BatchWorkers:        4,
		},
		Check: CheckConfig{
			Threshold: ArticlePublicationThreshold,
			MaxClaims: DefaultMaxClaims,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
