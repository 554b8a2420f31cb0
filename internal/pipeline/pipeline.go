// Package pipeline orchestrates the fact-check flow: claim extraction,
// concurrent verification, aggregation, and the pass/fail decision.
//
// The pipeline is fail-open by contract: it always returns a
// fully-populated result and never an error. A run that cannot execute
// (no backends, extraction failure, internal panic) is reported as
// skipped with passed=true so that verification problems never block
// the surrounding publishing workflow.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/openpress/factcheck/internal/cache"
	"github.com/openpress/factcheck/internal/extract"
	"github.com/openpress/factcheck/internal/llm"
	"github.com/openpress/factcheck/internal/model"
	"github.com/openpress/factcheck/internal/search"
	"github.com/openpress/factcheck/internal/verify"
	"github.com/openpress/factcheck/internal/worker"
)

// Extractor is the slice of the claim extractor the pipeline needs
type Extractor interface {
	ExtractClaims(ctx context.Context, title, content string) (extract.ExtractionResult, error)
}

// Verifier is the slice of the claim verifier the pipeline needs
type Verifier interface {
	Verify(ctx context.Context, claim model.Claim) model.ClaimVerification
}

// BackendRegistry is the slice of the search aggregator the pipeline
// needs for its gating decisions
type BackendRegistry interface {
	HasAnyBackendConfigured() bool
	ConfiguredBackendNames() []string
}

// Options overrides per-run decision parameters
type Options struct {
	// Threshold is the article-level pass threshold; 0 means the configured default
	Threshold int

	// MaxClaims caps how many claims are verified; 0 means the configured default
	MaxClaims int
}

// Pipeline coordinates extraction, verification, and aggregation
type Pipeline struct {
	extractor  Extractor
	verifier   Verifier
	backends   BackendRegistry
	renderer   *Renderer
	maxWorkers int
	threshold  int
	maxClaims  int
	verbose    bool
}

// NewPipeline wires up a pipeline from configuration: two search
// backends sharing a rate limiter and query cache, an OpenAI-backed
// claim extractor, and the verifier over the aggregated backends.
func NewPipeline(cfg *model.Config) *Pipeline {
	limiter := worker.NewLimiter(cfg.Search.RequestsPerSecond, cfg.Search.Burst)
	queryCache := cache.NewMemoryCache(cfg.Search.CacheTTL, 10*time.Minute)

	aggregator := search.NewAggregator(
		search.NewBraveBackend(cfg.Search, cfg.HTTP, limiter, queryCache),
		search.NewSerperBackend(cfg.Search, cfg.HTTP, limiter, queryCache),
	)

	var extractor Extractor
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize completion provider: %v\n", err)
	} else if provider != nil {
		extractor = extract.NewClaimExtractor(provider, cfg.LLM.Model)
	}

	return &Pipeline{
		extractor:  extractor,
		verifier:   verify.NewVerifier(aggregator),
		backends:   aggregator,
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		maxWorkers: cfg.Concurrency.VerificationWorkers,
		threshold:  cfg.Check.Threshold,
		maxClaims:  cfg.Check.MaxClaims,
		verbose:    cfg.Output.Verbose,
	}
}

// New assembles a pipeline from explicit collaborators. Used by tests
// and by callers that bring their own backends or extraction service.
func New(extractor Extractor, verifier Verifier, backends BackendRegistry, maxWorkers int) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		verifier:   verifier,
		backends:   backends,
		renderer:   NewRenderer(true),
		maxWorkers: maxWorkers,
	}
}

// FactCheckArticle runs the complete fact-check flow over one article.
// It never returns an error: every failure mode resolves to a
// fully-populated result per the fail-open contract.
func (p *Pipeline) FactCheckArticle(ctx context.Context, content, title string, opts *Options) (result *model.FactCheckResult) {
	threshold := p.resolveThreshold(opts)
	maxClaims := p.resolveMaxClaims(opts)

	// Last-resort containment: an internal panic must surface as a
	// skipped run, not reach the caller.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Warning: fact-check aborted internally: %v\n", r)
			result = p.skippedResult(threshold)
		}
	}()

	// Gate 1: nothing to search against. Fact-checking must never block
	// publication solely because no search credentials exist.
	if p.backends == nil || !p.backends.HasAnyBackendConfigured() {
		return p.skippedResult(threshold)
	}

	apisUsed := p.backends.ConfiguredBackendNames()

	if p.extractor == nil {
		return p.skippedResult(threshold)
	}

	extraction, err := p.extractor.ExtractClaims(ctx, title, content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: claim extraction failed: %v\n", err)
		return p.skippedResult(threshold)
	}

	if p.verbose {
		fmt.Fprintf(os.Stderr, "Extracted %d claims (%d factual)\n",
			extraction.TotalClaims, extraction.FactualClaims)
	}

	// Gate 2: an article with no checkable factual claims is
	// automatically acceptable.
	if !extract.HasEnoughClaims(extraction) {
		return &model.FactCheckResult{
			Passed:         true,
			Score:          100,
			Threshold:      threshold,
			Verifications:  []model.ClaimVerification{},
			Sources:        []string{},
			CheckedAt:      time.Now().UTC(),
			SearchAPIsUsed: apisUsed,
			Status:         model.StatusVerified,
		}
	}

	claims := extraction.Claims
	if len(claims) > maxClaims {
		claims = claims[:maxClaims]
	}

	verifications := p.verifyAll(ctx, claims)

	return p.aggregate(verifications, threshold, apisUsed)
}

// verifyAll runs the verifier over all claims concurrently, bounded by
// maxWorkers, collecting results back into claim order.
func (p *Pipeline) verifyAll(ctx context.Context, claims []model.Claim) []model.ClaimVerification {
	verifications := make([]model.ClaimVerification, len(claims))
	var wg sync.WaitGroup

	workers := p.maxWorkers
	if workers <= 0 {
		workers = 5
	}
	semaphore := make(chan struct{}, workers)

	// A panic inside a verification goroutine would kill the process
	// before the orchestrator's recover could run. Capture the first one
	// and re-raise it on the caller goroutine instead.
	var panicMu sync.Mutex
	var panicVal any

	for i, claim := range claims {
		wg.Add(1)
		go func(idx int, c model.Claim) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicMu.Lock()
					if panicVal == nil {
						panicVal = r
					}
					panicMu.Unlock()
				}
			}()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			verifications[idx] = p.verifier.Verify(ctx, c)
		}(i, claim)
	}

	wg.Wait()

	if panicVal != nil {
		panic(panicVal)
	}
	return verifications
}

// aggregate folds per-claim verifications into the article-level result
func (p *Pipeline) aggregate(verifications []model.ClaimVerification, threshold int, apisUsed []string) *model.FactCheckResult {
	verified := 0
	confidenceSum := 0
	for _, v := range verifications {
		if v.Verified {
			verified++
		}
		confidenceSum += v.Confidence
	}

	score := 0
	if len(verifications) > 0 {
		score = int(math.Round(float64(confidenceSum) / float64(len(verifications))))
	}

	passed := score >= threshold
	status := model.StatusFailed
	if passed {
		status = model.StatusVerified
	}

	return &model.FactCheckResult{
		Passed:         passed,
		Score:          score,
		Threshold:      threshold,
		TotalClaims:    len(verifications),
		VerifiedClaims: verified,
		FailedClaims:   len(verifications) - verified,
		Verifications:  verifications,
		Sources:        collectSourceURLs(verifications),
		CheckedAt:      time.Now().UTC(),
		SearchAPIsUsed: apisUsed,
		Status:         status,
	}
}

// collectSourceURLs builds the order-preserving, deduplicated union of
// every verification's source URLs, in claim order
func collectSourceURLs(verifications []model.ClaimVerification) []string {
	seen := make(map[string]bool)
	urls := make([]string, 0)
	for _, v := range verifications {
		for _, s := range v.Sources {
			if seen[s.URL] {
				continue
			}
			seen[s.URL] = true
			urls = append(urls, s.URL)
		}
	}
	return urls
}

// skippedResult is the fail-open result produced at both skip gates
func (p *Pipeline) skippedResult(threshold int) *model.FactCheckResult {
	apisUsed := []string{}
	if p.backends != nil {
		if names := p.backends.ConfiguredBackendNames(); names != nil {
			apisUsed = names
		}
	}

	return &model.FactCheckResult{
		Passed:         true,
		Score:          0,
		Threshold:      threshold,
		Verifications:  []model.ClaimVerification{},
		Sources:        []string{},
		CheckedAt:      time.Now().UTC(),
		SearchAPIsUsed: apisUsed,
		Status:         model.StatusSkipped,
	}
}

func (p *Pipeline) resolveThreshold(opts *Options) int {
	if opts != nil && opts.Threshold > 0 {
		return opts.Threshold
	}
	if p.threshold > 0 {
		return p.threshold
	}
	return model.ArticlePublicationThreshold
}

func (p *Pipeline) resolveMaxClaims(opts *Options) int {
	if opts != nil && opts.MaxClaims > 0 {
		return opts.MaxClaims
	}
	if p.maxClaims > 0 {
		return p.maxClaims
	}
	return model.DefaultMaxClaims
}
