package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/openpress/factcheck/internal/model"
	"github.com/openpress/factcheck/internal/pipeline"
	"github.com/openpress/factcheck/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Fact-check every article in a directory in parallel",
	Long: `Batch fact-checks all article files (.md, .txt, .html) in a
directory concurrently:
- Each article goes through the full extract/verify pipeline
- Articles are processed in parallel with a configurable worker count
- Individual JSON reports are written per article

Example:
  factcheck batch ./articles
  factcheck batch ./articles --concurrency 8 --output-dir ./reports
  factcheck batch ./articles --threshold 80`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./factcheck-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().IntVar(&threshold, "threshold", 0, "article pass threshold (default 70)")
	batchCmd.Flags().IntVar(&maxClaims, "max-claims", 0, "max claims to verify per article (default 10)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "claim-extraction model (default gpt-4o-mini)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Factcheck Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	cfg := buildConfig()
	cfg.Concurrency.BatchWorkers = concurrency

	p := pipeline.NewPipeline(cfg)
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	opts := &pipeline.Options{
		Threshold: threshold,
		MaxClaims: maxClaims,
	}
	processor := worker.NewBatchProcessor(func(ctx context.Context, content, title string) *model.FactCheckResult {
		return p.FactCheckArticle(ctx, content, title, opts)
	}, concurrency)

	paths, err := worker.ListArticleFiles(dir)
	if err != nil {
		return fmt.Errorf("process directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Checking %d articles with %d workers...\n\n", len(paths), concurrency)

	results := processor.ProcessFiles(ctx, paths)

	passCount := 0
	failCount := 0
	skipCount := 0
	errCount := 0

	for _, result := range results {
		if result.Error != nil {
			errCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		switch {
		case result.Result.Status == model.StatusSkipped:
			skipCount++
		case result.Result.Passed:
			passCount++
		default:
			failCount++
		}

		jsonPath := filepath.Join(outputDir, sanitizeFilename(result.Title)+".json")
		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write report for %s: %v\n", result.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s: %s (score %d/%d) → %s\n",
			result.Title, result.Result.Status, result.Result.Score, result.Result.Threshold, jsonPath)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Passed:  %d\n", passCount)
	fmt.Fprintf(os.Stderr, "  Failed:  %d\n", failCount)
	fmt.Fprintf(os.Stderr, "  Skipped: %d\n", skipCount)
	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "  Errors:  %d\n", errCount)
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename turns an article title into a safe report file name
func sanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "article"
	}
	return slug
}
