package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openpress/factcheck/internal/model"
	"github.com/openpress/factcheck/internal/pipeline"
	"github.com/openpress/factcheck/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	articleTitle string
	threshold    int
	maxClaims    int
	outJSON      string
	outMD        string
	checkTimeout time.Duration
	llmModel     string
	strict       bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <article-file>",
	Short: "Fact-check a single article and print the report",
	Long: `Check extracts factual claims from an article, corroborates each
claim against the configured web-search backends, and decides whether
the article passes the publication threshold.

Search backends are configured through environment variables:
  BRAVE_API_KEY    Brave Search API
  SERPER_API_KEY   Serper.dev Google Search API
  OPENAI_API_KEY   Claim-extraction service

A backend without credentials is skipped; with no backends at all the
check is skipped entirely and the article passes (fail-open).

Example:
  factcheck check article.md
  factcheck check article.md --title "Laksa origins" --threshold 80
  factcheck check article.md --json report.json --md report.md
  factcheck check article.md --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&articleTitle, "title", "", "article title (default: derived from filename)")
	checkCmd.Flags().IntVar(&threshold, "threshold", 0, "article pass threshold (default 70)")
	checkCmd.Flags().IntVar(&maxClaims, "max-claims", 0, "max claims to verify per article (default 10)")
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall check timeout")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "claim-extraction model (default gpt-4o-mini)")
	checkCmd.Flags().BoolVar(&strict, "strict", false, "exit with status 1 when the article fails (overrides fail-open advisory)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read article: %w", err)
	}

	title := articleTitle
	if title == "" {
		title = worker.TitleFromPath(path)
	}

	cfg := buildConfig()

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", path)
		fmt.Fprintf(os.Stderr, "Title:    %s\n", title)
		fmt.Fprintf(os.Stderr, "Timeout:  %v\n", checkTimeout)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	result := p.FactCheckArticle(ctx, string(content), title, &pipeline.Options{
		Threshold: threshold,
		MaxClaims: maxClaims,
	})

	if err := p.RenderReport(result, outJSON, outMD, verbose); err != nil {
		return err
	}

	if strict && !result.Passed {
		return fmt.Errorf("article failed fact-check: score %d below threshold %d", result.Score, result.Threshold)
	}

	return nil
}

// buildConfig assembles the pipeline configuration from defaults, the
// config file / FACTCHECK_* env vars (via viper), flags, and the
// credential env vars.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetInt("check.threshold"); v > 0 {
		cfg.Check.Threshold = v
	}
	if v := viper.GetInt("check.max_claims"); v > 0 {
		cfg.Check.MaxClaims = v
	}
	if v := viper.GetInt("concurrency.verification_workers"); v > 0 {
		cfg.Concurrency.VerificationWorkers = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	cfg.Search.BraveAPIKey = os.Getenv("BRAVE_API_KEY")
	cfg.Search.SerperAPIKey = os.Getenv("SERPER_API_KEY")
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Output.Verbose = verbose

	return cfg
}
