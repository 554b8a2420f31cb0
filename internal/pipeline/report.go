package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openpress/factcheck/internal/model"
)

// Renderer renders fact-check results to human- and machine-readable outputs
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// GenerateReport renders a fixed-format, human-readable summary of a
// fact-check result. Purely presentational: every field of the result
// appears in the output.
func GenerateReport(result *model.FactCheckResult) string {
	var b strings.Builder

	banner := "FAILED"
	if result.Passed {
		banner = "PASSED"
	}

	b.WriteString("═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "  Fact-Check Report — %s (%s)\n", banner, result.Status)
	b.WriteString("═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "  Score:       %d/100 (threshold: %d)\n", result.Score, result.Threshold)
	fmt.Fprintf(&b, "  Claims:      %d checked, %d verified, %d failed\n",
		result.TotalClaims, result.VerifiedClaims, result.FailedClaims)
	fmt.Fprintf(&b, "  Backends:    %s\n", formatList(result.SearchAPIsUsed))
	fmt.Fprintf(&b, "  Checked at:  %s\n", result.CheckedAt.Format(time.RFC3339))
	b.WriteString("\n")

	if len(result.Verifications) > 0 {
		b.WriteString("  Claim breakdown:\n")
		for i, v := range result.Verifications {
			mark := "✗"
			if v.Verified {
				mark = "✓"
			}
			fmt.Fprintf(&b, "  %s [%d] %s\n", mark, i+1, v.Claim.Text)
			fmt.Fprintf(&b, "      confidence: %d  importance: %s  %s\n",
				v.Confidence, v.Claim.Importance, v.Reasoning)
		}
		b.WriteString("\n")
	}

	if len(result.Sources) > 0 {
		fmt.Fprintf(&b, "  Sources consulted (%d):\n", len(result.Sources))
		for _, url := range result.Sources {
			fmt.Fprintf(&b, "    - %s\n", url)
		}
	}

	return b.String()
}

// RenderSummary prints the report to stdout
func (r *Renderer) RenderSummary(result *model.FactCheckResult) {
	fmt.Print(GenerateReport(result))
}

// RenderReport renders the result to the specified outputs and prints
// the summary to stdout
func (p *Pipeline) RenderReport(result *model.FactCheckResult, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(result)

	return nil
}

// RenderJSON writes the result as indented JSON to the given path
func (r *Renderer) RenderJSON(result *model.FactCheckResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes the result as a Markdown report to the given path
func (r *Renderer) RenderMarkdown(result *model.FactCheckResult, path string) error {
	var b strings.Builder

	status := "❌ Failed"
	if result.Passed {
		status = "✅ Passed"
	}
	if result.Status == model.StatusSkipped {
		status = "⏭️ Skipped"
	}

	fmt.Fprintf(&b, "# Fact-Check Report\n\n")
	fmt.Fprintf(&b, "**Result:** %s (status: `%s`)\n\n", status, result.Status)
	fmt.Fprintf(&b, "**Score:** %d/100 (threshold: %d)\n\n", result.Score, result.Threshold)
	fmt.Fprintf(&b, "**Claims:** %d checked, %d verified, %d failed\n\n",
		result.TotalClaims, result.VerifiedClaims, result.FailedClaims)
	fmt.Fprintf(&b, "**Search backends:** %s\n\n", formatList(result.SearchAPIsUsed))
	fmt.Fprintf(&b, "**Checked at:** %s\n\n", result.CheckedAt.Format(time.RFC3339))

	if len(result.Verifications) > 0 {
		b.WriteString("## Claims\n\n")
		b.WriteString("| # | Claim | Importance | Confidence | Verified | Reasoning |\n")
		b.WriteString("|---|-------|------------|------------|----------|----------|\n")
		for i, v := range result.Verifications {
			verified := "no"
			if v.Verified {
				verified = "yes"
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %d | %s | %s |\n",
				i+1, escapeCell(v.Claim.Text), v.Claim.Importance, v.Confidence, verified, escapeCell(v.Reasoning))
		}
		b.WriteString("\n")
	}

	if len(result.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		for _, url := range result.Sources {
			fmt.Fprintf(&b, "- %s\n", url)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by factcheck. Scores estimate corroboration, not truth.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
