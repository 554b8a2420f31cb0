package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openpress/factcheck/internal/model"
)

// CheckFunc fact-checks one article and always returns a result
// (fail-open, per the pipeline contract)
type CheckFunc func(ctx context.Context, content, title string) *model.FactCheckResult

// CheckJob fact-checks a single article file
type CheckJob struct {
	Path  string
	Check CheckFunc
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	content, err := os.ReadFile(j.Path)
	if err != nil {
		return &CheckResult{
			Path:  j.Path,
			Error: fmt.Errorf("read article: %w", err),
		}
	}

	title := TitleFromPath(j.Path)
	result := j.Check(ctx, string(content), title)

	return &CheckResult{
		Path:   j.Path,
		Title:  title,
		Result: result,
	}
}

// CheckResult represents the result of a check job
type CheckResult struct {
	Path   string
	Title  string
	Result *model.FactCheckResult
	Error  error
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor fact-checks multiple article files concurrently
type BatchProcessor struct {
	check       CheckFunc
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(check CheckFunc, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		check:       check,
		concurrency: concurrency,
	}
}

// ProcessDir fact-checks every article file in a directory
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*CheckResult, error) {
	paths, err := ListArticleFiles(dir)
	if err != nil {
		return nil, err
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ProcessFiles fact-checks the given article files concurrently
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*CheckResult {
	if len(paths) == 0 {
		return []*CheckResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&CheckJob{
			Path:  path,
			Check: b.check,
		})
	}

	raw := pool.Wait()

	results := make([]*CheckResult, 0, len(raw))
	for _, r := range raw {
		if cr, ok := r.(*CheckResult); ok {
			results = append(results, cr)
		}
	}

	// Pool results arrive in completion order; report in path order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results
}

// ListArticleFiles returns article files in a directory, sorted by name
func ListArticleFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".md", ".txt", ".html":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// TitleFromPath derives a human-readable article title from a file path
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}
