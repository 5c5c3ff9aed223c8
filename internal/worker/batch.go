package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

// Auditor runs a complete audit of one report file. pipeline.Pipeline
// satisfies this.
type Auditor interface {
	AuditFile(ctx context.Context, path string, tags model.TagSet, deep bool) (*model.AuditResult, error)
}

// AuditJob audits a single report file.
type AuditJob struct {
	Path    string
	Tags    model.TagSet
	Deep    bool
	Auditor Auditor
}

// Execute runs the audit job.
func (j *AuditJob) Execute(ctx context.Context) Result {
	result, err := j.Auditor.AuditFile(ctx, j.Path, j.Tags, j.Deep)
	return &AuditOutcome{
		Path:   j.Path,
		Result: result,
		Error:  err,
	}
}

// AuditOutcome is the result of one audit job.
type AuditOutcome struct {
	Path   string
	Result *model.AuditResult
	Error  error
}

// GetError returns the job error, if any.
func (o *AuditOutcome) GetError() error {
	return o.Error
}

// BatchProcessor audits multiple report files concurrently. Each file gets
// its own registry and its own two passes; registries are never shared
// between jobs.
type BatchProcessor struct {
	auditor     Auditor
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(auditor Auditor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		auditor:     auditor,
		concurrency: concurrency,
	}
}

// ProcessPaths audits the given report files concurrently.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string, tags model.TagSet, deep bool) []*AuditOutcome {
	if len(paths) == 0 {
		return []*AuditOutcome{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&AuditJob{
			Path:    path,
			Tags:    tags,
			Deep:    deep,
			Auditor: b.auditor,
		})
	}

	results := pool.Wait()

	outcomes := make([]*AuditOutcome, len(results))
	for i, result := range results {
		outcomes[i] = result.(*AuditOutcome)
	}
	return outcomes
}

// ProcessFile reads report paths from a list file and audits them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string, tags model.TagSet, deep bool) ([]*AuditOutcome, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return b.ProcessPaths(ctx, paths, tags, deep), nil
}

// ReadPathsFromFile reads file paths from a list file (one per line),
// skipping blank lines, comments and duplicates.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}
