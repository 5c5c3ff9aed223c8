package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mobsr/greenwashing-analyzer/internal/pipeline"
	"github.com/mobsr/greenwashing-analyzer/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// deepVerify, tagsFile, noCache, noFooter, llmProvider, llmModel are
	// shared with the audit command
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Audit multiple reports from a list file in parallel",
	Long: `Batch audits multiple PDF reports concurrently:
- Read report paths from the input file (one per line, # for comments)
- Audit reports in parallel with a configurable worker count
- Each report gets its own claim ledger and its own two passes
- Write an individual JSON and Markdown report per input file

Example:
  greenwash batch reports.txt
  greenwash batch reports.txt --concurrency 4 --output-dir ./audits
  greenwash batch reports.txt --deep --llm-model gpt-4o`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./greenwash-reports", "output directory for audit reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 2*time.Hour, "total timeout for batch processing")

	// Shared audit flags
	batchCmd.Flags().BoolVar(&deepVerify, "deep", false, "run the deep-verification pass per report")
	batchCmd.Flags().StringVar(&tagsFile, "tags", "", "YAML file mapping category tags to definitions")
	batchCmd.Flags().IntVar(&maxPages, "max-pages", 0, "limit analysis to the first N pages per report (0 = all)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable extraction cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = concurrency

	tags, err := loadTags()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.New(cfg, cmdLogger())
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "Reading report paths from %s...\n", listFile)
	outcomes, err := processor.ProcessFile(ctx, listFile, tags, deepVerify)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Processing %d reports with %d workers...\n\n", len(outcomes), concurrency)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, outcome := range outcomes {
		if outcome.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", outcome.Path, outcome.Error)
			continue
		}
		successCount++

		slug := sanitizeFilename(outcome.Result.Source)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(outcome.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write JSON: %v\n", outcome.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(outcome.Result, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write Markdown: %v\n", outcome.Path, err)
			continue
		}

		status := ""
		if outcome.Result.Degraded() {
			status = " (degraded)"
		}
		fmt.Fprintf(os.Stderr, "OK   %s: %d findings, %d claims%s\n",
			outcome.Result.Source, len(outcome.Result.Findings), outcome.Result.Claims.Len(), status)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d ok, %d failed, output in %s\n",
		successCount, failureCount, outputDir)
	return nil
}

// sanitizeFilename turns a report name into a safe output file stem.
func sanitizeFilename(s string) string {
	s = strings.TrimSuffix(filepath.Base(s), filepath.Ext(s))
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "report"
	}
	return s
}
