package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mobsr/greenwashing-analyzer/internal/export"
	"github.com/mobsr/greenwashing-analyzer/internal/model"
	"github.com/mobsr/greenwashing-analyzer/internal/pipeline"
)

var (
	outJSON      string
	outMD        string
	outXLSX      string
	csvFindings  string
	csvClaims    string
	tagsFile     string
	deepVerify   bool
	maxPages     int
	noCache      bool
	noFooter     bool
	auditTimeout time.Duration
	llmProvider  string
	llmModel     string
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <report.pdf>",
	Short: "Audit a sustainability report for greenwashing indicators",
	Long: `Audit runs the two-pass analysis over a PDF report:
- Pass 1 walks the document page by page, flags risk indicators against
  the configured category tags, extracts strategic commitments into a
  claim ledger and verifies open commitments against later pages
- Pass 2 (with --deep) searches the whole document for concrete evidence
  backing each still-open commitment

Example:
  greenwash audit report.pdf
  greenwash audit report.pdf --deep --md audit.md --xlsx audit.xlsx
  greenwash audit report.pdf --llm-provider ollama --llm-model llama3.1:8b
  greenwash audit report.pdf --tags my-tags.yaml --max-pages 40`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	// Output flags
	auditCmd.Flags().StringVar(&outJSON, "json", "audit.json", "output JSON path")
	auditCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	auditCmd.Flags().StringVar(&outXLSX, "xlsx", "", "output XLSX workbook path (optional)")
	auditCmd.Flags().StringVar(&csvFindings, "csv-findings", "", "findings CSV path (optional)")
	auditCmd.Flags().StringVar(&csvClaims, "csv-claims", "", "claims CSV path (optional)")
	auditCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	auditCmd.Flags().BoolVar(&deepVerify, "deep", false, "run the deep-verification pass after the sequential pass")
	auditCmd.Flags().StringVar(&tagsFile, "tags", "", "YAML file mapping category tags to definitions (default: built-in tags)")
	auditCmd.Flags().IntVar(&maxPages, "max-pages", 0, "limit analysis to the first N pages (0 = all)")
	auditCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable extraction cache (force fresh extraction)")
	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", 30*time.Minute, "overall audit timeout")

	// LLM flags
	auditCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	auditCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAudit(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	tags, err := loadTags()
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg, cmdLogger())
	if err != nil {
		return err
	}
	p.SetProgress(terminalProgress())

	result, err := p.AuditFile(ctx, path, tags, deepVerify)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}
	fmt.Fprintln(os.Stderr)

	// Render outputs
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", outMD)
	}
	if csvFindings != "" {
		if err := export.WriteFindingsCSVFile(csvFindings, result.Findings); err != nil {
			return fmt.Errorf("export findings: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote findings CSV: %s\n", csvFindings)
	}
	if csvClaims != "" {
		if err := export.WriteClaimsCSVFile(csvClaims, result.Claims.All()); err != nil {
			return fmt.Errorf("export claims: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote claims CSV: %s\n", csvClaims)
	}
	if outXLSX != "" {
		if err := export.WriteWorkbook(outXLSX, result); err != nil {
			return fmt.Errorf("export workbook: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote workbook: %s\n", outXLSX)
	}

	renderer.RenderSummary(result)
	return nil
}

// buildConfig assembles the run configuration: defaults first, then the
// config file and GREENWASH_* environment via viper, then explicitly set
// flags on top. Provider credentials are resolved from the environment.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	if flags.Changed("max-pages") {
		cfg.Loader.MaxPages = maxPages
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if verbose {
		cfg.Output.Verbose = true
	}

	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}

// loadTags returns the caller-supplied tag set, or the built-in defaults.
func loadTags() (model.TagSet, error) {
	if tagsFile == "" {
		return model.DefaultTags(), nil
	}
	tags, err := model.LoadTagsFile(tagsFile)
	if err != nil {
		return nil, err
	}
	return tags, nil
}
