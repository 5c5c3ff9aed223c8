package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mobsr/greenwashing-analyzer/internal/llm"
)

var checkTimeout time.Duration

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured LLM provider is reachable",
	Long: `Check resolves the provider configuration (flags, environment,
config file) and issues one probe call, so credential and connectivity
problems surface before a long audit is started.

Example:
  greenwash check
  greenwash check --llm-provider ollama --llm-model llama3.1:8b`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "probe timeout")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	oracle, err := llm.NewOracle(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}
	if oracle == nil {
		return fmt.Errorf("no LLM provider configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if !oracle.IsAvailable(ctx) {
		return fmt.Errorf("%s provider is not reachable (model %s)", oracle.Name(), oracle.Model())
	}

	fmt.Printf("%s provider ready (model %s)\n", oracle.Name(), oracle.Model())
	return nil
}
