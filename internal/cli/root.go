package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "greenwash",
	Short: "Greenwash - sustainability report audit via LLM analysis (descriptive, not a verdict)",
	Long: `Greenwash audits corporate sustainability reports for greenwashing
indicators by combining page-by-page PDF extraction with LLM analysis.

It does not decide whether a company is greenwashing.

The analyzer flags risk indicators (vague language, inconsistencies,
missing data sources), extracts strategic commitments into a claim
ledger, and searches the whole document for concrete evidence that a
commitment is backed by measures, figures or allocated resources.

An open commitment is unevidenced, not false; a potentially verified
one has supporting text, not proof.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("greenwash v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.greenwash/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.greenwash")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match GREENWASH_*
	viper.SetEnvPrefix("GREENWASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setConfigDefaults registers every config key with viper. Keys must be
// known for environment overrides to be picked up by Unmarshal.
func setConfigDefaults() {
	def := model.DefaultConfig()
	viper.SetDefault("llm.provider", def.LLM.Provider)
	viper.SetDefault("llm.model", def.LLM.Model)
	viper.SetDefault("llm.timeout", def.LLM.Timeout)
	viper.SetDefault("llm.max_tokens", def.LLM.MaxTokens)
	viper.SetDefault("loader.max_pages", def.Loader.MaxPages)
	viper.SetDefault("loader.min_page_chars", def.Loader.MinPageChars)
	viper.SetDefault("cache.enabled", def.Cache.Enabled)
	viper.SetDefault("cache.dir", def.Cache.Dir)
	viper.SetDefault("cache.ttl", def.Cache.TTL)
	viper.SetDefault("rate_limit.requests_per_second", def.RateLimit.RequestsPerSecond)
	viper.SetDefault("rate_limit.burst_size", def.RateLimit.BurstSize)
	viper.SetDefault("concurrency.batch_workers", def.Concurrency.BatchWorkers)
	viper.SetDefault("output.verbose", def.Output.Verbose)
	viper.SetDefault("output.include_footer", def.Output.IncludeFooter)
}
