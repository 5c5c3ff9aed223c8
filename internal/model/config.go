package model

import "time"

// Config holds the complete analyzer configuration.
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Loader      LoaderConfig      `yaml:"loader" mapstructure:"loader"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the oracle provider.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds, per oracle call
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LoaderConfig configures PDF page extraction.
type LoaderConfig struct {
	MaxPages     int `yaml:"max_pages" mapstructure:"max_pages"`           // 0 = all pages
	MinPageChars int `yaml:"min_page_chars" mapstructure:"min_page_chars"` // Pages with less text are skipped
}

// CacheConfig configures caching of extraction artifacts.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitConfig paces oracle calls.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the batch worker pool. The two analysis passes
// themselves are sequential; only whole-file audits run in parallel.
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 2000,
		},
		Loader: LoaderConfig{
			MaxPages:     0,
			MinPageChars: 50,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".greenwash-cache",
			TTL:     7 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 2,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
