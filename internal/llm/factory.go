package llm

import (
	"fmt"
	"strings"
)

// NewOracle creates an oracle based on configuration. An empty provider
// returns nil (oracle disabled); credentials are checked here so a
// misconfigured run fails before any chunk is processed.
func NewOracle(config Config) (Oracle, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIOracle(config)

	case "anthropic", "claude":
		return NewAnthropicOracle(config)

	case "ollama":
		return NewOllamaOracle(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
