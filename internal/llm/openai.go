package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// OpenAIOracle implements the Oracle interface for OpenAI models.
type OpenAIOracle struct {
	client *openai.Client
	config Config
}

// NewOpenAIOracle creates a new OpenAI oracle. A missing API key is the
// one fatal condition: no analysis run starts without credentials.
func NewOpenAIOracle(config Config) (*OpenAIOracle, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIOracle{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (o *OpenAIOracle) Name() string {
	return "openai"
}

// Model returns the effective model identifier.
func (o *OpenAIOracle) Model() string {
	if o.config.Model != "" {
		return o.config.Model
	}
	return openai.GPT4oMini
}

// IsAvailable checks if the provider is properly configured.
func (o *OpenAIOracle) IsAvailable(ctx context.Context) bool {
	_, err := o.client.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("OpenAI API check failed")
		return false
	}
	return true
}

// AnalyzeChunk runs the per-page sequential-pass call.
func (o *OpenAIOracle) AnalyzeChunk(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	raw, err := o.complete(ctx, BuildAnalysisSystemPrompt(req), BuildAnalysisUserPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeAnalysis(raw)
}

// VerifyClaim runs one deep-verification adjudication call.
func (o *OpenAIOracle) VerifyClaim(ctx context.Context, req VerificationRequest) (*VerificationResult, error) {
	raw, err := o.complete(ctx, "", BuildVerificationPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeVerification(raw)
}

// complete issues one JSON-mode chat completion with the configured
// per-call timeout. Temperature is pinned to zero so duplicate detection
// drifts as little as the model allows.
func (o *OpenAIOracle) complete(ctx context.Context, system, user string) (string, error) {
	timeout := time.Duration(o.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:    o.Model(),
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
		MaxTokens:   o.config.MaxTokens,
	}

	resp, err := o.client.CreateChatCompletion(callCtx, chatReq)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
