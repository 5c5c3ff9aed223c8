package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultAnthropicModel = "claude-3-5-haiku-20241022"

// AnthropicOracle implements the Oracle interface for Anthropic Claude
// models via the Messages API.
type AnthropicOracle struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Anthropic API structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicOracle creates a new Anthropic oracle.
func NewAnthropicOracle(config Config) (*AnthropicOracle, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &AnthropicOracle{
		apiKey:  config.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: config,
	}, nil
}

// Name returns the provider name.
func (o *AnthropicOracle) Name() string {
	return "anthropic"
}

// Model returns the effective model identifier.
func (o *AnthropicOracle) Model() string {
	if o.config.Model != "" {
		return o.config.Model
	}
	return defaultAnthropicModel
}

// IsAvailable checks if the provider is properly configured.
func (o *AnthropicOracle) IsAvailable(ctx context.Context) bool {
	req := anthropicRequest{
		Model:     o.Model(),
		MaxTokens: 10,
		Messages: []anthropicMessage{
			{Role: "user", Content: "Hi"},
		},
	}
	if _, err := o.makeRequest(ctx, req); err != nil {
		log.Warn().Err(err).Msg("Anthropic API check failed")
		return false
	}
	return true
}

// AnalyzeChunk runs the per-page sequential-pass call.
func (o *AnthropicOracle) AnalyzeChunk(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	raw, err := o.complete(ctx, BuildAnalysisSystemPrompt(req), BuildAnalysisUserPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeAnalysis(raw)
}

// VerifyClaim runs one deep-verification adjudication call.
func (o *AnthropicOracle) VerifyClaim(ctx context.Context, req VerificationRequest) (*VerificationResult, error) {
	raw, err := o.complete(ctx, "", BuildVerificationPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeVerification(raw)
}

func (o *AnthropicOracle) complete(ctx context.Context, system, user string) (string, error) {
	maxTokens := o.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	apiReq := anthropicRequest{
		Model:     o.Model(),
		MaxTokens: maxTokens,
		System:    system,
		Messages: []anthropicMessage{
			{Role: "user", Content: user},
		},
		Temperature: 0,
	}

	resp, err := o.makeRequest(ctx, apiReq)
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no content in Anthropic response")
	}
	return resp.Content[0].Text, nil
}

// makeRequest makes an HTTP request to the Anthropic API.
func (o *AnthropicOracle) makeRequest(ctx context.Context, apiReq anthropicRequest) (*anthropicResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/messages", o.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", o.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	httpResp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr anthropicError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s - %s", httpResp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &resp, nil
}
