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

// OllamaOracle implements the Oracle interface for local Ollama models.
type OllamaOracle struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Ollama API structures
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Format  string        `json:"format,omitempty"` // "json" forces structured output
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaOracle creates a new Ollama oracle. No API key is needed.
func NewOllamaOracle(config Config) (*OllamaOracle, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g. llama3.1:8b, mistral)")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // local models can be slower
	}

	return &OllamaOracle{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: config,
	}, nil
}

// Name returns the provider name.
func (o *OllamaOracle) Name() string {
	return "ollama"
}

// Model returns the effective model identifier.
func (o *OllamaOracle) Model() string {
	return o.config.Model
}

// IsAvailable checks if Ollama is running by listing local models.
func (o *OllamaOracle) IsAvailable(ctx context.Context) bool {
	url := fmt.Sprintf("%s/api/tags", o.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("base_url", o.baseURL).Msg("Ollama availability check failed")
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// AnalyzeChunk runs the per-page sequential-pass call.
func (o *OllamaOracle) AnalyzeChunk(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	raw, err := o.complete(ctx, BuildAnalysisSystemPrompt(req), BuildAnalysisUserPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeAnalysis(raw)
}

// VerifyClaim runs one deep-verification adjudication call.
func (o *OllamaOracle) VerifyClaim(ctx context.Context, req VerificationRequest) (*VerificationResult, error) {
	raw, err := o.complete(ctx, "", BuildVerificationPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeVerification(raw)
}

func (o *OllamaOracle) complete(ctx context.Context, system, user string) (string, error) {
	apiReq := ollamaRequest{
		Model:  o.config.Model,
		Prompt: user,
		System: system,
		Format: "json",
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0,
			NumPredict:  o.config.MaxTokens,
		},
	}

	resp, err := o.makeRequest(ctx, apiReq)
	if err != nil {
		return "", fmt.Errorf("ollama API error: %w", err)
	}
	return resp.Response, nil
}

// makeRequest makes an HTTP request to the Ollama API.
func (o *OllamaOracle) makeRequest(ctx context.Context, apiReq ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", o.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

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
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &resp, nil
}
