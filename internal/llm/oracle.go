package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

// Oracle defines the interface the analysis engines call into. An oracle
// maps a structured prompt to structured JSON and is treated as unreliable:
// any call may fail, and the engines degrade per page rather than abort.
type Oracle interface {
	// Name returns the provider name.
	Name() string

	// Model returns the effective model identifier.
	Model() string

	// AnalyzeChunk runs the three sequential-pass tasks on one page:
	// indicator extraction, novel-claim extraction and claim verification.
	AnalyzeChunk(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)

	// VerifyClaim adjudicates whether a text excerpt is concrete evidence
	// for a claim.
	VerifyClaim(ctx context.Context, req VerificationRequest) (*VerificationResult, error)

	// IsAvailable checks if the provider is properly configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// AnalysisRequest carries everything the oracle needs for one page.
// PrevText and NextText are context only: the oracle is instructed to
// extract findings and claims solely from Text.
type AnalysisRequest struct {
	Page       int               // Page being assessed
	PrevText   string            // Preceding page, empty for the first page
	Text       string            // The only text to be analyzed
	NextText   string            // Following page, empty for the last page
	Tags       model.TagSet      // Risk-category definitions
	AllClaims  []model.Claim     // Registry snapshot, for duplicate avoidance
	OpenClaims []model.Claim     // OPEN subset, for verification opportunities
}

// FindingItem is one risk indicator as reported by the oracle. The page is
// attached by the engine upon receipt.
type FindingItem struct {
	Category  string `json:"category"`
	Quote     string `json:"quote"`
	Reasoning string `json:"reasoning"`
}

// NewClaimItem is one novel commitment as reported by the oracle.
type NewClaimItem struct {
	Claim   string `json:"claim"`
	Context string `json:"context"`
}

// UnmarshalJSON tolerates oracles that return a bare string instead of the
// documented object form.
func (n *NewClaimItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n.Claim = s
		n.Context = "No context provided."
		return nil
	}
	type plain NewClaimItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = NewClaimItem(p)
	return nil
}

// ClaimUpdate is a status transition the oracle proposes for an existing
// claim. The engine applies it only when the target claim is OPEN and the
// requested status is POTENTIALLY_VERIFIED.
type ClaimUpdate struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// AnalysisResult is the validated per-page oracle response. All three
// fields are optional in the wire format; absence means empty.
type AnalysisResult struct {
	Findings     []FindingItem  `json:"findings"`
	NewClaims    []NewClaimItem `json:"new_claims"`
	ClaimUpdates []ClaimUpdate  `json:"claim_updates"`
}

// VerificationRequest carries one adjudication call: a claim and a bounded
// excerpt from a candidate evidence page.
type VerificationRequest struct {
	Claim   model.Claim
	Excerpt string // Truncated by the caller to bound prompt size
}

// VerificationResult is the adjudication verdict. IsEvidence is true only
// when the raw response carried the literal JSON boolean true.
type VerificationResult struct {
	IsEvidence bool
	Reason     string
}

// decodeAnalysis parses a raw oracle response into an AnalysisResult.
func decodeAnalysis(raw string) (*AnalysisResult, error) {
	var res AnalysisResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &res); err != nil {
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}
	return &res, nil
}

// decodeVerification parses a raw adjudication response. The is_evidence
// field must be the literal boolean true to count: strings, numbers and
// anything else truthy are rejected and read as "no evidence".
func decodeVerification(raw string) (*VerificationResult, error) {
	var probe struct {
		IsEvidence any    `json:"is_evidence"`
		Reason     string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &probe); err != nil {
		return nil, fmt.Errorf("malformed verification response: %w", err)
	}
	verdict, ok := probe.IsEvidence.(bool)
	return &VerificationResult{
		IsEvidence: ok && verdict,
		Reason:     probe.Reason,
	}, nil
}

// stripFences removes a markdown code fence some models wrap around JSON.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// Config holds oracle provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama, API-compatible proxies)
	BaseURL string

	// Timeout per oracle call, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		Timeout:   30,
		MaxTokens: 2000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}
