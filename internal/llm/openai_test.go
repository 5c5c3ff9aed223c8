package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

// chatStub serves a fixed chat-completion body and records the last prompt.
func chatStub(t *testing.T, content string) (*httptest.Server, *[]string) {
	t.Helper()
	var prompts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		for _, m := range req.Messages {
			prompts = append(prompts, m.Content)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	return server, &prompts
}

func TestNewOpenAIOracle_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIOracle(Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestOpenAIOracle_ModelDefault(t *testing.T) {
	oracle, err := NewOpenAIOracle(Config{APIKey: "test"})
	if err != nil {
		t.Fatalf("NewOpenAIOracle failed: %v", err)
	}
	if oracle.Model() != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %s", oracle.Model())
	}

	oracle, _ = NewOpenAIOracle(Config{APIKey: "test", Model: "gpt-4o"})
	if oracle.Model() != "gpt-4o" {
		t.Errorf("expected configured model, got %s", oracle.Model())
	}
}

func TestOpenAIOracle_AnalyzeChunk(t *testing.T) {
	body := `{"findings": [{"category": "VAGUE", "quote": "green", "reasoning": "vague"}], "new_claims": [], "claim_updates": []}`
	server, prompts := chatStub(t, body)
	defer server.Close()

	oracle, err := NewOpenAIOracle(Config{APIKey: "test", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIOracle failed: %v", err)
	}

	res, err := oracle.AnalyzeChunk(context.Background(), AnalysisRequest{
		Page: 4,
		Text: "our green operations",
		Tags: model.DefaultTags(),
	})
	if err != nil {
		t.Fatalf("AnalyzeChunk failed: %v", err)
	}
	if len(res.Findings) != 1 || res.Findings[0].Category != "VAGUE" {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(*prompts) != 2 {
		t.Fatalf("expected system and user prompt, got %d messages", len(*prompts))
	}
}

func TestOpenAIOracle_VerifyClaim_StringTrueRejected(t *testing.T) {
	// An oracle answering with a stringly-typed verdict must read as
	// "no evidence" end to end.
	server, _ := chatStub(t, `{"is_evidence": "true", "reason": "looks right"}`)
	defer server.Close()

	oracle, err := NewOpenAIOracle(Config{APIKey: "test", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIOracle failed: %v", err)
	}

	res, err := oracle.VerifyClaim(context.Background(), VerificationRequest{
		Claim:   model.Claim{ID: 1, Text: "Cut fleet emissions 40% by 2030.", Page: 2},
		Excerpt: "fleet emissions fell 12% in 2024",
	})
	if err != nil {
		t.Fatalf("VerifyClaim failed: %v", err)
	}
	if res.IsEvidence {
		t.Error("string verdict must not count as evidence")
	}
}

func TestOpenAIOracle_VerifyClaim_BooleanTrue(t *testing.T) {
	server, _ := chatStub(t, `{"is_evidence": true, "reason": "audited table"}`)
	defer server.Close()

	oracle, err := NewOpenAIOracle(Config{APIKey: "test", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIOracle failed: %v", err)
	}

	res, err := oracle.VerifyClaim(context.Background(), VerificationRequest{
		Claim:   model.Claim{ID: 1, Text: "Cut fleet emissions 40% by 2030.", Page: 2},
		Excerpt: "fleet emissions fell 12% in 2024",
	})
	if err != nil {
		t.Fatalf("VerifyClaim failed: %v", err)
	}
	if !res.IsEvidence {
		t.Error("expected boolean true to count as evidence")
	}
	if res.Reason != "audited table" {
		t.Errorf("unexpected reason: %q", res.Reason)
	}
}

func TestOpenAIOracle_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	oracle, _ := NewOpenAIOracle(Config{APIKey: "test", BaseURL: server.URL + "/v1"})
	if _, err := oracle.AnalyzeChunk(context.Background(), AnalysisRequest{Page: 1, Text: "x"}); err == nil {
		t.Fatal("expected error from failing API")
	}
}
