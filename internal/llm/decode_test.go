package llm

import (
	"testing"
)

func TestDecodeVerification_StrictBoolean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"literal true", `{"is_evidence": true, "reason": "matches"}`, true},
		{"literal false", `{"is_evidence": false, "reason": "no match"}`, false},
		{"string true rejected", `{"is_evidence": "true", "reason": "stringly typed"}`, false},
		{"number one rejected", `{"is_evidence": 1, "reason": "numeric"}`, false},
		{"null rejected", `{"is_evidence": null, "reason": "missing verdict"}`, false},
		{"field absent", `{"reason": "no field at all"}`, false},
		{"fenced true", "```json\n{\"is_evidence\": true, \"reason\": \"fenced\"}\n```", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeVerification(tt.raw)
			if err != nil {
				t.Fatalf("decodeVerification failed: %v", err)
			}
			if got.IsEvidence != tt.want {
				t.Errorf("IsEvidence = %v, want %v", got.IsEvidence, tt.want)
			}
		})
	}
}

func TestDecodeVerification_Malformed(t *testing.T) {
	if _, err := decodeVerification("not json at all"); err == nil {
		t.Fatal("expected error for malformed response")
	}
}

func TestDecodeAnalysis(t *testing.T) {
	raw := `{
		"findings": [{"category": "VAGUE", "quote": "eco-friendly", "reasoning": "no metric"}],
		"new_claims": [{"claim": "Net zero by 2040.", "context": "CEO letter"}],
		"claim_updates": [{"id": 3, "status": "POTENTIALLY_VERIFIED", "reason": "table on this page"}]
	}`
	res, err := decodeAnalysis(raw)
	if err != nil {
		t.Fatalf("decodeAnalysis failed: %v", err)
	}
	if len(res.Findings) != 1 || res.Findings[0].Category != "VAGUE" {
		t.Errorf("unexpected findings: %+v", res.Findings)
	}
	if len(res.NewClaims) != 1 || res.NewClaims[0].Claim != "Net zero by 2040." {
		t.Errorf("unexpected claims: %+v", res.NewClaims)
	}
	if len(res.ClaimUpdates) != 1 || res.ClaimUpdates[0].ID != 3 {
		t.Errorf("unexpected updates: %+v", res.ClaimUpdates)
	}
}

func TestDecodeAnalysis_EmptyObject(t *testing.T) {
	res, err := decodeAnalysis("{}")
	if err != nil {
		t.Fatalf("decodeAnalysis failed: %v", err)
	}
	if len(res.Findings) != 0 || len(res.NewClaims) != 0 || len(res.ClaimUpdates) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestNewClaimItem_BareString(t *testing.T) {
	raw := `{"new_claims": ["Halve water usage by 2030."]}`
	res, err := decodeAnalysis(raw)
	if err != nil {
		t.Fatalf("decodeAnalysis failed: %v", err)
	}
	if len(res.NewClaims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(res.NewClaims))
	}
	got := res.NewClaims[0]
	if got.Claim != "Halve water usage by 2030." {
		t.Errorf("unexpected claim text: %q", got.Claim)
	}
	if got.Context != "No context provided." {
		t.Errorf("expected placeholder context, got %q", got.Context)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
