package model

import (
	"fmt"
	"strings"
	"time"
)

// AuditResult is the complete outcome of an analysis run: the findings list
// and claim registry from the sequential pass, later updated in place by
// deep verification.
type AuditResult struct {
	Source      string    `json:"source,omitempty"`       // Report file name
	AuditedAt   time.Time `json:"audited_at,omitempty"`   // When the sequential pass ran
	ModelUsed   string    `json:"model_used,omitempty"`   // Oracle model identifier
	TotalChunks int       `json:"total_chunks"`           // Pages analyzed
	Findings    []Finding `json:"findings"`               // Ordered risk indicators
	Claims      *Registry `json:"claim_registry"`         // Claim ledger
	FailedPages []int     `json:"failed_pages,omitempty"` // Pages whose oracle call failed
	Error       string    `json:"error,omitempty"`        // Non-fatal degradation summary
}

// Degraded reports whether any page failed during the sequential pass.
// A degraded run still carries all findings and claims gathered elsewhere.
func (r *AuditResult) Degraded() bool {
	return len(r.FailedPages) > 0
}

// FailureSummary names the pages whose oracle calls failed.
func (r *AuditResult) FailureSummary() string {
	if !r.Degraded() {
		return ""
	}
	pages := make([]string, len(r.FailedPages))
	for i, p := range r.FailedPages {
		pages[i] = fmt.Sprintf("%d", p)
	}
	return "oracle calls failed on pages: " + strings.Join(pages, ", ")
}

// OpenClaimCount counts claims still awaiting evidence.
func (r *AuditResult) OpenClaimCount() int {
	if r.Claims == nil {
		return 0
	}
	return len(r.Claims.Open())
}
