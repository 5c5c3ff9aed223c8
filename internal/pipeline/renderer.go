package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

// Renderer writes audit results as JSON and Markdown artifacts and prints
// a terminal summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full result as indented JSON.
func (r *Renderer) RenderJSON(result *model.AuditResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable audit report.
func (r *Renderer) RenderMarkdown(result *model.AuditResult, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Greenwashing Audit: %s\n\n", result.Source)
	fmt.Fprintf(&b, "- Audited: %s\n", result.AuditedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "- Model: %s\n", result.ModelUsed)
	fmt.Fprintf(&b, "- Pages analyzed: %d\n", result.TotalChunks)
	fmt.Fprintf(&b, "- Risk indicators: %d\n", len(result.Findings))
	fmt.Fprintf(&b, "- Strategic commitments: %d (%d open)\n\n", result.Claims.Len(), result.OpenClaimCount())

	if result.Degraded() {
		fmt.Fprintf(&b, "> Degraded run: %s\n\n", result.FailureSummary())
	}

	b.WriteString("## Risk Indicators\n\n")
	if len(result.Findings) == 0 {
		b.WriteString("No indicators flagged.\n\n")
	} else {
		counts := countByCategory(result.Findings)
		for _, category := range sortedCategories(counts) {
			fmt.Fprintf(&b, "- %s: %d\n", category, counts[category])
		}
		b.WriteString("\n")
		for _, f := range result.Findings {
			fmt.Fprintf(&b, "### p. %d - %s\n\n", f.Page, f.Category)
			fmt.Fprintf(&b, "> %s\n\n", f.Quote)
			fmt.Fprintf(&b, "%s\n\n", f.Reasoning)
		}
	}

	b.WriteString("## Commitment Ledger\n\n")
	claims := result.Claims.All()
	if len(claims) == 0 {
		b.WriteString("No commitments extracted.\n")
	} else {
		b.WriteString("| ID | Page | Status | Commitment | Evidence |\n")
		b.WriteString("|---:|-----:|--------|------------|----------|\n")
		for _, c := range claims {
			fmt.Fprintf(&b, "| %d | %d | %s | %s | %s |\n",
				c.ID, c.Page, statusLabel(c.Status), mdEscape(c.Text), mdEscape(c.Evidence))
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("Statuses are descriptive, not verdicts: an open commitment is unevidenced, not false; a potentially verified one has supporting text, not proof.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write Markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short result overview to stdout.
func (r *Renderer) RenderSummary(result *model.AuditResult) {
	fmt.Printf("\nAudit of %s (%s)\n", result.Source, result.ModelUsed)
	fmt.Printf("  Pages analyzed:        %d\n", result.TotalChunks)
	fmt.Printf("  Risk indicators:       %d\n", len(result.Findings))
	fmt.Printf("  Commitments extracted: %d\n", result.Claims.Len())
	fmt.Printf("  Still open:            %d\n", result.OpenClaimCount())
	if result.Degraded() {
		fmt.Printf("  Warning: %s\n", result.FailureSummary())
	}
}

// countByCategory tallies findings per category.
func countByCategory(findings []model.Finding) map[string]int {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Category]++
	}
	return counts
}

// sortedCategories returns the category names of a tally in sorted order.
func sortedCategories(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func statusLabel(s model.ClaimStatus) string {
	switch s {
	case model.StatusPotentiallyVerified:
		return "potentially verified"
	case model.StatusOpen:
		return "open"
	default:
		return string(s)
	}
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
