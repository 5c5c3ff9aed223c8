package llm

import (
	"fmt"
	"strings"
)

// BuildAnalysisSystemPrompt constructs the fixed instruction set for the
// sequential pass: indicator extraction against the supplied tag
// definitions, novel-claim extraction, and claim verification.
func BuildAnalysisSystemPrompt(req AnalysisRequest) string {
	var tagLines strings.Builder
	for _, name := range req.Tags.Names() {
		tagLines.WriteString(fmt.Sprintf("- %s: %s\n", name, req.Tags[name]))
	}

	return fmt.Sprintf(`You are a cautious, scientific auditor of corporate sustainability reports.
Your language is strictly descriptive ("indicator", "hint", "potentially"). Avoid absolute judgements.

IMPORTANT: You assess ONLY the page under 'CURRENT PAGE (TO ASSESS)'.
The context pages exist solely to resolve sentence continuations across page breaks. Do NOT extract findings or claims from them!

TASKS:
1. RISK INDICATORS (findings) - apply exactly these definitions:
%s   -> extract ONLY from 'CURRENT PAGE (TO ASSESS)'!

2. STRATEGIC COMMITMENTS (claims):
   - Extract new commitments ("We will...", "By 2030...").
   - CHECK the list "COMMITMENTS ALREADY RECORDED" in the user prompt!
   - Extract ONLY claims that are semantically NEW (no rephrasings, no repetitions).
   -> extract ONLY from 'CURRENT PAGE (TO ASSESS)'!

3. VERIFICATION (memory check):
   - Review the list "OPEN COMMITMENTS".
   - Only when the current page contains real supporting evidence: status "POTENTIALLY_VERIFIED".

ANSWER WITH VALID JSON ONLY (no further explanation):
{
    "findings": [{"category": "...", "quote": "...", "reasoning": "..."}],
    "new_claims": [{"claim": "...", "context": "..."}],
    "claim_updates": [{"id": 1, "status": "POTENTIALLY_VERIFIED", "reason": "..."}]
}`, tagLines.String())
}

// BuildAnalysisUserPrompt lays out the prev/current/next window and the
// claim listings for one page.
func BuildAnalysisUserPrompt(req AnalysisRequest) string {
	prev := req.PrevText
	if prev == "" {
		prev = "(No previous page)"
	}
	next := req.NextText
	if next == "" {
		next = "(No next page)"
	}

	var known strings.Builder
	for _, c := range req.AllClaims {
		known.WriteString(fmt.Sprintf("- ID %d (p. %d): %s\n", c.ID, c.Page, c.Text))
	}
	if known.Len() == 0 {
		known.WriteString("(No claims recorded yet)\n")
	}

	var open strings.Builder
	for _, c := range req.OpenClaims {
		open.WriteString(fmt.Sprintf("- ID %d: %s\n", c.ID, c.Text))
	}
	if open.Len() == 0 {
		open.WriteString("(No open commitments)\n")
	}

	return fmt.Sprintf(`=== CONTEXT: PREVIOUS PAGE (READ ONLY) ===
%s

=== CURRENT PAGE (TO ASSESS) - Page %d ===
%s

=== CONTEXT: NEXT PAGE (READ ONLY) ===
%s

---

COMMITMENTS ALREADY RECORDED:
%s
OPEN COMMITMENTS (for verification):
%s`, prev, req.Page, req.Text, next, known.String(), open.String())
}

// BuildVerificationPrompt constructs the strict adjudication prompt for
// the deep-verification pass. The rule set lives here, in the prompting
// contract: the engine trusts the boolean verdict but validates its type.
func BuildVerificationPrompt(req VerificationRequest) string {
	return fmt.Sprintf(`STRICT FACT CHECK

Commitment under review (strategic goal):
"%s"
Background context: "%s"

Candidate evidence text:
"%s..."

YOUR TASK:
Decide whether the candidate evidence text proves beyond doubt that the commitment has been implemented, or names concrete measures or data towards it.

RULES:
- If the text merely restates the goal ("We plan to..."), that is NOT evidence -> false.
- If the text stays vague ("We have made progress"), that is NOT evidence -> false.
- Only hard facts (figures, "completed", "achieved", "budget allocated") count as evidence -> true.

Answer JSON: { "is_evidence": true, "reason": "Very short reason why (not)" }`, req.Claim.Text, req.Claim.Context, req.Excerpt)
}
