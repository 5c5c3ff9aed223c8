package analyze

import (
	"context"
	"fmt"

	"github.com/mobsr/greenwashing-analyzer/internal/llm"
	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

// excerptChars bounds the candidate evidence text handed to the oracle so
// prompt size stays flat regardless of page length.
const excerptChars = 1500

// DeepVerify scans the whole document for evidentiary support of every
// still-open claim, updating the registry in place. It can be called any
// number of times on the same registry; once no claims are OPEN it makes
// zero oracle calls. Failed adjudication calls count as "no evidence" and
// the scan moves on.
func (e *Engine) DeepVerify(ctx context.Context, chunks []model.Chunk, registry *model.Registry, progress ProgressFunc) error {
	if e.oracle == nil {
		return fmt.Errorf("no oracle configured")
	}
	if progress == nil {
		progress = func(float64, string) {}
	}

	openClaims := registry.Open()
	if len(openClaims) == 0 {
		return nil
	}

	e.log.Info().Int("open_claims", len(openClaims)).Int("chunks", len(chunks)).Msg("starting deep verification")

	totalOps := len(openClaims) * len(chunks)
	currentOp := 0

	for _, claim := range openClaims {
		keywords := claimKeywords(claim.Text)
		if len(keywords) == 0 {
			continue
		}

		for _, chunk := range chunks {
			currentOp++

			// A claim must never verify itself against its origin page.
			if chunk.Page == claim.Page {
				continue
			}
			if !passesFilter(keywords, chunk.Text) {
				continue
			}

			if err := ctx.Err(); err != nil {
				return err
			}
			progress(float64(currentOp)/float64(totalOps), fmt.Sprintf("Deep check: claim %d", claim.ID))

			if err := e.wait(ctx); err != nil {
				return err
			}

			verdict, err := e.oracle.VerifyClaim(ctx, llm.VerificationRequest{
				Claim:   claim,
				Excerpt: truncate(chunk.Text, excerptChars),
			})
			if err != nil {
				e.log.Warn().Err(err).Int("claim", claim.ID).Int("page", chunk.Page).Msg("adjudication failed, treating as no evidence")
				continue
			}

			if verdict.IsEvidence {
				evidence := fmt.Sprintf("Deep search (page %d): %s", chunk.Page, verdict.Reason)
				registry.Verify(claim.ID, evidence)
				e.log.Debug().Int("claim", claim.ID).Int("page", chunk.Page).Msg("claim potentially verified in pass 2")
				// First confirming evidence wins; stop scanning for this claim.
				break
			}
		}
	}

	progress(1.0, "Deep verification complete")
	return nil
}

// truncate returns a prefix of at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
