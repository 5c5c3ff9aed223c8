package analyze

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mobsr/greenwashing-analyzer/internal/llm"
	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

// ProgressFunc is invoked synchronously from the engine's goroutine with a
// fraction in [0,1] and a status message, at least once per chunk and once
// on completion. It doubles as the caller's checkpoint for abandoning a
// long run.
type ProgressFunc func(fraction float64, message string)

// Pacer throttles oracle calls. worker.Limiter satisfies this.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Engine runs both analysis passes against a single oracle. The sequential
// pass is strictly ordered: each page's analysis depends on the claim
// registry accumulated from all previous pages.
type Engine struct {
	oracle llm.Oracle
	pacer  Pacer // optional, may be nil
	log    zerolog.Logger
}

// NewEngine creates an analysis engine.
func NewEngine(oracle llm.Oracle, pacer Pacer, logger zerolog.Logger) *Engine {
	return &Engine{
		oracle: oracle,
		pacer:  pacer,
		log:    logger,
	}
}

// Analyze walks the chunks once in page order, building the findings list
// and claim registry. A failed oracle call skips that page and continues;
// the failed page numbers are surfaced on the result. Only a missing
// oracle is fatal.
func (e *Engine) Analyze(ctx context.Context, chunks []model.Chunk, tags model.TagSet, progress ProgressFunc) (*model.AuditResult, error) {
	if e.oracle == nil {
		return nil, fmt.Errorf("no oracle configured")
	}
	if progress == nil {
		progress = func(float64, string) {}
	}

	result := &model.AuditResult{
		AuditedAt:   time.Now().UTC(),
		ModelUsed:   e.oracle.Model(),
		TotalChunks: len(chunks),
		Findings:    []model.Finding{},
		Claims:      model.NewRegistry(),
	}

	total := len(chunks)
	if total == 0 {
		return result, nil
	}

	e.log.Info().Int("chunks", total).Str("model", result.ModelUsed).Msg("starting sequential pass")

	var failedPages []int
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		// The label names the document page; short pages dropped by the
		// loader leave gaps, so the chunk index alone would mislabel.
		progress(float64(i+1)/float64(total), fmt.Sprintf("Pass 1: page %d (%d/%d)", chunk.Page, i+1, total))

		prevText := ""
		if i > 0 {
			prevText = chunks[i-1].Text
		}
		nextText := ""
		if i < total-1 {
			nextText = chunks[i+1].Text
		}

		req := llm.AnalysisRequest{
			Page:       chunk.Page,
			PrevText:   prevText,
			Text:       chunk.Text,
			NextText:   nextText,
			Tags:       tags,
			AllClaims:  result.Claims.All(),
			OpenClaims: result.Claims.Open(),
		}

		if err := e.wait(ctx); err != nil {
			return result, err
		}

		res, err := e.oracle.AnalyzeChunk(ctx, req)
		if err != nil {
			e.log.Warn().Err(err).Int("page", chunk.Page).Msg("oracle call failed, skipping page")
			failedPages = append(failedPages, chunk.Page)
			continue
		}

		e.apply(result, chunk, res)
	}

	progress(1.0, "Pass 1 complete")

	result.FailedPages = failedPages
	if result.Degraded() {
		result.Error = result.FailureSummary()
		e.log.Warn().Ints("pages", failedPages).Msg("sequential pass degraded")
	}

	e.log.Info().
		Int("findings", len(result.Findings)).
		Int("claims", result.Claims.Len()).
		Msg("sequential pass complete")

	return result, nil
}

// apply folds one validated oracle response into the run state. Findings
// and claims are attributed to the analyzed chunk's own page only.
func (e *Engine) apply(result *model.AuditResult, chunk model.Chunk, res *llm.AnalysisResult) {
	for _, f := range res.Findings {
		result.Findings = append(result.Findings, model.Finding{
			Page:      chunk.Page,
			Category:  f.Category,
			Quote:     f.Quote,
			Reasoning: f.Reasoning,
		})
	}

	for _, item := range res.NewClaims {
		// Empty claim text is discarded without advancing the id counter.
		if strings.TrimSpace(item.Claim) == "" {
			continue
		}
		result.Claims.Add(item.Claim, item.Context, chunk.Page)
	}

	for _, update := range res.ClaimUpdates {
		if update.Status != string(model.StatusPotentiallyVerified) {
			continue
		}
		target, ok := result.Claims.Get(update.ID)
		if !ok {
			continue
		}
		// A claim cannot cite its own origin page as evidence.
		if target.Page == chunk.Page {
			continue
		}
		evidence := fmt.Sprintf("Page %d (sequential pass): %s", chunk.Page, update.Reason)
		if result.Claims.Verify(update.ID, evidence) {
			e.log.Debug().Int("claim", update.ID).Int("page", chunk.Page).Msg("claim potentially verified in pass 1")
		}
	}
}

func (e *Engine) wait(ctx context.Context) error {
	if e.pacer == nil {
		return nil
	}
	return e.pacer.Wait(ctx)
}
