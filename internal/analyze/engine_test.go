package analyze

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mobsr/greenwashing-analyzer/internal/llm"
	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

// mockOracle implements llm.Oracle for testing
type mockOracle struct {
	analyzeFn    func(req llm.AnalysisRequest) (*llm.AnalysisResult, error)
	verifyFn     func(req llm.VerificationRequest) (*llm.VerificationResult, error)
	analyzeCalls []llm.AnalysisRequest
	verifyCalls  []llm.VerificationRequest
}

func (m *mockOracle) Name() string  { return "mock" }
func (m *mockOracle) Model() string { return "mock-model" }

func (m *mockOracle) IsAvailable(ctx context.Context) bool { return true }

func (m *mockOracle) AnalyzeChunk(ctx context.Context, req llm.AnalysisRequest) (*llm.AnalysisResult, error) {
	m.analyzeCalls = append(m.analyzeCalls, req)
	if m.analyzeFn != nil {
		return m.analyzeFn(req)
	}
	return &llm.AnalysisResult{}, nil
}

func (m *mockOracle) VerifyClaim(ctx context.Context, req llm.VerificationRequest) (*llm.VerificationResult, error) {
	m.verifyCalls = append(m.verifyCalls, req)
	if m.verifyFn != nil {
		return m.verifyFn(req)
	}
	return &llm.VerificationResult{}, nil
}

func newTestEngine(oracle llm.Oracle) *Engine {
	return NewEngine(oracle, nil, zerolog.Nop())
}

func TestEngine_Analyze_EmptyDocument(t *testing.T) {
	oracle := &mockOracle{}
	engine := newTestEngine(oracle)

	result, err := engine.Analyze(context.Background(), nil, model.DefaultTags(), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Findings) != 0 {
		t.Errorf("expected no findings, got %d", len(result.Findings))
	}
	if result.Claims.Len() != 0 {
		t.Errorf("expected empty registry, got %d claims", result.Claims.Len())
	}
	if result.TotalChunks != 0 {
		t.Errorf("expected 0 chunks, got %d", result.TotalChunks)
	}
	if len(oracle.analyzeCalls) != 0 {
		t.Errorf("expected zero oracle calls, got %d", len(oracle.analyzeCalls))
	}
}

func TestEngine_Analyze_NoOracle(t *testing.T) {
	engine := newTestEngine(nil)
	if _, err := engine.Analyze(context.Background(), nil, nil, nil); err == nil {
		t.Fatal("expected error for missing oracle")
	}
}

func TestEngine_Analyze_ClaimIDsMonotonic(t *testing.T) {
	// An invalid (empty) new-claim entry must not advance the id counter.
	oracle := &mockOracle{
		analyzeFn: func(req llm.AnalysisRequest) (*llm.AnalysisResult, error) {
			if req.Page == 1 {
				return &llm.AnalysisResult{
					NewClaims: []llm.NewClaimItem{
						{Claim: "   ", Context: "whitespace only"},
						{Claim: "We will reach net zero by 2035.", Context: "Strategy chapter"},
					},
				}, nil
			}
			return &llm.AnalysisResult{
				NewClaims: []llm.NewClaimItem{
					{Claim: "All sites switch to renewable power by 2028.", Context: ""},
				},
			}, nil
		},
	}
	engine := newTestEngine(oracle)

	chunks := []model.Chunk{
		{Page: 1, Text: "page one"},
		{Page: 2, Text: "page two"},
	}
	result, err := engine.Analyze(context.Background(), chunks, nil, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	claims := result.Claims.All()
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	if claims[0].ID != 1 {
		t.Errorf("expected first claim id 1, got %d", claims[0].ID)
	}
	if claims[1].ID != 2 {
		t.Errorf("expected second claim id 2, got %d", claims[1].ID)
	}
	if claims[0].Status != model.StatusOpen {
		t.Errorf("new claims must start OPEN, got %s", claims[0].Status)
	}
	if claims[0].Evidence != "" {
		t.Errorf("new claims must have no evidence, got %q", claims[0].Evidence)
	}
}

func TestEngine_Analyze_ContextIsolation(t *testing.T) {
	// Findings and claims returned while analyzing page 2 must be
	// attributed to page 2, regardless of the prev/next windows.
	oracle := &mockOracle{
		analyzeFn: func(req llm.AnalysisRequest) (*llm.AnalysisResult, error) {
			if req.Page != 2 {
				return &llm.AnalysisResult{}, nil
			}
			return &llm.AnalysisResult{
				Findings: []llm.FindingItem{
					{Category: "VAGUE", Quote: "B (target)", Reasoning: "unspecific"},
				},
				NewClaims: []llm.NewClaimItem{
					{Claim: "We will plant a forest.", Context: ""},
				},
			}, nil
		},
	}
	engine := newTestEngine(oracle)

	chunks := []model.Chunk{
		{Page: 1, Text: "A"},
		{Page: 2, Text: "B (target)"},
		{Page: 3, Text: "C"},
	}
	result, err := engine.Analyze(context.Background(), chunks, nil, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Findings) != 1 || result.Findings[0].Page != 2 {
		t.Fatalf("expected one finding on page 2, got %+v", result.Findings)
	}
	claims := result.Claims.All()
	if len(claims) != 1 || claims[0].Page != 2 {
		t.Fatalf("expected one claim on page 2, got %+v", claims)
	}

	// The middle call must carry its neighbors as context text.
	mid := oracle.analyzeCalls[1]
	if mid.PrevText != "A" || mid.NextText != "C" {
		t.Errorf("expected prev/next context A/C, got %q/%q", mid.PrevText, mid.NextText)
	}
	first := oracle.analyzeCalls[0]
	if first.PrevText != "" {
		t.Errorf("first chunk must have empty prev context, got %q", first.PrevText)
	}
	last := oracle.analyzeCalls[2]
	if last.NextText != "" {
		t.Errorf("last chunk must have empty next context, got %q", last.NextText)
	}
}

func TestEngine_Analyze_RegistrySnapshots(t *testing.T) {
	// Later pages must see all earlier claims plus the open subset.
	oracle := &mockOracle{
		analyzeFn: func(req llm.AnalysisRequest) (*llm.AnalysisResult, error) {
			if req.Page == 1 {
				return &llm.AnalysisResult{
					NewClaims: []llm.NewClaimItem{{Claim: "Cut emissions in half.", Context: ""}},
				}, nil
			}
			return &llm.AnalysisResult{}, nil
		},
	}
	engine := newTestEngine(oracle)

	chunks := []model.Chunk{
		{Page: 1, Text: "one"},
		{Page: 2, Text: "two"},
	}
	if _, err := engine.Analyze(context.Background(), chunks, nil, nil); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	second := oracle.analyzeCalls[1]
	if len(second.AllClaims) != 1 || second.AllClaims[0].Text != "Cut emissions in half." {
		t.Errorf("expected registry snapshot with 1 claim, got %+v", second.AllClaims)
	}
	if len(second.OpenClaims) != 1 {
		t.Errorf("expected 1 open claim in snapshot, got %d", len(second.OpenClaims))
	}
}

func TestEngine_Analyze_ClaimUpdateGating(t *testing.T) {
	// Updates apply only to existing OPEN claims targeting
	// POTENTIALLY_VERIFIED; everything else is silently ignored.
	oracle := &mockOracle{
		analyzeFn: func(req llm.AnalysisRequest) (*llm.AnalysisResult, error) {
			switch req.Page {
			case 1:
				return &llm.AnalysisResult{
					NewClaims: []llm.NewClaimItem{{Claim: "Install 50 MW of solar.", Context: ""}},
				}, nil
			case 2:
				return &llm.AnalysisResult{
					ClaimUpdates: []llm.ClaimUpdate{
						{ID: 99, Status: "POTENTIALLY_VERIFIED", Reason: "unknown id"},
						{ID: 1, Status: "VERIFIED", Reason: "wrong status value"},
						{ID: 1, Status: "POTENTIALLY_VERIFIED", Reason: "20 MW installed in 2024"},
						{ID: 1, Status: "POTENTIALLY_VERIFIED", Reason: "second update is a no-op"},
					},
				}, nil
			}
			return &llm.AnalysisResult{}, nil
		},
	}
	engine := newTestEngine(oracle)

	chunks := []model.Chunk{
		{Page: 1, Text: "one"},
		{Page: 2, Text: "two"},
	}
	result, err := engine.Analyze(context.Background(), chunks, nil, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	claim, ok := result.Claims.Get(1)
	if !ok {
		t.Fatal("claim 1 missing")
	}
	if claim.Status != model.StatusPotentiallyVerified {
		t.Fatalf("expected POTENTIALLY_VERIFIED, got %s", claim.Status)
	}
	if claim.Evidence != "Page 2 (sequential pass): 20 MW installed in 2024" {
		t.Errorf("unexpected evidence: %q", claim.Evidence)
	}
}

func TestEngine_Analyze_NoSelfVerificationInPass1(t *testing.T) {
	// A claim extracted on page 1 cannot be verified by page 1's own text.
	oracle := &mockOracle{
		analyzeFn: func(req llm.AnalysisRequest) (*llm.AnalysisResult, error) {
			return &llm.AnalysisResult{
				NewClaims: []llm.NewClaimItem{{Claim: "Launch recycling program.", Context: ""}},
				ClaimUpdates: []llm.ClaimUpdate{
					{ID: 1, Status: "POTENTIALLY_VERIFIED", Reason: "same page"},
				},
			}, nil
		},
	}
	engine := newTestEngine(oracle)

	chunks := []model.Chunk{{Page: 1, Text: "one"}}
	result, err := engine.Analyze(context.Background(), chunks, nil, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	claim, _ := result.Claims.Get(1)
	if claim.Status != model.StatusOpen {
		t.Errorf("self-verification must be rejected, got status %s", claim.Status)
	}
}

func TestEngine_Analyze_PartialFailure(t *testing.T) {
	// A failing page is skipped and recorded; the run completes.
	oracle := &mockOracle{
		analyzeFn: func(req llm.AnalysisRequest) (*llm.AnalysisResult, error) {
			switch req.Page {
			case 2:
				return nil, fmt.Errorf("rate limited")
			default:
				return &llm.AnalysisResult{
					Findings: []llm.FindingItem{
						{Category: "DATA_GAP", Quote: "q", Reasoning: "r"},
					},
					NewClaims: []llm.NewClaimItem{
						{Claim: fmt.Sprintf("Commitment from page %d.", req.Page), Context: ""},
					},
				}, nil
			}
		},
	}
	engine := newTestEngine(oracle)

	chunks := []model.Chunk{
		{Page: 1, Text: "one"},
		{Page: 2, Text: "two"},
		{Page: 3, Text: "three"},
	}
	result, err := engine.Analyze(context.Background(), chunks, nil, nil)
	if err != nil {
		t.Fatalf("degraded run must not error: %v", err)
	}

	if len(result.FailedPages) != 1 || result.FailedPages[0] != 2 {
		t.Errorf("expected failed pages [2], got %v", result.FailedPages)
	}
	if !result.Degraded() {
		t.Error("expected degraded result")
	}
	if result.Error == "" {
		t.Error("expected error summary on degraded result")
	}
	if len(result.Findings) != 2 {
		t.Errorf("expected findings from pages 1 and 3, got %d", len(result.Findings))
	}
	if result.Claims.Len() != 2 {
		t.Errorf("expected claims from pages 1 and 3, got %d", result.Claims.Len())
	}
}

func TestEngine_Analyze_ProgressReporting(t *testing.T) {
	oracle := &mockOracle{}
	engine := newTestEngine(oracle)

	var fractions []float64
	progress := func(fraction float64, message string) {
		fractions = append(fractions, fraction)
		if message == "" {
			t.Error("progress message must not be empty")
		}
	}

	chunks := []model.Chunk{
		{Page: 1, Text: "one"},
		{Page: 2, Text: "two"},
	}
	if _, err := engine.Analyze(context.Background(), chunks, nil, progress); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(fractions) < 3 {
		t.Fatalf("expected at least one call per chunk plus completion, got %d", len(fractions))
	}
	if fractions[len(fractions)-1] != 1.0 {
		t.Errorf("final progress must be 1.0, got %f", fractions[len(fractions)-1])
	}
	for _, f := range fractions {
		if f < 0 || f > 1 {
			t.Errorf("progress fraction out of range: %f", f)
		}
	}
}

func TestEngine_Analyze_ProgressNamesDocumentPages(t *testing.T) {
	// Short pages dropped during extraction leave gaps in the page
	// sequence; the progress label must name the document page, not the
	// chunk index.
	oracle := &mockOracle{}
	engine := newTestEngine(oracle)

	var messages []string
	progress := func(_ float64, message string) {
		messages = append(messages, message)
	}

	chunks := []model.Chunk{
		{Page: 2, Text: "two"},
		{Page: 5, Text: "five"},
	}
	if _, err := engine.Analyze(context.Background(), chunks, nil, progress); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(messages) < 2 {
		t.Fatalf("expected per-chunk progress messages, got %d", len(messages))
	}
	if !strings.Contains(messages[0], "page 2") {
		t.Errorf("first message must name page 2, got %q", messages[0])
	}
	if !strings.Contains(messages[1], "page 5") {
		t.Errorf("second message must name page 5, got %q", messages[1])
	}
}
