package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mobsr/greenwashing-analyzer/internal/analyze"
	"github.com/mobsr/greenwashing-analyzer/internal/cache"
	"github.com/mobsr/greenwashing-analyzer/internal/llm"
	"github.com/mobsr/greenwashing-analyzer/internal/loader"
	"github.com/mobsr/greenwashing-analyzer/internal/model"
	"github.com/mobsr/greenwashing-analyzer/internal/worker"
)

// Pipeline orchestrates a complete audit: page extraction, the sequential
// analysis pass and, on request, the deep-verification pass.
type Pipeline struct {
	loader   *loader.Loader
	engine   *analyze.Engine
	config   *model.Config
	log      zerolog.Logger
	progress analyze.ProgressFunc // optional
}

// New creates a pipeline from configuration. Construction fails when the
// oracle cannot be built, so no partial run ever starts without a working
// provider.
func New(cfg *model.Config, logger zerolog.Logger) (*Pipeline, error) {
	oracle, err := llm.NewOracle(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("configure oracle: %w", err)
	}
	if oracle == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	var pacer analyze.Pacer
	if cfg.RateLimit.RequestsPerSecond > 0 {
		pacer = worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	}

	return &Pipeline{
		loader: loader.New(cfg.Loader, c, logger),
		engine: analyze.NewEngine(oracle, pacer, logger),
		config: cfg,
		log:    logger,
	}, nil
}

// SetProgress installs a progress callback used by both passes.
func (p *Pipeline) SetProgress(fn analyze.ProgressFunc) {
	p.progress = fn
}

// AuditFile loads a report and runs the sequential pass, followed by deep
// verification when deep is true. The returned result may be degraded
// (some pages failed) without an error: partial results always beat
// aborting.
func (p *Pipeline) AuditFile(ctx context.Context, path string, tags model.TagSet, deep bool) (*model.AuditResult, error) {
	chunks, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}

	result, err := p.engine.Analyze(ctx, chunks, tags, p.progress)
	if err != nil {
		return nil, fmt.Errorf("sequential pass: %w", err)
	}
	result.Source = filepath.Base(path)

	if deep {
		if err := p.engine.DeepVerify(ctx, chunks, result.Claims, p.progress); err != nil {
			return nil, fmt.Errorf("deep verification: %w", err)
		}
	}

	return result, nil
}

// DeepVerify re-runs the deep-verification pass over an existing result,
// e.g. after the caller inspected the open claims. It is callable any
// number of times; fully verified registries cost zero oracle calls.
func (p *Pipeline) DeepVerify(ctx context.Context, path string, result *model.AuditResult) error {
	chunks, err := p.loader.Load(path)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}
	return p.engine.DeepVerify(ctx, chunks, result.Claims, p.progress)
}
