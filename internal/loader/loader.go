package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/mobsr/greenwashing-analyzer/internal/cache"
	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

// Loader turns a PDF report into the ordered chunk sequence both analysis
// passes consume: one chunk per page, 1-based page numbers, document order.
type Loader struct {
	maxPages int
	minChars int
	cache    cache.Cache // optional, may be nil
	log      zerolog.Logger
}

// New creates a report loader. maxPages of 0 means all pages; pages whose
// extracted text is shorter than minChars are skipped (cover sheets,
// full-page imagery).
func New(cfg model.LoaderConfig, c cache.Cache, logger zerolog.Logger) *Loader {
	minChars := cfg.MinPageChars
	if minChars <= 0 {
		minChars = 50
	}
	return &Loader{
		maxPages: cfg.MaxPages,
		minChars: minChars,
		cache:    c,
		log:      logger,
	}
}

// Load extracts page chunks from the PDF at path, consulting the cache
// first when one is configured.
func (l *Loader) Load(path string) ([]model.Chunk, error) {
	key, err := l.cacheKey(path)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if data, found := l.cache.Get(key); found {
			var chunks []model.Chunk
			if err := json.Unmarshal(data, &chunks); err == nil {
				l.log.Debug().Str("file", path).Int("chunks", len(chunks)).Msg("loaded chunks from cache")
				return chunks, nil
			}
			// Corrupt entry, fall through to re-extraction.
			_ = l.cache.Delete(key)
		}
	}

	chunks, err := l.extract(path)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if data, err := json.Marshal(chunks); err == nil {
			if err := l.cache.Set(key, data, 0); err != nil {
				l.log.Warn().Err(err).Msg("failed to cache extracted chunks")
			}
		}
	}
	return chunks, nil
}

func (l *Loader) extract(path string) ([]model.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat report: %w", err)
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("read PDF: %w", err)
	}

	numPages := reader.NumPage()
	limit := numPages
	if l.maxPages > 0 && l.maxPages < limit {
		limit = l.maxPages
	}

	l.log.Info().Str("file", path).Int("pages", numPages).Int("limit", limit).Msg("extracting report")

	source := filepath.Base(path)
	var chunks []model.Chunk
	for i := 1; i <= limit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not sink the extraction.
			l.log.Warn().Err(err).Int("page", i).Msg("failed to extract page text")
			continue
		}
		chunks = append(chunks, pageChunks(text, i, source, l.minChars)...)
	}

	l.log.Info().Int("chunks", len(chunks)).Msg("extraction complete")
	return chunks, nil
}

// pageChunks converts one page's raw text into zero or one chunks. Pages
// with less than minChars of content are dropped; their page numbers are
// simply absent from the sequence, matching the source document numbering.
func pageChunks(text string, page int, source string, minChars int) []model.Chunk {
	if len(strings.TrimSpace(text)) < minChars {
		return nil
	}
	return []model.Chunk{{
		Page:   page,
		Text:   text,
		Source: source,
	}}
}

func (l *Loader) cacheKey(path string) (string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat report: %w", err)
	}
	return cache.FileKey(path, stat.Size(), stat.ModTime(), l.maxPages), nil
}
