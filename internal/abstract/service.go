package abstract

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spacebio/knowledge-engine/internal/observability"
)

// Stage labels for the retrieval metric.
const (
	stageXML  = "xml"
	stageText = "text"
	stageHTML = "html"
	stageNone = "none"
)

// Fetcher provides the three upstream renderings of a record the fallback
// chain draws from.
type Fetcher interface {
	// AbstractXML fetches the structured XML document for a record.
	AbstractXML(ctx context.Context, pmid string) ([]byte, error)

	// AbstractText fetches the plaintext abstract rendering.
	AbstractText(ctx context.Context, pmid string) (string, error)

	// ArticlePageHTML fetches the public article page.
	ArticlePageHTML(ctx context.Context, pmid string) ([]byte, error)
}

// Service retrieves abstracts with a three-stage fallback: structured XML
// first, the plaintext rendering second, and a page scrape last. It never
// fails: when every stage misses, the abstract is simply empty.
type Service struct {
	fetcher Fetcher
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewService creates an abstract-retrieval service. metrics may be nil.
func NewService(fetcher Fetcher, logger zerolog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
}

// Abstract returns the best available abstract text for the record, or an
// empty string when no stage produced one.
func (s *Service) Abstract(ctx context.Context, pmid string) string {
	if doc, err := s.fetcher.AbstractXML(ctx, pmid); err == nil {
		if text := extractFromXML(doc); text != "" {
			s.metrics.RecordAbstractStage(stageXML)
			return text
		}
	} else {
		s.logger.Debug().Err(err).Str("pmid", pmid).Msg("XML abstract fetch failed")
	}

	if plain, err := s.fetcher.AbstractText(ctx, pmid); err == nil {
		if plain = strings.TrimSpace(plain); plain != "" {
			s.metrics.RecordAbstractStage(stageText)
			return plain
		}
	} else {
		s.logger.Debug().Err(err).Str("pmid", pmid).Msg("Plaintext abstract fetch failed")
	}

	if page, err := s.fetcher.ArticlePageHTML(ctx, pmid); err == nil {
		if text := extractFromHTML(page); text != "" {
			s.metrics.RecordAbstractStage(stageHTML)
			return text
		}
	} else {
		s.logger.Debug().Err(err).Str("pmid", pmid).Msg("Article page fetch failed")
	}

	s.metrics.RecordAbstractStage(stageNone)
	return ""
}
