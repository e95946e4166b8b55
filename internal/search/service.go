package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spacebio/knowledge-engine/internal/domain"
	"github.com/spacebio/knowledge-engine/internal/observability"
	"github.com/spacebio/knowledge-engine/internal/sources/pubmed"
)

// maxAuthorsShown caps the author line on each search hit.
const maxAuthorsShown = 5

// Source provides the two upstream calls a search needs: the id lookup and
// the summary hydration.
type Source interface {
	SearchIDs(ctx context.Context, term string, retmax int) ([]string, error)
	Summaries(ctx context.Context, pmids []string) (map[string]pubmed.SummaryRecord, error)
}

// Service runs filtered searches. It never fails: an id-lookup failure
// yields an empty result set, and a hydration failure yields bare-id hits,
// in both cases with the expanded term attached for transparency.
type Service struct {
	source  Source
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewService creates a search service. metrics may be nil.
func NewService(source Source, logger zerolog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// Search expands the filters into a query term and returns the matching
// articles, hydrated with summary metadata where available.
func (s *Service) Search(ctx context.Context, f Filters) domain.SearchResult {
	term := BuildTerm(f)
	s.metrics.RecordSearch()

	ids, err := s.source.SearchIDs(ctx, term, 0)
	if err != nil {
		s.logger.Warn().Err(err).Str("term", term).Msg("Search id lookup failed")
		return domain.SearchResult{Results: []domain.Article{}, Term: term}
	}

	results := make([]domain.Article, 0, len(ids))
	if len(ids) == 0 {
		return domain.SearchResult{Results: results, Term: term}
	}

	records, err := s.source.Summaries(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Str("term", term).Msg("Search summary hydration failed")
		records = map[string]pubmed.SummaryRecord{}
	}

	for _, pmid := range ids {
		article := domain.Article{PMID: pmid}
		if rec, ok := records[pmid]; ok {
			article.Title = rec.Title
			article.Journal = rec.FullJournalName
			article.Year = yearToken(rec.PubDate)
			article.Authors = authorLine(rec.Authors)
		}
		results = append(results, article)
	}
	return domain.SearchResult{Results: results, Term: term}
}

// yearToken is the leading whitespace-delimited token of the free-form
// pubdate, typically the year.
func yearToken(pubDate string) string {
	fields := strings.Fields(pubDate)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// authorLine joins up to maxAuthorsShown author display names.
func authorLine(authors []pubmed.Author) string {
	names := make([]string, 0, maxAuthorsShown)
	for _, a := range authors {
		if len(names) == maxAuthorsShown {
			break
		}
		name := strings.TrimSpace(a.Name)
		if name == "" {
			name = strings.TrimSpace(strings.TrimSpace(a.LastName) + " " + strings.TrimSpace(a.Initials))
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
