package reputation

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spacebio/knowledge-engine/internal/config"
	"github.com/spacebio/knowledge-engine/internal/domain"
	"github.com/spacebio/knowledge-engine/internal/observability"
	"github.com/spacebio/knowledge-engine/internal/sources/pubmed"
)

// journalWindowYears is the span of the journal-activity lookup, inclusive
// of the anchor year.
const journalWindowYears = 5

// SignalSource provides the upstream lookups the scorer composes. Each call
// is a single attempt: the source enforces its own timeout, and any error is
// final for that signal within the request.
type SignalSource interface {
	// Summary resolves journal, publication year, first author and the
	// open-access indicator for one record.
	Summary(ctx context.Context, pmid string) (*pubmed.SummaryRecord, error)

	// CitedByCount counts records citing the given one.
	CitedByCount(ctx context.Context, pmid string) (int, error)

	// CountJournalArticles counts records the journal published in the
	// inclusive year window.
	CountJournalArticles(ctx context.Context, journal string, fromYear, toYear int) (int, error)

	// CountAuthorPublications counts records attributed to the author.
	CountAuthorPublications(ctx context.Context, author string) (int, error)
}

// Scorer computes composite reputation results. It never fails: every
// upstream failure degrades to a default value for that signal, and the
// composite is always assembled from exactly five dimension scores.
type Scorer struct {
	source  SignalSource
	cfg     config.ReputationConfig
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewScorer creates a scorer over the given signal source. metrics may be
// nil.
func NewScorer(source SignalSource, cfg config.ReputationConfig, logger zerolog.Logger, metrics *observability.Metrics) *Scorer {
	return &Scorer{
		source:  source,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Compute assembles the composite reputation for one publication identifier.
//
// The lookups run in two concurrent phases: the summary and cited-by fetches
// are independent and start together; the journal-activity and author-
// activity fetches need keys derived from the summary, so they start, again
// together, once the summary has settled. The composite is only normalized
// after every issued fetch has returned an outcome.
func (s *Scorer) Compute(ctx context.Context, pmid string) domain.Reputation {
	start := time.Now()

	var (
		summary   *pubmed.SummaryRecord
		citations int
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		rec, err := s.source.Summary(ctx, pmid)
		if err != nil {
			s.signalFailed("summary", pmid, err)
			return
		}
		summary = rec
	}()
	go func() {
		defer wg.Done()
		n, err := s.source.CitedByCount(ctx, pmid)
		if err != nil {
			s.signalFailed("citations", pmid, err)
			return
		}
		citations = n
	}()
	wg.Wait()

	signals := domain.Signals{Citations: citations}
	if summary != nil {
		signals.Journal = summary.JournalName()
		signals.PubYear = summary.PublicationYear()
		signals.FirstAuthor = summary.FirstAuthor()
		signals.OpenAccess = summary.HasPMCID()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		if signals.Journal == "" {
			return
		}
		from, to := s.journalWindow(signals.PubYear)
		n, err := s.source.CountJournalArticles(ctx, signals.Journal, from, to)
		if err != nil {
			s.signalFailed("journal_activity", pmid, err)
			return
		}
		signals.JournalActivity = n
	}()
	go func() {
		defer wg.Done()
		if signals.FirstAuthor == "" {
			return
		}
		n, err := s.source.CountAuthorPublications(ctx, signals.FirstAuthor)
		if err != nil {
			s.signalFailed("author_activity", pmid, err)
			return
		}
		signals.AuthorPubs = n
	}()
	wg.Wait()

	components := domain.DimensionScores{
		JournalActivity: CapLinear(signals.JournalActivity, s.cfg.JournalActivityCap),
		Citations:       CapLinear(signals.Citations, s.cfg.CitationCap),
		OpenAccess:      OpenAccessScore(signals.OpenAccess),
		Recency:         RecencyScore(signals.PubYear, s.cfg.ReferenceYear),
		AuthorActivity:  CapLinear(signals.AuthorPubs, s.cfg.AuthorActivityCap),
	}
	total := compositeTotal(components)
	level := domain.LevelFor(total)

	s.metrics.RecordReputation(string(level), time.Since(start))
	s.logger.Debug().
		Str("pmid", pmid).
		Int("total", total).
		Str("level", string(level)).
		Dur("duration", time.Since(start)).
		Msg("Reputation computed")

	return domain.Reputation{
		OpenAccess: signals.OpenAccess,
		Journal:    signals.Journal,
		Total:      total,
		Level:      level,
		Confidence: s.cfg.Confidence,
		Components: components,
		Raw:        signals,
	}
}

// journalWindow is the inclusive year range for the journal-activity lookup:
// the window ends at the publication year, or at the configured reference
// year when the publication year is unknown.
func (s *Scorer) journalWindow(pubYear int) (from, to int) {
	to = pubYear
	if to <= 0 {
		to = s.cfg.ReferenceYear
	}
	return to - (journalWindowYears - 1), to
}

func (s *Scorer) signalFailed(signal, pmid string, err error) {
	s.metrics.RecordSignalFailure(signal)
	logger := observability.WithSignalContext(s.logger, signal)
	logger.Warn().
		Err(err).
		Str("pmid", pmid).
		Msg("Signal fetch failed, using default")
}

// compositeTotal is the unweighted mean of the five dimension scores,
// rounded to the nearest integer. The average is always over exactly five
// terms; absent signals were already defaulted into the raw values.
func compositeTotal(c domain.DimensionScores) int {
	sum := c.JournalActivity + c.Citations + c.OpenAccess + c.Recency + c.AuthorActivity
	return int(math.Round(float64(sum) / 5))
}
