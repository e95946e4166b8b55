package reputation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacebio/knowledge-engine/internal/config"
	"github.com/spacebio/knowledge-engine/internal/domain"
	"github.com/spacebio/knowledge-engine/internal/sources/pubmed"
)

type stubSource struct {
	summary    *pubmed.SummaryRecord
	summaryErr error

	citedBy    int
	citedByErr error

	journalCount int
	journalErr   error

	authorCount int
	authorErr   error

	gotJournal  string
	gotFromYear int
	gotToYear   int
	gotAuthor   string
}

func (s *stubSource) Summary(ctx context.Context, pmid string) (*pubmed.SummaryRecord, error) {
	return s.summary, s.summaryErr
}

func (s *stubSource) CitedByCount(ctx context.Context, pmid string) (int, error) {
	return s.citedBy, s.citedByErr
}

func (s *stubSource) CountJournalArticles(ctx context.Context, journal string, fromYear, toYear int) (int, error) {
	s.gotJournal = journal
	s.gotFromYear = fromYear
	s.gotToYear = toYear
	return s.journalCount, s.journalErr
}

func (s *stubSource) CountAuthorPublications(ctx context.Context, author string) (int, error) {
	s.gotAuthor = author
	return s.authorCount, s.authorErr
}

func testConfig() config.ReputationConfig {
	return config.ReputationConfig{
		ReferenceYear:      2025,
		CitationCap:        200,
		JournalActivityCap: 2000,
		AuthorActivityCap:  200,
		Confidence:         70,
	}
}

func summaryRecord(journal, pubDate, lastName, initials string, openAccess bool) *pubmed.SummaryRecord {
	rec := &pubmed.SummaryRecord{
		FullJournalName: journal,
		PubDate:         pubDate,
		Authors:         []pubmed.Author{{LastName: lastName, Initials: initials}},
	}
	if openAccess {
		rec.ArticleIDs = []pubmed.ArticleID{{IDType: "pmcid", Value: "PMC1234567"}}
	}
	return rec
}

func TestComputeAllSignalsFail(t *testing.T) {
	upstream := errors.New("connection refused")
	source := &stubSource{
		summaryErr: upstream,
		citedByErr: upstream,
	}
	scorer := NewScorer(source, testConfig(), zerolog.Nop(), nil)

	rep := scorer.Compute(context.Background(), "12345678")

	assert.Equal(t, domain.DimensionScores{
		JournalActivity: 0,
		Citations:       0,
		OpenAccess:      30,
		Recency:         60,
		AuthorActivity:  0,
	}, rep.Components)
	assert.Equal(t, 18, rep.Total)
	assert.Equal(t, domain.LevelLow, rep.Level)
	assert.Equal(t, 70, rep.Confidence)
	assert.False(t, rep.OpenAccess)
	assert.Empty(t, rep.Journal)
	assert.Zero(t, rep.Raw.PubYear)

	// Derived lookups are never issued without their keys.
	assert.Empty(t, source.gotJournal)
	assert.Empty(t, source.gotAuthor)
}

func TestComputeStrongRecord(t *testing.T) {
	source := &stubSource{
		summary:      summaryRecord("Nature Microgravity", "2025 Jan 10", "Smith", "JA", true),
		citedBy:      200,
		journalCount: 1000,
		authorCount:  100,
	}
	scorer := NewScorer(source, testConfig(), zerolog.Nop(), nil)

	rep := scorer.Compute(context.Background(), "12345678")

	assert.Equal(t, domain.DimensionScores{
		JournalActivity: 50,
		Citations:       100,
		OpenAccess:      100,
		Recency:         100,
		AuthorActivity:  50,
	}, rep.Components)
	assert.Equal(t, 80, rep.Total)
	assert.Equal(t, domain.LevelVeryHigh, rep.Level)
	assert.True(t, rep.OpenAccess)
	assert.Equal(t, "Nature Microgravity", rep.Journal)

	// Derived lookups use the summary's keys and a five-year window ending
	// at the publication year.
	assert.Equal(t, "Nature Microgravity", source.gotJournal)
	assert.Equal(t, 2021, source.gotFromYear)
	assert.Equal(t, 2025, source.gotToYear)
	assert.Equal(t, "Smith JA", source.gotAuthor)

	assert.Equal(t, 200, rep.Raw.Citations)
	assert.Equal(t, 1000, rep.Raw.JournalActivity)
	assert.Equal(t, 100, rep.Raw.AuthorPubs)
	assert.Equal(t, 2025, rep.Raw.PubYear)
}

func TestComputePartialCitations(t *testing.T) {
	source := &stubSource{
		summaryErr: errors.New("timeout"),
		citedBy:    50,
	}
	scorer := NewScorer(source, testConfig(), zerolog.Nop(), nil)

	rep := scorer.Compute(context.Background(), "12345678")

	assert.Equal(t, 25, rep.Components.Citations)
	assert.Equal(t, 50, rep.Raw.Citations)
}

func TestComputeUnknownYearWindow(t *testing.T) {
	source := &stubSource{
		summary: summaryRecord("Journal of Testing", "n.d.", "Smith", "JA", false),
	}
	scorer := NewScorer(source, testConfig(), zerolog.Nop(), nil)

	rep := scorer.Compute(context.Background(), "12345678")

	// Unknown year: neutral recency, and the activity window falls back to
	// the configured reference year.
	assert.Equal(t, 60, rep.Components.Recency)
	assert.Equal(t, 2021, source.gotFromYear)
	assert.Equal(t, 2025, source.gotToYear)
}

func TestComputeAlwaysFiveDimensions(t *testing.T) {
	// Whatever subset of fetches fails, the composite is the mean of exactly
	// five dimension terms, so the total stays within [0,100].
	cases := []stubSource{
		{summaryErr: errors.New("down"), citedByErr: errors.New("down")},
		{summary: summaryRecord("J", "2020", "A", "B", true), citedByErr: errors.New("down"), journalErr: errors.New("down"), authorErr: errors.New("down")},
		{summary: summaryRecord("J", "2020", "A", "B", false), citedBy: 99999, journalCount: 99999, authorCount: 99999},
	}

	for i := range cases {
		scorer := NewScorer(&cases[i], testConfig(), zerolog.Nop(), nil)
		rep := scorer.Compute(context.Background(), "12345678")

		sum := rep.Components.JournalActivity + rep.Components.Citations +
			rep.Components.OpenAccess + rep.Components.Recency + rep.Components.AuthorActivity
		require.GreaterOrEqual(t, rep.Total, 0)
		require.LessOrEqual(t, rep.Total, 100)
		assert.Equal(t, int(math.Round(float64(sum)/5)), rep.Total)
		assert.Equal(t, domain.LevelFor(rep.Total), rep.Level)
	}
}
