// Package domain contains the core types shared across the knowledge engine.
package domain

// Level is the qualitative label assigned to a composite reputation score.
type Level string

// Reputation levels, ordered from lowest to highest.
const (
	LevelLow      Level = "Low"
	LevelMedium   Level = "Medium"
	LevelHigh     Level = "High"
	LevelVeryHigh Level = "Very High"
)

// Level thresholds. A total below LevelMediumMin is Low, and so on up.
const (
	levelMediumMin   = 40
	levelHighMin     = 60
	levelVeryHighMin = 80
)

// LevelFor maps a composite total in [0,100] to its qualitative level.
// It is a total function of the score; no other input affects the label.
func LevelFor(total int) Level {
	switch {
	case total < levelMediumMin:
		return LevelLow
	case total < levelHighMin:
		return LevelMedium
	case total < levelVeryHighMin:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// Signals holds the raw values extracted from upstream sources for one
// publication. Every field is independently defaultable: a zero value means
// the signal was absent, and absence of one signal never blocks the others.
//
// A Signals value is created fresh per request and discarded once the
// response is built.
type Signals struct {
	// Journal is the resolved journal name, empty if unknown.
	Journal string

	// PubYear is the publication year, 0 if unknown.
	PubYear int

	// FirstAuthor is the first author as "LastName Initials", empty if the
	// record lists no authors.
	FirstAuthor string

	// OpenAccess reports whether an archival (PMC) copy exists.
	OpenAccess bool

	// Citations is the number of records citing this publication.
	Citations int

	// JournalActivity is the number of records the journal published in the
	// five-year window ending at the publication year.
	JournalActivity int

	// AuthorPubs is the publication count attributed to the first author.
	AuthorPubs int
}

// DimensionScores holds the five normalized signal scores, each in [0,100].
type DimensionScores struct {
	JournalActivity int
	Citations       int
	OpenAccess      int
	Recency         int
	AuthorActivity  int
}

// Reputation is the fully assembled composite result for one publication.
type Reputation struct {
	// OpenAccess is the open-access indicator as delivered to the caller.
	OpenAccess bool

	// Journal is the resolved journal name, empty if unknown.
	Journal string

	// Total is the unweighted mean of the five dimension scores, in [0,100].
	Total int

	// Level is the qualitative label derived from Total.
	Level Level

	// Confidence is a static marker documenting that the score is a
	// heuristic proxy, not a statistically derived interval.
	Confidence int

	// Components are the per-dimension scores.
	Components DimensionScores

	// Raw carries the pre-normalization values for caller-side transparency,
	// letting callers distinguish genuine low scores from low-signal defaults.
	Raw Signals
}
