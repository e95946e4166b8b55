// Package reputation implements the composite reputation-scoring pipeline:
// it gathers independent signals about a publication, normalizes each to a
// 0-100 dimension score, and combines them into a labeled composite.
package reputation

import "math"

// Neutral defaults applied when a signal cannot be resolved.
const (
	// openAccessPresentScore and openAccessAbsentScore make open access a
	// binary dimension. Absence scores above zero: a paywalled record still
	// has nonzero credibility.
	openAccessPresentScore = 100
	openAccessAbsentScore  = 30

	// recencyUnknownScore is the neutral midpoint used when no publication
	// year could be parsed.
	recencyUnknownScore = 60

	// recencyFloor is the minimum recency score for arbitrarily old records.
	recencyFloor = 10

	// recencyDecayPerYear is how many points a record loses per year of age.
	recencyDecayPerYear = 10
)

// CapLinear scales a raw count linearly against a saturation cap into [0,100].
// Negative inputs clamp to 0 and values at or above the cap score 100; the
// saturation expresses diminishing returns past the cap rather than an
// open-ended scale.
func CapLinear(raw, cap int) int {
	if cap <= 0 {
		return 0
	}
	if raw <= 0 {
		return 0
	}
	if raw >= cap {
		return 100
	}
	return int(math.Round(float64(raw) / float64(cap) * 100))
}

// OpenAccessScore maps the open-access indicator to its binary dimension
// score.
func OpenAccessScore(present bool) int {
	if present {
		return openAccessPresentScore
	}
	return openAccessAbsentScore
}

// RecencyScore scores publication age against an injected reference year:
// a record published in the reference year scores 100 and each year of age
// costs recencyDecayPerYear points, floored at recencyFloor. An unknown
// publication year (pubYear <= 0) scores the neutral midpoint.
func RecencyScore(pubYear, referenceYear int) int {
	if pubYear <= 0 {
		return recencyUnknownScore
	}
	score := 100 - recencyDecayPerYear*(referenceYear-pubYear)
	if score > 100 {
		return 100
	}
	if score < recencyFloor {
		return recencyFloor
	}
	return score
}
