// Package search translates UI filter selections into PubMed query terms and
// runs the two-step search (id lookup, then summary hydration).
package search

import (
	"fmt"
	"strings"
)

// Filters are the caller-selected refinements applied on top of the free-text
// query. Zero values ("", or the UI's "Any"/"None" placeholders) contribute
// no token.
type Filters struct {
	Query            string
	StartYear        int
	EndYear          int
	TextAvailability string
	ArticleAttribute string
	ArticleType      string
	Language         string
	Species          string
	Sex              string
	Age              string
	Other            string
}

// Defaults for the publication-date window when the caller omits it.
const (
	DefaultStartYear = 2000
	DefaultEndYear   = 2025
)

// Filter-token vocabularies. Selections outside a map contribute no token,
// matching the UI's "Any"/"None" placeholders.
var (
	textAvailabilityTokens = map[string]string{
		"Abstract":       "hasabstract[text]",
		"Free full text": "free full text[filter]",
		"Full text":      "full text[filter]",
	}

	articleAttributeTokens = map[string]string{
		"Systematic Review":           "systematic[sb]",
		"Clinical Trial":              "clinicaltrial[pt]",
		"Randomized Controlled Trial": "randomized controlled trial[pt]",
		"Review":                      "review[pt]",
		"Meta-Analysis":               "meta-analysis[pt]",
		"Case Reports":                "case reports[pt]",
	}

	articleTypeTokens = map[string]string{
		"Journal Article": "Journal Article[pt]",
		"Letter":          "Letter[pt]",
		"Editorial":       "Editorial[pt]",
		"Guideline":       "Guideline[pt]",
		"Dataset":         "Data Set[pt]",
		"Data Set":        "Data Set[pt]",
	}

	languageTokens = map[string]string{
		"English": "english", "Spanish": "spanish", "French": "french",
		"German": "german", "Italian": "italian", "Portuguese": "portuguese",
		"Russian": "russian", "Chinese": "chinese", "Japanese": "japanese",
		"Persian": "persian", "Arabic": "arabic", "Hindi": "hindi",
		"Turkish": "turkish", "Korean": "korean",
	}

	ageTokens = map[string]string{
		"Child":       "Child[MeSH Terms]",
		"Adolescent":  "Adolescent[MeSH Terms]",
		"Adult":       "Adult[MeSH Terms]",
		"Middle Aged": "Middle Aged[MeSH Terms]",
		"Aged":        "Aged[MeSH Terms]",
	}

	otherTokens = map[string]string{
		"Preprint":  "Preprint[pt]",
		"Retracted": "Retracted Publication[pt]",
	}
)

// BuildTerm assembles the E-utilities query term from the filters: the
// free-text query, the canonical date-range token, then one token per
// recognized filter selection, AND-joined.
func BuildTerm(f Filters) string {
	startYear := f.StartYear
	if startYear == 0 {
		startYear = DefaultStartYear
	}
	endYear := f.EndYear
	if endYear == 0 {
		endYear = DefaultEndYear
	}

	var tokens []string
	if q := strings.TrimSpace(f.Query); q != "" {
		tokens = append(tokens, "("+q+")")
	}
	tokens = append(tokens, fmt.Sprintf(`("%d"[dp] : "%d"[dp])`, startYear, endYear))

	if tok, ok := textAvailabilityTokens[f.TextAvailability]; ok {
		tokens = append(tokens, tok)
	}
	if tok, ok := articleAttributeTokens[f.ArticleAttribute]; ok {
		tokens = append(tokens, tok)
	}
	if tok, ok := articleTypeTokens[f.ArticleType]; ok {
		tokens = append(tokens, tok)
	}
	if lang, ok := languageTokens[f.Language]; ok {
		tokens = append(tokens, lang+"[lang]")
	}

	switch f.Species {
	case "Humans":
		tokens = append(tokens, "Humans[MeSH Terms]")
	case "Animals":
		tokens = append(tokens, "(Animals[MeSH Terms] NOT Humans[MeSH Terms])")
	}

	switch f.Sex {
	case "Male":
		tokens = append(tokens, "Male[MeSH Terms]")
	case "Female":
		tokens = append(tokens, "Female[MeSH Terms]")
	}

	if tok, ok := ageTokens[f.Age]; ok {
		tokens = append(tokens, tok)
	}
	if tok, ok := otherTokens[f.Other]; ok {
		tokens = append(tokens, tok)
	}

	return strings.Join(tokens, " AND ")
}
