package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/spacebio/knowledge-engine/internal/domain"
)

// unknownJournalPlaceholder stands in for the journal name when none could
// be resolved.
const unknownJournalPlaceholder = "(unknown journal)"

// reputationResponse is the outward shape of one composite reputation result.
type reputationResponse struct {
	PMCID      bool                 `json:"pmcid"`
	Journal    string               `json:"journal"`
	Total      int                  `json:"total"`
	Level      string               `json:"level"`
	Confidence int                  `json:"confidence"`
	Components reputationComponents `json:"components"`
	Raw        reputationRaw        `json:"raw"`
}

// reputationComponents keys the dimension scores by their display names.
type reputationComponents struct {
	JournalActivity int `json:"Journal Activity"`
	Citations       int `json:"Citations"`
	OpenAccess      int `json:"Open Access"`
	Recency         int `json:"Recency"`
	AuthorActivity  int `json:"Author Activity"`
}

// reputationRaw carries the pre-normalization values so callers can tell
// genuine low scores from low-signal defaults.
type reputationRaw struct {
	Citations           int  `json:"citations"`
	JournalActivity5y   int  `json:"journal_activity_count_5y"`
	FirstAuthorPubCount int  `json:"first_author_pub_count"`
	PubYear             *int `json:"pub_year"`
}

type abstractResponse struct {
	Abstract string `json:"abstract"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

type translateResponse struct {
	Translations []string `json:"translations"`
}

// reputationToResponse shapes a domain result for callers: the journal gets
// its placeholder when unresolved, and an unknown publication year becomes
// an explicit null.
func reputationToResponse(rep domain.Reputation) reputationResponse {
	journal := rep.Journal
	if journal == "" {
		journal = unknownJournalPlaceholder
	}

	var pubYear *int
	if rep.Raw.PubYear > 0 {
		year := rep.Raw.PubYear
		pubYear = &year
	}

	return reputationResponse{
		PMCID:      rep.OpenAccess,
		Journal:    journal,
		Total:      rep.Total,
		Level:      string(rep.Level),
		Confidence: rep.Confidence,
		Components: reputationComponents{
			JournalActivity: rep.Components.JournalActivity,
			Citations:       rep.Components.Citations,
			OpenAccess:      rep.Components.OpenAccess,
			Recency:         rep.Components.Recency,
			AuthorActivity:  rep.Components.AuthorActivity,
		},
		Raw: reputationRaw{
			Citations:           rep.Raw.Citations,
			JournalActivity5y:   rep.Raw.JournalActivity,
			FirstAuthorPubCount: rep.Raw.AuthorPubs,
			PubYear:             pubYear,
		},
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort log; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
