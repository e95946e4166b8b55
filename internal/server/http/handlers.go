package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/spacebio/knowledge-engine/internal/observability"
	"github.com/spacebio/knowledge-engine/internal/search"
)

// maxRequestBodySize limits POST bodies to 1 MB.
const maxRequestBodySize = 1 << 20

// searchParams is the validated query-parameter set for GET /api/search.
type searchParams struct {
	Query     string `validate:"required,max=2000"`
	StartYear int    `validate:"omitempty,gte=1800,lte=2200"`
	EndYear   int    `validate:"omitempty,gte=1800,lte=2200"`
}

// summarizeRequest is the JSON request body for POST /api/summarize.
type summarizeRequest struct {
	Text string `json:"text" validate:"max=200000"`
}

// translateRequest is the JSON request body for POST /api/translate.
type translateRequest struct {
	Texts []string `json:"texts" validate:"max=200,dive,max=20000"`
	Lang  string   `json:"lang" validate:"omitempty,max=16"`
}

// searchHandler handles GET /api/search.
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := searchParams{Query: strings.TrimSpace(q.Get("query"))}
	var ok bool
	if params.StartYear, ok = yearParam(w, q.Get("start_year"), "start_year"); !ok {
		return
	}
	if params.EndYear, ok = yearParam(w, q.Get("end_year"), "end_year"); !ok {
		return
	}
	if err := s.validate.Struct(params); err != nil {
		writeError(w, http.StatusBadRequest, "query is required and years must be plausible")
		return
	}

	filters := search.Filters{
		Query:            params.Query,
		StartYear:        params.StartYear,
		EndYear:          params.EndYear,
		TextAvailability: q.Get("text_availability"),
		ArticleAttribute: q.Get("article_attribute"),
		ArticleType:      q.Get("article_type"),
		Language:         q.Get("language"),
		Species:          q.Get("species"),
		Sex:              q.Get("sex"),
		Age:              q.Get("age"),
		Other:            q.Get("other"),
	}

	result := s.services.Search.Search(r.Context(), filters)
	writeJSON(w, http.StatusOK, result)
}

// abstractHandler handles GET /api/abstract/{pmid}.
func (s *Server) abstractHandler(w http.ResponseWriter, r *http.Request) {
	pmid, ok := pmidParam(w, r)
	if !ok {
		return
	}

	text := s.services.Abstracts.Abstract(r.Context(), pmid)
	writeJSON(w, http.StatusOK, abstractResponse{Abstract: text})
}

// reputationHandler handles GET /api/reputation/{pmid}.
func (s *Server) reputationHandler(w http.ResponseWriter, r *http.Request) {
	pmid, ok := pmidParam(w, r)
	if !ok {
		return
	}

	rep := s.services.Reputation.Compute(r.Context(), pmid)

	logger := observability.WithRequestContext(s.logger, w.Header().Get("X-Correlation-ID"), pmid)
	logger.Info().
		Int("total", rep.Total).
		Str("level", string(rep.Level)).
		Msg("Reputation served")

	writeJSON(w, http.StatusOK, reputationToResponse(rep))
}

// summarizeHandler handles POST /api/summarize.
func (s *Server) summarizeHandler(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	summary := s.services.Summarizer.Summarize(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary})
}

// translateHandler handles POST /api/translate.
func (s *Server) translateHandler(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	translations := s.services.Translator.TranslateAll(r.Context(), req.Texts, req.Lang)
	writeJSON(w, http.StatusOK, translateResponse{Translations: translations})
}

// decodeBody reads, parses and validates a JSON request body, writing the
// error response itself on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, "request body failed validation")
		return false
	}
	return true
}

// pmidParam extracts the non-empty pmid path parameter, writing the error
// response itself on failure.
func pmidParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	pmid := strings.TrimSpace(chi.URLParam(r, "pmid"))
	if pmid == "" {
		writeError(w, http.StatusBadRequest, "pmid is required")
		return "", false
	}
	return pmid, true
}

// yearParam parses an optional integer year query parameter.
func yearParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be an integer year", name))
		return 0, false
	}
	return year, true
}
