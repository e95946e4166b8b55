// Package pubmed provides a client for the NCBI E-utilities API and the
// PubMed website.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spacebio/knowledge-engine/internal/domain"
	"github.com/spacebio/knowledge-engine/internal/observability"
	"github.com/spacebio/knowledge-engine/internal/sources"
)

const (
	// DefaultBaseURL is the base URL for NCBI E-utilities API.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultWebBaseURL is the base URL of the PubMed website, used for the
	// HTML abstract-scrape fallback.
	DefaultWebBaseURL = "https://pubmed.ncbi.nlm.nih.gov"

	// DefaultRateLimit is the rate limit without an API key (3 requests/second).
	// With an API key, the limit increases to 10 requests/second.
	DefaultRateLimit = 3.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 3

	// DefaultTimeout bounds every upstream call. A timed-out call is treated
	// the same as any other fetch failure by callers.
	DefaultTimeout = 12 * time.Second

	// DefaultTool identifies this application to NCBI.
	DefaultTool = "spacebio-ke"

	// DefaultMaxResults is the default maximum results per search.
	DefaultMaxResults = 25

	// citedInLinkName is the ELink relation naming records that cite a PMID.
	citedInLinkName = "pubmed_pubmed_citedin"

	// sourceName is the human-readable name for this source.
	sourceName = "PubMed"

	// maxResponseBytes caps how much of an upstream body is read.
	maxResponseBytes = 10 << 20
)

// Config holds the configuration for the PubMed client.
type Config struct {
	// BaseURL is the base URL for the E-utilities API.
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// WebBaseURL is the PubMed website base URL.
	// Defaults to DefaultWebBaseURL if empty.
	WebBaseURL string

	// Tool identifies the application on every E-utilities call.
	// Defaults to DefaultTool if empty.
	Tool string

	// Email is the contact address sent alongside Tool. Optional.
	Email string

	// APIKey is the NCBI API key for higher rate limits.
	// Optional but recommended for production use.
	APIKey string

	// Timeout is the request timeout.
	// Defaults to DefaultTimeout if zero.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	// Defaults to DefaultRateLimit (3 req/sec) if zero.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	// Defaults to DefaultBurstSize if zero.
	BurstSize int

	// MaxResults is the default maximum results per search.
	// Defaults to DefaultMaxResults if zero.
	MaxResults int
}

// applyDefaults applies default values to the config.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.WebBaseURL == "" {
		c.WebBaseURL = DefaultWebBaseURL
	}
	if c.Tool == "" {
		c.Tool = DefaultTool
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// Client talks to the NCBI E-utilities API and the PubMed website.
type Client struct {
	config     Config
	httpClient *sources.HTTPClient
	metrics    *observability.Metrics
}

// New creates a new PubMed client with the given configuration.
// metrics may be nil; upstream calls are then not recorded.
func New(cfg Config, metrics *observability.Metrics) *Client {
	cfg.applyDefaults()

	httpCfg := sources.HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
		UserAgent: "SpaceBiologyKnowledgeEngine/1.0",
	}

	return &Client{
		config:     cfg,
		httpClient: sources.NewHTTPClient(httpCfg),
		metrics:    metrics,
	}
}

// NewWithHTTPClient creates a new PubMed client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *sources.HTTPClient) *Client {
	cfg.applyDefaults()
	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// MaxResults returns the configured default search result limit.
func (c *Client) MaxResults() int {
	return c.config.MaxResults
}

// Summary retrieves the document summary for one PMID via esummary.fcgi.
func (c *Client) Summary(ctx context.Context, pmid string) (*SummaryRecord, error) {
	records, err := c.Summaries(ctx, []string{pmid})
	if err != nil {
		return nil, err
	}
	rec, ok := records[pmid]
	if !ok {
		return nil, fmt.Errorf("summary for %s: %w", pmid, domain.ErrNotFound)
	}
	return &rec, nil
}

// Summaries retrieves document summaries for a batch of PMIDs, keyed by PMID.
// PMIDs absent from the upstream result are simply missing from the map.
func (c *Client) Summaries(ctx context.Context, pmids []string) (map[string]SummaryRecord, error) {
	if len(pmids) == 0 {
		return map[string]SummaryRecord{}, nil
	}

	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", strings.Join(pmids, ","))
	q.Set("retmode", "json")

	body, err := c.get(ctx, "esummary.fcgi", q)
	if err != nil {
		return nil, err
	}

	var resp eSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse esummary response: %w", err)
	}

	records := make(map[string]SummaryRecord, len(pmids))
	for _, pmid := range pmids {
		raw, ok := resp.Result[pmid]
		if !ok {
			continue
		}
		var rec SummaryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		records[pmid] = rec
	}
	return records, nil
}

// SearchIDs runs an esearch query sorted by relevance and returns matching
// PMIDs, capped at retmax (the configured default when retmax <= 0).
func (c *Client) SearchIDs(ctx context.Context, term string, retmax int) ([]string, error) {
	if retmax <= 0 {
		retmax = c.config.MaxResults
	}

	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("term", term)
	q.Set("retmax", strconv.Itoa(retmax))
	q.Set("retmode", "json")
	q.Set("sort", "relevance")

	body, err := c.get(ctx, "esearch.fcgi", q)
	if err != nil {
		return nil, err
	}

	var resp eSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse esearch response: %w", err)
	}
	return resp.ESearchResult.IDList, nil
}

// Count runs an esearch count query and returns the total number of records
// matching the term.
func (c *Client) Count(ctx context.Context, term string) (int, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("term", term)
	q.Set("retmode", "json")
	q.Set("rettype", "count")

	body, err := c.get(ctx, "esearch.fcgi", q)
	if err != nil {
		return 0, err
	}

	var resp eSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("parse esearch count response: %w", err)
	}

	count, err := strconv.Atoi(resp.ESearchResult.Count)
	if err != nil {
		return 0, fmt.Errorf("parse esearch count value %q: %w", resp.ESearchResult.Count, err)
	}
	return count, nil
}

// CountJournalArticles counts records the named journal published in the
// inclusive year window.
func (c *Client) CountJournalArticles(ctx context.Context, journal string, fromYear, toYear int) (int, error) {
	term := fmt.Sprintf(`"%s"[ta] AND ("%d"[dp] : "%d"[dp])`, journal, fromYear, toYear)
	return c.Count(ctx, term)
}

// CountAuthorPublications counts records attributed to an author matching the
// given "LastName Initials" display name.
func (c *Client) CountAuthorPublications(ctx context.Context, author string) (int, error) {
	term := fmt.Sprintf(`"%s"[au]`, author)
	return c.Count(ctx, term)
}

// CitedByCount returns how many PubMed records cite the given PMID, using the
// ELink cited-in relation. All linkset groups matching the relation are
// concatenated before counting. An unrecognized response shape counts as zero
// citations, not an error.
func (c *Client) CitedByCount(ctx context.Context, pmid string) (int, error) {
	q := url.Values{}
	q.Set("dbfrom", "pubmed")
	q.Set("linkname", citedInLinkName)
	q.Set("id", pmid)
	q.Set("retmode", "json")

	body, err := c.get(ctx, "elink.fcgi", q)
	if err != nil {
		return 0, err
	}

	var resp eLinkResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, nil
	}

	count := 0
	for _, ls := range resp.LinkSets {
		for _, db := range ls.LinkSetDBs {
			if db.LinkName != citedInLinkName {
				continue
			}
			for _, link := range db.Links {
				if link.ID != "" {
					count++
				}
			}
		}
	}
	return count, nil
}

// AbstractXML fetches the full PubMed XML for one PMID via efetch.fcgi.
func (c *Client) AbstractXML(ctx context.Context, pmid string) ([]byte, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", pmid)
	q.Set("retmode", "xml")

	return c.get(ctx, "efetch.fcgi", q)
}

// AbstractText fetches the plaintext abstract rendering for one PMID.
func (c *Client) AbstractText(ctx context.Context, pmid string) (string, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", pmid)
	q.Set("rettype", "abstract")
	q.Set("retmode", "text")

	body, err := c.get(ctx, "efetch.fcgi", q)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ReplaceAll(string(body), "\r", "")), nil
}

// ArticlePageHTML fetches the public PubMed article page for one PMID.
// This backs the last-resort HTML abstract scrape.
func (c *Client) ArticlePageHTML(ctx context.Context, pmid string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s/", strings.TrimRight(c.config.WebBaseURL, "/"), url.PathEscape(pmid))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, "webpage")
}

// get performs a GET against an E-utilities endpoint, attaching the
// good-citizen tool/email parameters and the API key when configured.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	u, err := url.Parse(strings.TrimRight(c.config.BaseURL, "/") + "/" + endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	q.Set("tool", c.config.Tool)
	if c.config.Email != "" {
		q.Set("email", c.config.Email)
	}
	if c.config.APIKey != "" {
		q.Set("api_key", c.config.APIKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, strings.TrimSuffix(endpoint, ".fcgi"))
}

// do executes the request, recording the outcome under the endpoint label.
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamRequest(sourceName, endpoint, time.Since(start), true)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	failed := readErr != nil || resp.StatusCode != http.StatusOK
	c.metrics.RecordUpstreamRequest(sourceName, endpoint, time.Since(start), failed)

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(body), nil)
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read response: %w", readErr)
	}
	return body, nil
}
