package domain

// Article is one search hit as delivered to the caller. Year and Authors keep
// the loose string shapes PubMed summaries provide; missing metadata is left
// empty rather than treated as an error.
type Article struct {
	PMID    string `json:"pmid"`
	Title   string `json:"title"`
	Journal string `json:"journal"`
	Year    string `json:"year"`
	Authors string `json:"authors"`
}

// SearchResult is the outcome of one search request: the matching articles
// plus the fully expanded query term for caller-side transparency.
type SearchResult struct {
	Results []Article `json:"results"`
	Term    string    `json:"term"`
}
