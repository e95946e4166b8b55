package pubmed

import (
	"encoding/json"
	"strconv"
	"strings"
)

// eSearchResponse is the JSON envelope returned by esearch.fcgi.
type eSearchResponse struct {
	ESearchResult eSearchResult `json:"esearchresult"`
}

type eSearchResult struct {
	// Count is the total number of matching records, serialized as a string.
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// eSummaryResponse is the JSON envelope returned by esummary.fcgi. The
// "result" object mixes a "uids" index array with one record object per uid,
// so the records are decoded individually from raw messages.
type eSummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

// SummaryRecord is one document summary from esummary.fcgi.
type SummaryRecord struct {
	UID             string      `json:"uid"`
	Title           string      `json:"title"`
	FullJournalName string      `json:"fulljournalname"`
	Source          string      `json:"source"`
	PubDate         string      `json:"pubdate"`
	ELocationID     string      `json:"elocationid"`
	Authors         []Author    `json:"authors"`
	ArticleIDs      []ArticleID `json:"articleids"`
}

// Author is one author entry in a summary record. Depending on the record,
// the name may arrive pre-formatted in Name or split across LastName and
// Initials.
type Author struct {
	Name     string `json:"name"`
	LastName string `json:"lastname"`
	Initials string `json:"initials"`
	AuthType string `json:"authtype"`
}

// ArticleID is one external identifier attached to a summary record
// (doi, pii, pmc, pmcid, ...).
type ArticleID struct {
	IDType string `json:"idtype"`
	Value  string `json:"value"`
}

// JournalName returns the resolved journal name, preferring the full name
// over the abbreviated source. Empty if the record carries neither.
func (r *SummaryRecord) JournalName() string {
	if r.FullJournalName != "" {
		return r.FullJournalName
	}
	return r.Source
}

// PublicationYear parses the leading 4-digit year token out of the free-form
// pubdate string ("2023 Mar 15", "2020 Jan-Feb", "2020-2021"). Returns 0 when
// no year can be parsed; malformed dates are routine, not an error.
func (r *SummaryRecord) PublicationYear() int {
	fields := strings.Fields(r.PubDate)
	if len(fields) == 0 {
		return 0
	}
	token := fields[0]
	if len(token) < 4 {
		return 0
	}
	year, err := strconv.Atoi(token[:4])
	if err != nil {
		return 0
	}
	return year
}

// FirstAuthor returns the first author's display name as "LastName Initials",
// trimmed. When the record only carries a pre-formatted name, that is
// returned as-is. Empty if the record lists no authors.
func (r *SummaryRecord) FirstAuthor() string {
	if len(r.Authors) == 0 {
		return ""
	}
	a := r.Authors[0]
	if last := strings.TrimSpace(a.LastName); last != "" {
		return strings.TrimSpace(last + " " + strings.TrimSpace(a.Initials))
	}
	return strings.TrimSpace(a.Name)
}

// HasPMCID reports whether the record carries a PMC identifier, which marks
// the presence of an open-access archival copy.
func (r *SummaryRecord) HasPMCID() bool {
	for _, aid := range r.ArticleIDs {
		if (aid.IDType == "pmcid" || aid.IDType == "pmc") && aid.Value != "" {
			return true
		}
	}
	return false
}

// DOI returns the record's DOI from the identifier list, falling back to a
// "doi:"-prefixed elocationid. Empty if no DOI is present.
func (r *SummaryRecord) DOI() string {
	for _, aid := range r.ArticleIDs {
		if aid.IDType == "doi" && aid.Value != "" {
			return strings.TrimSpace(aid.Value)
		}
	}
	eloc := strings.TrimSpace(r.ELocationID)
	if len(eloc) > 4 && strings.EqualFold(eloc[:4], "doi:") {
		return strings.TrimSpace(eloc[4:])
	}
	return ""
}

// eLinkResponse is the JSON envelope returned by elink.fcgi.
type eLinkResponse struct {
	LinkSets []linkSet `json:"linksets"`
}

type linkSet struct {
	LinkSetDBs []linkSetDB `json:"linksetdbs"`
}

type linkSetDB struct {
	LinkName string   `json:"linkname"`
	Links    []linkID `json:"links"`
}

// linkID tolerates the link shapes the ELink JSON serializer has used over
// time: a bare string, a bare number, or an object with an "id" field.
// Unrecognized entries decode to an empty ID instead of failing, so an
// unexpected shape counts as zero citations rather than an error.
type linkID struct {
	ID string
}

func (l *linkID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.ID = s
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		l.ID = n.String()
		return nil
	}

	var obj struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		switch v := obj.ID.(type) {
		case string:
			l.ID = v
		case float64:
			l.ID = strconv.FormatFloat(v, 'f', -1, 64)
		}
		return nil
	}

	l.ID = ""
	return nil
}
