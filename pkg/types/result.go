// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MatchStatus is the final outcome of matching one study.
type MatchStatus string

const (
	// StatusFound means a strategy produced an accepted match.
	StatusFound MatchStatus = "found"

	// StatusNotFound means no strategy produced any acceptable candidate.
	StatusNotFound MatchStatus = "not_found"

	// StatusRejected means at least one strategy found candidates, but
	// all fell below the similarity thresholds.
	StatusRejected MatchStatus = "rejected"

	// StatusSkipped means the reference lacked the minimal data to
	// attempt any search.
	StatusSkipped MatchStatus = "skipped"
)

// SearchAttempt records one strategy invocation for audit. Attempts are
// appended in invocation order and never removed.
type SearchAttempt struct {
	// Strategy is the stable strategy identifier.
	Strategy string `json:"strategy" yaml:"strategy"`

	// QueryType describes the query shape, e.g. "doi filter" or
	// "title, authors, year search".
	QueryType string `json:"query_type" yaml:"query_type"`

	// SearchTerm is the term the strategy sent to the repository.
	SearchTerm string `json:"search_term" yaml:"search_term"`

	// Error describes why the attempt produced no match, if it didn't.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// MatchResult is the outcome of matching one study against OpenAlex.
// Publication fields are only meaningful when Status is StatusFound.
// A result is created fresh per match call and never mutated after return.
type MatchResult struct {
	StudyID   string      `json:"study_id" yaml:"study_id"`
	StudyType StudyType   `json:"study_type" yaml:"study_type"`
	Status    MatchStatus `json:"status" yaml:"status"`

	// Strategy names the strategy that produced the match.
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`

	// OpenAlexID is the short work ID, e.g. "W2741809807".
	OpenAlexID string `json:"openalex_id,omitempty" yaml:"openalex_id,omitempty"`

	// Title, Journal, Year and DOI describe the matched publication. DOI
	// keeps the raw value returned by OpenAlex (full URL form).
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Year    int    `json:"year,omitempty" yaml:"year,omitempty"`
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// OpenAccess reports the matched work's open-access flag; nil when
	// there is no match.
	OpenAccess *bool `json:"open_access,omitempty" yaml:"open_access,omitempty"`

	// PDFURL is the open-access URL when one exists, or the landing page
	// when it is a direct PDF link.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// CitationCount is the matched work's cited_by_count.
	CitationCount int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`

	// SearchDetails holds provenance for the match: raw work type, date
	// and URL, plus the similarity scores computed by the strategy.
	SearchDetails map[string]any `json:"search_details,omitempty" yaml:"search_details,omitempty"`

	// SearchAttempts is the full audit trail of strategies invoked.
	SearchAttempts []SearchAttempt `json:"search_attempts,omitempty" yaml:"search_attempts,omitempty"`

	// OriginalReference is a verbatim copy of the input reference.
	OriginalReference *Reference `json:"original_reference,omitempty" yaml:"original_reference,omitempty"`
}

// Output returns a copy trimmed to the status-dependent field subset used
// for serialization: non-found results omit publication fields, and
// skipped results additionally omit attempts and the original reference.
func (r MatchResult) Output() MatchResult {
	out := r
	if r.Status != StatusFound {
		out.Strategy = ""
		out.OpenAlexID = ""
		out.Title = ""
		out.Journal = ""
		out.Year = 0
		out.DOI = ""
		out.OpenAccess = nil
		out.PDFURL = ""
		out.CitationCount = 0
		out.SearchDetails = nil
	}
	if r.Status == StatusSkipped {
		out.SearchAttempts = nil
		out.OriginalReference = nil
	}
	return out
}
