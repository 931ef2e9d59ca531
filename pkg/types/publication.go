// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Publication is a candidate record returned by the OpenAlex Works API.
// Field names follow the OpenAlex schema.
type Publication struct {
	// ID is the canonical OpenAlex URL, e.g. "https://openalex.org/W2741809807".
	ID string `json:"id" yaml:"id"`

	// Title is the work title.
	Title string `json:"title" yaml:"title"`

	// DOI is the full DOI URL form, e.g. "https://doi.org/10.1234/abc".
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PublicationYear is the year of publication.
	PublicationYear int `json:"publication_year,omitempty" yaml:"publication_year,omitempty"`

	// PublicationDate is the full date in YYYY-MM-DD form.
	PublicationDate string `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// Type is the OpenAlex work type (e.g. "article").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Authorships lists the work's authors in order.
	Authorships []Authorship `json:"authorships,omitempty" yaml:"authorships,omitempty"`

	// PrimaryLocation carries the hosting venue and landing page.
	PrimaryLocation *Location `json:"primary_location,omitempty" yaml:"primary_location,omitempty"`

	// OpenAccess carries open-access status and URL.
	OpenAccess OpenAccess `json:"open_access,omitempty" yaml:"open_access,omitempty"`

	// CitedByCount is the citation count.
	CitedByCount int `json:"cited_by_count,omitempty" yaml:"cited_by_count,omitempty"`
}

// Authorship is one author slot on a work.
type Authorship struct {
	Author Author `json:"author" yaml:"author"`
}

// Author identifies an author by OpenAlex ID and display name.
type Author struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// Location is where a work is hosted.
type Location struct {
	Source         *Source `json:"source,omitempty" yaml:"source,omitempty"`
	LandingPageURL string  `json:"landing_page_url,omitempty" yaml:"landing_page_url,omitempty"`
}

// Source is a hosting venue (journal, repository, conference).
type Source struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// OpenAccess carries a work's open-access status.
type OpenAccess struct {
	IsOA     bool   `json:"is_oa" yaml:"is_oa"`
	OAStatus string `json:"oa_status,omitempty" yaml:"oa_status,omitempty"`
	OAURL    string `json:"oa_url,omitempty" yaml:"oa_url,omitempty"`
}

// ShortID returns the portion of the canonical URL after the last slash,
// e.g. "W2741809807". Returns the ID unchanged when it has no slash.
func (p Publication) ShortID() string {
	if i := strings.LastIndex(p.ID, "/"); i >= 0 {
		return p.ID[i+1:]
	}
	return p.ID
}

// JournalName returns the display name of the primary location's source,
// or "" when the work has none.
func (p Publication) JournalName() string {
	if p.PrimaryLocation == nil || p.PrimaryLocation.Source == nil {
		return ""
	}
	return p.PrimaryLocation.Source.DisplayName
}

// AuthorNames returns the non-empty author display names in order.
func (p Publication) AuthorNames() []string {
	var names []string
	for _, a := range p.Authorships {
		if a.Author.DisplayName != "" {
			names = append(names, a.Author.DisplayName)
		}
	}
	return names
}
