// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the refmatch pipeline:
// the bibliographic reference being matched, the study that carries it,
// the OpenAlex publication record it is matched against, and the per-study
// match result.
package types

import (
	"regexp"
	"strings"
)

// authorDelimiters splits a single author string into individual names:
// "Smith, J.; Johnson, A." or "Smith and Johnson".
var authorDelimiters = regexp.MustCompile(`,\s*|;\s*|\s+and\s+`)

// Reference is a bibliographic reference from a systematic-review study
// list. All fields are optional; HasMinimalData reports whether enough of
// them are present to attempt a search. A Reference is never mutated after
// construction.
type Reference struct {
	// Title is the publication title as it appears in the review.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Year is the publication year; 0 means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Authors lists author names in citation order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Journal is the source title (journal or venue name).
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue  string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages  string `json:"pages,omitempty" yaml:"pages,omitempty"`

	// DOI is the digital object identifier, e.g. "10.1234/abc".
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PMID is the PubMed identifier (digits only).
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
}

// HasMinimalData reports whether the reference carries enough information
// to attempt any search: a non-blank DOI or PMID, or a title longer than
// three characters. Unless allowMissingYear is set, a title-based search
// also requires a year.
func (r Reference) HasMinimalData(allowMissingYear bool) bool {
	if strings.TrimSpace(r.DOI) != "" {
		return true
	}
	if strings.TrimSpace(r.PMID) != "" {
		return true
	}
	if len(strings.TrimSpace(r.Title)) <= 3 {
		return false
	}
	if !allowMissingYear && r.Year == 0 {
		return false
	}
	return true
}

// HasAuthors reports whether the reference has at least one non-blank
// author name.
func (r Reference) HasAuthors() bool {
	for _, a := range r.Authors {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	return false
}

// ParseAuthors splits a delimited author string ("Smith, J.; Johnson, A.",
// "Smith and Johnson") into cleaned name tokens. A string without
// delimiters yields a single author. Empty input yields nil.
func ParseAuthors(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var authors []string
	for _, part := range authorDelimiters.Split(s, -1) {
		if name := strings.TrimSpace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// CleanAuthors trims every name in the list and drops blanks. Returns nil
// when nothing usable remains.
func CleanAuthors(authors []string) []string {
	var cleaned []string
	for _, a := range authors {
		if name := strings.TrimSpace(a); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return cleaned
}

// StudyType distinguishes included from excluded studies in a review.
type StudyType string

const (
	StudyIncluded StudyType = "included"
	StudyExcluded StudyType = "excluded"
)

// Study is one entry in a systematic review's study list.
type Study struct {
	// ID identifies the study within the review.
	ID string `json:"study_id" yaml:"study_id"`

	// Type records whether the review included or excluded the study.
	Type StudyType `json:"type" yaml:"type"`

	// Reference is the bibliographic reference to match.
	Reference Reference `json:"reference" yaml:"reference"`

	// Characteristics holds free-form study characteristics (included
	// studies only).
	Characteristics map[string]any `json:"characteristics,omitempty" yaml:"characteristics,omitempty"`

	// ExclusionReason is the review's reason for exclusion (excluded
	// studies only).
	ExclusionReason string `json:"exclusion_reason,omitempty" yaml:"exclusion_reason,omitempty"`
}
