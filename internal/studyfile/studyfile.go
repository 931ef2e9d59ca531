// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package studyfile reads systematic-review study lists and writes match
// results. Study lists arrive as JSON or YAML with an included and an
// excluded study array; the reference objects tolerate the field aliases
// and loosely-typed values found in exported review data.
package studyfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/refmatch/pkg/types"
)

// flexYear decodes a publication year that may arrive as a number or a
// string. Unparseable values become 0 (unknown) rather than errors: a bad
// year in one study must not fail the whole file.
type flexYear int

func (y *flexYear) UnmarshalJSON(data []byte) error {
	*y = flexYear(parseYear(strings.Trim(string(data), `"`)))
	return nil
}

func (y *flexYear) UnmarshalYAML(value *yaml.Node) error {
	*y = flexYear(parseYear(value.Value))
	return nil
}

func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// flexAuthors decodes an author field that may be a list of names or a
// single delimited string.
type flexAuthors []string

func (a *flexAuthors) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*a = types.CleanAuthors(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = types.ParseAuthors(s)
	return nil
}

func (a *flexAuthors) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*a = types.CleanAuthors(list)
		return nil
	}
	if value.Tag == "!!null" {
		*a = nil
		return nil
	}
	*a = types.ParseAuthors(value.Value)
	return nil
}

// flexString decodes a value that may arrive as a string or a bare number
// (volumes, pages and PMIDs are frequently exported unquoted).
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	*s = flexString(strings.Trim(string(data), `"`))
	return nil
}

func (s *flexString) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = flexString(value.Value)
	return nil
}

// rawReference is the on-disk reference shape, including the aliases the
// review exports use: authors_list for authors, source for journal.
type rawReference struct {
	Title       string      `json:"title" yaml:"title"`
	Year        flexYear    `json:"year" yaml:"year"`
	AuthorsList flexAuthors `json:"authors_list" yaml:"authors_list"`
	Authors     flexAuthors `json:"authors" yaml:"authors"`
	Source      string      `json:"source" yaml:"source"`
	Journal     string      `json:"journal" yaml:"journal"`
	Volume      flexString  `json:"volume" yaml:"volume"`
	Issue       flexString  `json:"issue" yaml:"issue"`
	Pages       flexString  `json:"pages" yaml:"pages"`
	DOI         flexString  `json:"doi" yaml:"doi"`
	PMID        flexString  `json:"pmid" yaml:"pmid"`
}

func (r *rawReference) toReference() types.Reference {
	if r == nil {
		return types.Reference{}
	}
	authors := []string(r.AuthorsList)
	if len(authors) == 0 {
		authors = []string(r.Authors)
	}
	journal := r.Source
	if journal == "" {
		journal = r.Journal
	}
	return types.Reference{
		Title:   strings.TrimSpace(r.Title),
		Year:    int(r.Year),
		Authors: authors,
		Journal: journal,
		Volume:  string(r.Volume),
		Issue:   string(r.Issue),
		Pages:   string(r.Pages),
		DOI:     strings.TrimSpace(string(r.DOI)),
		PMID:    strings.TrimSpace(string(r.PMID)),
	}
}

type rawStudy struct {
	StudyID            string         `json:"study_id" yaml:"study_id"`
	Reference          *rawReference  `json:"reference" yaml:"reference"`
	Characteristics    map[string]any `json:"characteristics" yaml:"characteristics"`
	ReasonForExclusion string         `json:"reason_for_exclusion" yaml:"reason_for_exclusion"`
}

type studyList struct {
	Studies struct {
		Included []rawStudy `json:"included" yaml:"included"`
		Excluded []rawStudy `json:"excluded" yaml:"excluded"`
	} `json:"studies" yaml:"studies"`
}

// Load reads a study list from a JSON (.json) or YAML (.yaml, .yml) file.
// Included studies come first, in file order. Entries without a study_id
// get a generated one so every result can be attributed.
func Load(path string) ([]types.Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading study file: %w", err)
	}

	var list studyList
	if isYAMLPath(path) {
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parsing study file: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parsing study file: %w", err)
		}
	}

	var studies []types.Study
	for _, raw := range list.Studies.Included {
		studies = append(studies, raw.toStudy(types.StudyIncluded))
	}
	for _, raw := range list.Studies.Excluded {
		studies = append(studies, raw.toStudy(types.StudyExcluded))
	}
	return studies, nil
}

func (r rawStudy) toStudy(t types.StudyType) types.Study {
	id := strings.TrimSpace(r.StudyID)
	if id == "" {
		id = uuid.NewString()
	}
	s := types.Study{
		ID:        id,
		Type:      t,
		Reference: r.Reference.toReference(),
	}
	// Characteristics belong to included studies, the exclusion reason to
	// excluded ones; the other field is dropped even if present.
	switch t {
	case types.StudyIncluded:
		s.Characteristics = r.Characteristics
	case types.StudyExcluded:
		s.ExclusionReason = r.ReasonForExclusion
	}
	return s
}

// ResultsFile is the on-disk representation of a match run.
type ResultsFile struct {
	Results []types.MatchResult `json:"results" yaml:"results"`
	Summary ResultsSummary      `json:"summary" yaml:"summary"`
}

// ResultsSummary stores result counts and a timestamp.
type ResultsSummary struct {
	Total     int       `json:"total" yaml:"total"`
	Found     int       `json:"found" yaml:"found"`
	NotFound  int       `json:"not_found" yaml:"not_found"`
	Rejected  int       `json:"rejected" yaml:"rejected"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// WriteResults saves match results to a JSON or YAML file (chosen by
// extension). Results are trimmed to their status-dependent field subset
// before serialization.
func WriteResults(path string, results []types.MatchResult) error {
	rf := ResultsFile{
		Results: make([]types.MatchResult, len(results)),
		Summary: ResultsSummary{Total: len(results), Timestamp: time.Now().UTC()},
	}
	for i, r := range results {
		rf.Results[i] = r.Output()
		switch r.Status {
		case types.StatusFound:
			rf.Summary.Found++
		case types.StatusNotFound:
			rf.Summary.NotFound++
		case types.StatusRejected:
			rf.Summary.Rejected++
		case types.StatusSkipped:
			rf.Summary.Skipped++
		}
	}

	var data []byte
	var err error
	if isYAMLPath(path) {
		data, err = yaml.Marshal(&rf)
	} else {
		data, err = json.MarshalIndent(&rf, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
