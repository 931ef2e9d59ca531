// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders match results for the terminal and for export:
// a per-study table, a run summary, and the JSON form with its
// status-dependent field subsets.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pdiddy/refmatch/pkg/types"
)

const titleDisplayWidth = 60

// Summary aggregates one match run.
type Summary struct {
	Total    int
	Found    int
	NotFound int
	Rejected int
	Skipped  int

	// ByStrategy counts found matches per winning strategy.
	ByStrategy map[string]int

	// WithPDF, WithOpenAccess and WithDOI count found matches carrying
	// the respective field.
	WithPDF        int
	WithOpenAccess int
	WithDOI        int

	// MatchRate is Found / Total, 0 for an empty run.
	MatchRate float64

	Elapsed time.Duration
}

// Summarize aggregates results and the run's elapsed time.
func Summarize(results []types.MatchResult, elapsed time.Duration) Summary {
	s := Summary{
		Total:      len(results),
		ByStrategy: make(map[string]int),
		Elapsed:    elapsed,
	}
	for _, r := range results {
		switch r.Status {
		case types.StatusFound:
			s.Found++
			s.ByStrategy[r.Strategy]++
			if r.PDFURL != "" {
				s.WithPDF++
			}
			if r.OpenAccess != nil && *r.OpenAccess {
				s.WithOpenAccess++
			}
			if r.DOI != "" {
				s.WithDOI++
			}
		case types.StatusNotFound:
			s.NotFound++
		case types.StatusRejected:
			s.Rejected++
		case types.StatusSkipped:
			s.Skipped++
		}
	}
	if s.Total > 0 {
		s.MatchRate = float64(s.Found) / float64(s.Total)
	}
	return s
}

// FormatTable renders a per-study table: status, winning strategy, matched
// title and the number of strategies attempted.
func FormatTable(results []types.MatchResult) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "STUDY\tSTATUS\tSTRATEGY\tMATCHED TITLE\tATTEMPTS")
	for _, r := range results {
		strategy := r.Strategy
		if strategy == "" {
			strategy = "-"
		}
		title := truncate(r.Title, titleDisplayWidth)
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			r.StudyID, r.Status, strategy, title, len(r.SearchAttempts))
	}
	w.Flush()
	return b.String()
}

// FormatSummary renders the run summary as a text block.
func FormatSummary(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Studies processed: %d\n", s.Total)
	fmt.Fprintf(&b, "Match rate: %.1f%%\n", s.MatchRate*100)
	fmt.Fprintf(&b, "  found:     %d\n", s.Found)
	fmt.Fprintf(&b, "  not found: %d\n", s.NotFound)
	fmt.Fprintf(&b, "  rejected:  %d\n", s.Rejected)
	fmt.Fprintf(&b, "  skipped:   %d\n", s.Skipped)

	if len(s.ByStrategy) > 0 {
		fmt.Fprintln(&b, "Matches by strategy:")
		for _, name := range strategyOrder {
			if n := s.ByStrategy[name]; n > 0 {
				fmt.Fprintf(&b, "  %s: %d\n", name, n)
			}
		}
	}
	if s.Found > 0 {
		fmt.Fprintf(&b, "Found with PDF: %d, open access: %d, DOI: %d\n",
			s.WithPDF, s.WithOpenAccess, s.WithDOI)
	}
	fmt.Fprintf(&b, "Elapsed: %s\n", s.Elapsed.Round(10*time.Millisecond))

	return b.String()
}

// strategyOrder fixes the display order of the by-strategy breakdown.
var strategyOrder = []string{
	"identifier",
	"title_authors_year",
	"title_authors",
	"title_year",
	"title_only",
}

// FormatJSON marshals results trimmed to their status-dependent field
// subsets.
func FormatJSON(results []types.MatchResult) ([]byte, error) {
	out := make([]types.MatchResult, len(results))
	for i, r := range results {
		out[i] = r.Output()
	}
	return json.MarshalIndent(out, "", "  ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
