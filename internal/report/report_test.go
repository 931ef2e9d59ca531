// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refmatch/pkg/types"
)

func sampleResults() []types.MatchResult {
	oa := true
	return []types.MatchResult{
		{
			StudyID: "s1", Status: types.StatusFound, Strategy: "identifier",
			OpenAlexID: "W1", Title: "Found by DOI", DOI: "https://doi.org/10.1/x",
			OpenAccess: &oa, PDFURL: "https://example.org/x.pdf",
			SearchAttempts: []types.SearchAttempt{{Strategy: "identifier"}},
		},
		{
			StudyID: "s2", Status: types.StatusFound, Strategy: "title_authors_year",
			OpenAlexID: "W2", Title: "Found by Title",
			SearchAttempts: []types.SearchAttempt{{Strategy: "identifier"}, {Strategy: "title_authors_year"}},
		},
		{StudyID: "s3", Status: types.StatusNotFound,
			SearchAttempts: []types.SearchAttempt{{Strategy: "title_only", Error: "No results found"}}},
		{StudyID: "s4", Status: types.StatusRejected},
		{StudyID: "s5", Status: types.StatusSkipped},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults(), 1500*time.Millisecond)

	if s.Total != 5 || s.Found != 2 || s.NotFound != 1 || s.Rejected != 1 || s.Skipped != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.MatchRate != 0.4 {
		t.Errorf("MatchRate = %v, want 0.4", s.MatchRate)
	}
	if s.ByStrategy["identifier"] != 1 || s.ByStrategy["title_authors_year"] != 1 {
		t.Errorf("ByStrategy = %v", s.ByStrategy)
	}
	if s.WithPDF != 1 || s.WithOpenAccess != 1 || s.WithDOI != 1 {
		t.Errorf("found-field counts = %+v", s)
	}
	if s.Elapsed != 1500*time.Millisecond {
		t.Errorf("Elapsed = %v", s.Elapsed)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 0)
	if s.Total != 0 || s.MatchRate != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestFormatTable(t *testing.T) {
	out := FormatTable(sampleResults())

	if !strings.Contains(out, "STUDY") || !strings.Contains(out, "ATTEMPTS") {
		t.Errorf("missing header:\n%s", out)
	}
	for _, want := range []string{"s1", "identifier", "Found by DOI", "not_found", "rejected", "skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	// Studies without a match show placeholders rather than blanks.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("len(lines) = %d, want header + 5 rows", len(lines))
	}
	if !strings.Contains(lines[3], "-") {
		t.Errorf("not_found row lacks placeholder: %q", lines[3])
	}
}

func TestFormatTableTruncatesTitles(t *testing.T) {
	long := strings.Repeat("very long title ", 10)
	out := FormatTable([]types.MatchResult{{
		StudyID: "s1", Status: types.StatusFound, Strategy: "title_only", Title: long,
	}})
	if strings.Contains(out, long) {
		t.Error("long title not truncated")
	}
	if !strings.Contains(out, "...") {
		t.Errorf("truncated title lacks ellipsis:\n%s", out)
	}
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(Summarize(sampleResults(), 2*time.Second))

	for _, want := range []string{
		"Studies processed: 5",
		"Match rate: 40.0%",
		"found:     2",
		"identifier: 1",
		"title_authors_year: 1",
		"Elapsed: 2s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	data, err := FormatJSON(sampleResults())
	if err != nil {
		t.Fatal(err)
	}

	var decoded []types.MatchResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 5 {
		t.Fatalf("len = %d", len(decoded))
	}
	if decoded[0].OpenAlexID != "W1" {
		t.Errorf("found result = %+v", decoded[0])
	}
	// Non-found results are emitted trimmed.
	if decoded[3].Strategy != "" || decoded[3].OpenAlexID != "" {
		t.Errorf("rejected result kept publication fields: %+v", decoded[3])
	}
	if decoded[4].SearchAttempts != nil {
		t.Error("skipped result kept attempts")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	if got := NewLogger(types.LoggingConfig{Level: "debug", Format: "json"}); got.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", got.GetLevel())
	}
	if got := NewLogger(types.LoggingConfig{Level: "nonsense"}); got.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info fallback", got.GetLevel())
	}
	if got := NewLogger(types.LoggingConfig{}); got.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info default", got.GetLevel())
	}
}
