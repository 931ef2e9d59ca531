// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refmatch/pkg/types"
)

func testMatchConfig() types.MatchConfig {
	return types.DefaultMatchConfig()
}

func TestStrategyPriorities(t *testing.T) {
	order := AllStrategyTypes()
	want := []StrategyType{
		StrategyIdentifier,
		StrategyTitleAuthorsYear,
		StrategyTitleAuthors,
		StrategyTitleYear,
		StrategyTitleOnly,
	}
	if len(order) != len(want) {
		t.Fatalf("len = %d, want %d", len(order), len(want))
	}
	for i, st := range want {
		if order[i] != st {
			t.Errorf("order[%d] = %s, want %s", i, order[i], st)
		}
		if st.Priority() != i+1 {
			t.Errorf("%s.Priority() = %d, want %d", st, st.Priority(), i+1)
		}
	}
}

func TestNewStrategyUnknown(t *testing.T) {
	_, err := newStrategy("citation_graph", &mockRepository{}, testMatchConfig(), zerolog.Nop())
	var unknown errUnknownStrategy
	if !errors.As(err, &unknown) {
		t.Errorf("err = %v, want errUnknownStrategy", err)
	}
}

func TestTitleStrategySupported(t *testing.T) {
	cfg := testMatchConfig()
	full := types.Reference{Title: "Effects of Aspirin", Authors: []string{"Smith, J."}, Year: 2020}
	noAuthors := types.Reference{Title: "Effects of Aspirin", Year: 2020}
	noYear := types.Reference{Title: "Effects of Aspirin", Authors: []string{"Smith, J."}}
	bare := types.Reference{Title: "Effects of Aspirin"}

	tests := []struct {
		strategy StrategyType
		ref      types.Reference
		want     bool
	}{
		{StrategyTitleAuthorsYear, full, true},
		{StrategyTitleAuthorsYear, noAuthors, false},
		{StrategyTitleAuthorsYear, noYear, false},
		{StrategyTitleAuthors, noYear, true},
		{StrategyTitleAuthors, bare, false},
		{StrategyTitleYear, noAuthors, true},
		{StrategyTitleYear, bare, false},
		{StrategyTitleOnly, bare, true},
		{StrategyTitleOnly, types.Reference{}, false},
	}
	for _, tt := range tests {
		s, err := newStrategy(tt.strategy, &mockRepository{}, cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("newStrategy(%s): %v", tt.strategy, err)
		}
		if got := s.Supported(tt.ref); got != tt.want {
			t.Errorf("%s.Supported(%+v) = %v, want %v", tt.strategy, tt.ref, got, tt.want)
		}
	}
}

// A reference matched against an identical candidate must come back as the
// sole top-ranked result with a combined score above 0.95.
func TestTitleAuthorsYearExactMatch(t *testing.T) {
	ref := types.Reference{
		Title:   "Test Publication on Medical Research",
		Authors: []string{"Smith, J.", "Johnson, A."},
		Year:    2023,
	}
	exact := testPublication("W1", ref.Title, 2023, "J. Smith", "A. Johnson")
	decoy := testPublication("W2", "Unrelated Survey of Lattice Field Theory", 2023, "Q. Zhu")

	repo := &mockRepository{
		byTitleAuthorsYear: func(title string, authors []string, year int) ([]types.Publication, error) {
			if year != 2023 {
				t.Errorf("year = %d, want 2023", year)
			}
			return []types.Publication{decoy, exact}, nil
		},
	}
	s, err := newStrategy(StrategyTitleAuthorsYear, repo, testMatchConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	scored, outcome := s.Execute(context.Background(), ref)
	if outcome.Err != "" {
		t.Fatalf("outcome.Err = %q", outcome.Err)
	}
	if len(scored) != 1 {
		t.Fatalf("len(scored) = %d, want 1 (decoy must be filtered)", len(scored))
	}
	top := scored[0]
	if top.Publication.ID != exact.ID {
		t.Errorf("top result = %s, want %s", top.Publication.ID, exact.ID)
	}
	if top.Scores.Combined <= 0.95 {
		t.Errorf("Combined = %.3f, want > 0.95", top.Scores.Combined)
	}
	if !top.Scores.YearMatched || !top.Scores.HasAuthors {
		t.Errorf("Scores flags = %+v", top.Scores)
	}
}

func TestTitleAuthorsYearRejectsYearMismatch(t *testing.T) {
	ref := types.Reference{
		Title:   "Test Publication on Medical Research",
		Authors: []string{"Smith, J."},
		Year:    2023,
	}
	offByOne := testPublication("W1", ref.Title, 2022, "J. Smith")

	repo := &mockRepository{
		byTitleAuthorsYear: func(string, []string, int) ([]types.Publication, error) {
			return []types.Publication{offByOne}, nil
		},
	}
	s, _ := newStrategy(StrategyTitleAuthorsYear, repo, testMatchConfig(), zerolog.Nop())

	scored, outcome := s.Execute(context.Background(), ref)
	if len(scored) != 0 {
		t.Fatalf("len(scored) = %d, want 0", len(scored))
	}
	if !outcome.Rejected {
		t.Error("Rejected = false, want true")
	}
	if !strings.Contains(outcome.Err, "similarity below threshold") || !strings.Contains(outcome.Err, "year mismatch") {
		t.Errorf("Err = %q", outcome.Err)
	}
}

func TestTitleStrategyNoResults(t *testing.T) {
	ref := types.Reference{Title: "Test Publication on Medical Research", Authors: []string{"Smith, J."}, Year: 2023}
	s, _ := newStrategy(StrategyTitleAuthorsYear, &mockRepository{}, testMatchConfig(), zerolog.Nop())

	scored, outcome := s.Execute(context.Background(), ref)
	if len(scored) != 0 {
		t.Fatalf("len(scored) = %d, want 0", len(scored))
	}
	if outcome.Rejected {
		t.Error("empty result set must not be classified as a rejection")
	}
	if outcome.Err != "No results found" {
		t.Errorf("Err = %q", outcome.Err)
	}
}

func TestTitleStrategyAPIError(t *testing.T) {
	ref := types.Reference{Title: "Test Publication on Medical Research", Authors: []string{"Smith, J."}}
	repo := &mockRepository{
		byTitleAuthors: func(string, []string) ([]types.Publication, error) {
			return nil, errors.New("rate limited")
		},
	}
	s, _ := newStrategy(StrategyTitleAuthors, repo, testMatchConfig(), zerolog.Nop())

	_, outcome := s.Execute(context.Background(), ref)
	if outcome.Err != "API error: rate limited" {
		t.Errorf("Err = %q", outcome.Err)
	}
	if outcome.Rejected {
		t.Error("API errors must not be classified as rejections")
	}
}

func TestTitleStrategyValidationError(t *testing.T) {
	tests := []struct {
		name     string
		strategy StrategyType
		ref      types.Reference
	}{
		{"short title", StrategyTitleOnly, types.Reference{Title: "a b"}},
		{"symbols only title", StrategyTitleAuthors, types.Reference{Title: "!!! ???", Authors: []string{"Smith, J."}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{}
			s, _ := newStrategy(tt.strategy, repo, testMatchConfig(), zerolog.Nop())
			scored, outcome := s.Execute(context.Background(), tt.ref)
			if len(scored) != 0 {
				t.Fatalf("len(scored) = %d, want 0", len(scored))
			}
			if !strings.HasPrefix(outcome.Err, "Validation error:") {
				t.Errorf("Err = %q", outcome.Err)
			}
			if len(repo.calls) != 0 {
				t.Errorf("repository called on invalid input: %v", repo.calls)
			}
		})
	}
}

func TestTitleAuthorsRanksByCombined(t *testing.T) {
	ref := types.Reference{
		Title:   "Effects of Aspirin on Cardiovascular Outcomes",
		Authors: []string{"Smith, J.", "Johnson, A."},
	}
	best := testPublication("W1", ref.Title, 2020, "J. Smith", "A. Johnson")
	runnerUp := testPublication("W2", "Effects of Aspirin on Cardiovascular Outcomes in Adults", 2021, "J. Smith", "A. Johnson")

	repo := &mockRepository{
		byTitleAuthors: func(string, []string) ([]types.Publication, error) {
			return []types.Publication{runnerUp, best}, nil
		},
	}
	s, _ := newStrategy(StrategyTitleAuthors, repo, testMatchConfig(), zerolog.Nop())

	scored, outcome := s.Execute(context.Background(), ref)
	if outcome.Err != "" {
		t.Fatalf("outcome.Err = %q", outcome.Err)
	}
	if len(scored) == 0 {
		t.Fatal("no candidates accepted")
	}
	if scored[0].Publication.ID != best.ID {
		t.Errorf("top result = %s, want exact title first", scored[0].Publication.ID)
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Scores.Combined > scored[i-1].Scores.Combined {
			t.Errorf("results not in descending combined order at %d", i)
		}
	}
}

func TestTitleYearFiltersYear(t *testing.T) {
	ref := types.Reference{Title: "Effects of Aspirin on Cardiovascular Outcomes", Year: 2020}
	right := testPublication("W1", ref.Title, 2020)
	wrong := testPublication("W2", ref.Title, 2019)

	repo := &mockRepository{
		byTitleYear: func(string, int) ([]types.Publication, error) {
			return []types.Publication{wrong, right}, nil
		},
	}
	s, _ := newStrategy(StrategyTitleYear, repo, testMatchConfig(), zerolog.Nop())

	scored, _ := s.Execute(context.Background(), ref)
	if len(scored) != 1 {
		t.Fatalf("len(scored) = %d, want 1", len(scored))
	}
	if scored[0].Publication.ID != right.ID {
		t.Errorf("kept %s, want the year-matched candidate", scored[0].Publication.ID)
	}
	if scored[0].Scores.HasAuthors {
		t.Error("HasAuthors = true for a title/year match")
	}
}

// The title-only fallback demands a stricter threshold than the other
// strategies: a candidate that would clear the base title threshold can
// still be rejected here.
func TestTitleOnlyStricterThreshold(t *testing.T) {
	cfg := testMatchConfig()
	if got := cfg.EffectiveTitleOnlyThreshold(); got != cfg.TitleSimilarityThreshold+0.10 {
		t.Fatalf("EffectiveTitleOnlyThreshold = %.2f, want base + 0.10", got)
	}

	ref := types.Reference{Title: "Effects of Aspirin on Cardiovascular Outcomes"}
	unrelated := testPublication("W1", "Nursing Staff Retention in Rural Clinics", 2020)
	repo := &mockRepository{
		byTitle: func(string) ([]types.Publication, error) {
			return []types.Publication{unrelated}, nil
		},
	}
	s, _ := newStrategy(StrategyTitleOnly, repo, cfg, zerolog.Nop())

	scored, outcome := s.Execute(context.Background(), ref)
	if len(scored) != 0 {
		t.Fatalf("len(scored) = %d, want 0 under the strict threshold", len(scored))
	}
	if !outcome.Rejected {
		t.Error("Rejected = false, want true")
	}
	if !strings.Contains(outcome.Err, "(0.95)") {
		t.Errorf("Err = %q, want the strict threshold in the message", outcome.Err)
	}
}

func TestTitleOnlyThresholdOverride(t *testing.T) {
	cfg := testMatchConfig()
	cfg.TitleOnlySimilarityThreshold = 0.70
	if got := cfg.EffectiveTitleOnlyThreshold(); got != 0.70 {
		t.Fatalf("EffectiveTitleOnlyThreshold = %.2f, want 0.70", got)
	}

	ref := types.Reference{Title: "Effects of Aspirin on Cardiovascular Outcomes"}
	exact := testPublication("W1", ref.Title, 2020)
	repo := &mockRepository{
		byTitle: func(string) ([]types.Publication, error) {
			return []types.Publication{exact}, nil
		},
	}
	s, _ := newStrategy(StrategyTitleOnly, repo, cfg, zerolog.Nop())

	scored, outcome := s.Execute(context.Background(), ref)
	if outcome.Err != "" {
		t.Fatalf("outcome.Err = %q", outcome.Err)
	}
	if len(scored) != 1 {
		t.Fatalf("len(scored) = %d, want 1", len(scored))
	}
	if scored[0].Scores.Combined != scored[0].Scores.Title {
		t.Error("title-only combined score must equal the title similarity")
	}
}
