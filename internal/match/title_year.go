// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refmatch/pkg/types"
)

// titleYearStrategy searches by title and year for references without
// usable author names. Ranking is by title similarity alone; the year must
// match exactly.
type titleYearStrategy struct {
	repo PublicationRepository
	cfg  types.MatchConfig
	log  zerolog.Logger
}

func (s *titleYearStrategy) Name() string  { return string(StrategyTitleYear) }
func (s *titleYearStrategy) Priority() int { return StrategyTitleYear.Priority() }

func (s *titleYearStrategy) Supported(ref types.Reference) bool {
	return hasTitle(ref) && ref.Year != 0
}

func (s *titleYearStrategy) Execute(ctx context.Context, ref types.Reference) ([]ScoredPublication, Outcome) {
	outcome := Outcome{
		QueryType:  "title, year search",
		SearchTerm: ref.Title,
	}

	if err := validateTitleReference(ref); err != nil {
		outcome.Err = fmt.Sprintf("Validation error: %v", err)
		return nil, outcome
	}
	if err := validateYear(ref.Year); err != nil {
		outcome.Err = fmt.Sprintf("Validation error: %v", err)
		return nil, outcome
	}

	results, err := s.repo.SearchByTitleYear(ctx, ref.Title, ref.Year)
	if err != nil {
		outcome.Err = fmt.Sprintf("API error: %v", err)
		s.log.Warn().Str("strategy", s.Name()).Err(err).Msg("search failed")
		return nil, outcome
	}

	scored := s.filterAndRank(ref, results)
	if len(scored) == 0 {
		if len(results) > 0 {
			outcome.Err = fmt.Sprintf(
				"Results found but similarity below threshold (T>%.2f) or year mismatch",
				s.cfg.TitleSimilarityThreshold)
			outcome.Rejected = true
		} else {
			outcome.Err = "No results found"
		}
		return nil, outcome
	}

	s.log.Info().Str("strategy", s.Name()).Int("candidates", len(scored)).Msg("candidates accepted")
	return scored, outcome
}

func (s *titleYearStrategy) filterAndRank(ref types.Reference, results []types.Publication) []ScoredPublication {
	var scored []ScoredPublication
	for _, pub := range results {
		if pub.PublicationYear != ref.Year {
			continue
		}

		titleSim := titleSimilarity(ref.Title, pub.Title)
		if titleSim < s.cfg.TitleSimilarityThreshold {
			continue
		}

		scored = append(scored, ScoredPublication{
			Publication: pub,
			Scores: Scores{
				Title:       titleSim,
				YearMatched: true,
				HasYear:     true,
				Combined:    titleSim,
			},
		})
	}
	rankByCombined(scored)
	return scored
}
