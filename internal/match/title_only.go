// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refmatch/pkg/types"
)

// titleOnlyStrategy is the last-resort fallback: title similarity with no
// other field to disambiguate. It compensates with a stricter effective
// threshold than the other title strategies.
type titleOnlyStrategy struct {
	repo PublicationRepository
	cfg  types.MatchConfig
	log  zerolog.Logger
}

func (s *titleOnlyStrategy) Name() string  { return string(StrategyTitleOnly) }
func (s *titleOnlyStrategy) Priority() int { return StrategyTitleOnly.Priority() }

func (s *titleOnlyStrategy) Supported(ref types.Reference) bool {
	return hasTitle(ref)
}

func (s *titleOnlyStrategy) Execute(ctx context.Context, ref types.Reference) ([]ScoredPublication, Outcome) {
	outcome := Outcome{
		QueryType:  "title search",
		SearchTerm: ref.Title,
	}

	if err := validateTitleReference(ref); err != nil {
		outcome.Err = fmt.Sprintf("Validation error: %v", err)
		return nil, outcome
	}

	results, err := s.repo.SearchByTitle(ctx, ref.Title)
	if err != nil {
		outcome.Err = fmt.Sprintf("API error: %v", err)
		s.log.Warn().Str("strategy", s.Name()).Err(err).Msg("search failed")
		return nil, outcome
	}

	threshold := s.cfg.EffectiveTitleOnlyThreshold()
	scored := s.filterAndRank(ref, results, threshold)
	if len(scored) == 0 {
		if len(results) > 0 {
			outcome.Err = fmt.Sprintf("Results found but similarity below threshold (%.2f)", threshold)
			outcome.Rejected = true
		} else {
			outcome.Err = "No results found"
		}
		return nil, outcome
	}

	s.log.Info().Str("strategy", s.Name()).Int("candidates", len(scored)).Msg("candidates accepted")
	return scored, outcome
}

func (s *titleOnlyStrategy) filterAndRank(ref types.Reference, results []types.Publication, threshold float64) []ScoredPublication {
	var scored []ScoredPublication
	for _, pub := range results {
		titleSim := titleSimilarity(ref.Title, pub.Title)
		if titleSim < threshold {
			continue
		}

		scored = append(scored, ScoredPublication{
			Publication: pub,
			Scores: Scores{
				Title:    titleSim,
				Combined: titleSim,
			},
		})
	}
	rankByCombined(scored)
	return scored
}
