// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refmatch/pkg/types"
)

// titleAuthorsYearStrategy searches by title, authors and year. Candidates
// must match the year exactly and pass both similarity thresholds.
type titleAuthorsYearStrategy struct {
	repo PublicationRepository
	cfg  types.MatchConfig
	log  zerolog.Logger
}

func (s *titleAuthorsYearStrategy) Name() string  { return string(StrategyTitleAuthorsYear) }
func (s *titleAuthorsYearStrategy) Priority() int { return StrategyTitleAuthorsYear.Priority() }

func (s *titleAuthorsYearStrategy) Supported(ref types.Reference) bool {
	return hasTitle(ref) && ref.HasAuthors() && ref.Year != 0
}

func (s *titleAuthorsYearStrategy) Execute(ctx context.Context, ref types.Reference) ([]ScoredPublication, Outcome) {
	outcome := Outcome{
		QueryType:  "title, authors, year search",
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

	results, err := s.repo.SearchByTitleAuthorsYear(ctx, ref.Title, ref.Authors, ref.Year)
	if err != nil {
		outcome.Err = fmt.Sprintf("API error: %v", err)
		s.log.Warn().Str("strategy", s.Name()).Err(err).Msg("search failed")
		return nil, outcome
	}

	scored := s.filterAndRank(ref, results)
	if len(scored) == 0 {
		if len(results) > 0 {
			outcome.Err = fmt.Sprintf(
				"Results found but similarity below threshold (T>%.2f, A>%.2f) or year mismatch",
				s.cfg.TitleSimilarityThreshold, s.cfg.AuthorSimilarityThreshold)
			outcome.Rejected = true
		} else {
			outcome.Err = "No results found"
		}
		return nil, outcome
	}

	s.log.Info().Str("strategy", s.Name()).Int("candidates", len(scored)).Msg("candidates accepted")
	return scored, outcome
}

func (s *titleAuthorsYearStrategy) filterAndRank(ref types.Reference, results []types.Publication) []ScoredPublication {
	var scored []ScoredPublication
	for _, pub := range results {
		// Year must match exactly; mismatches are dropped, not penalized.
		if pub.PublicationYear != ref.Year {
			continue
		}

		titleSim := titleSimilarity(ref.Title, pub.Title)
		if titleSim < s.cfg.TitleSimilarityThreshold {
			continue
		}

		authorSim := authorsSimilarity(ref.Authors, pub)
		if authorSim < s.cfg.AuthorSimilarityThreshold {
			continue
		}

		scored = append(scored, ScoredPublication{
			Publication: pub,
			Scores: Scores{
				Title:       titleSim,
				Authors:     authorSim,
				HasAuthors:  true,
				YearMatched: true,
				HasYear:     true,
				Combined:    titleWeight*titleSim + authorWeight*authorSim,
			},
		})
	}
	rankByCombined(scored)
	return scored
}
