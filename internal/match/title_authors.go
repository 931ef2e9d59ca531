// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refmatch/pkg/types"
)

// titleAuthorsStrategy searches by title and authors for references whose
// year is missing or untrustworthy.
type titleAuthorsStrategy struct {
	repo PublicationRepository
	cfg  types.MatchConfig
	log  zerolog.Logger
}

func (s *titleAuthorsStrategy) Name() string  { return string(StrategyTitleAuthors) }
func (s *titleAuthorsStrategy) Priority() int { return StrategyTitleAuthors.Priority() }

func (s *titleAuthorsStrategy) Supported(ref types.Reference) bool {
	return hasTitle(ref) && ref.HasAuthors()
}

func (s *titleAuthorsStrategy) Execute(ctx context.Context, ref types.Reference) ([]ScoredPublication, Outcome) {
	outcome := Outcome{
		QueryType:  "title, authors search",
		SearchTerm: ref.Title,
	}

	if err := validateTitleReference(ref); err != nil {
		outcome.Err = fmt.Sprintf("Validation error: %v", err)
		return nil, outcome
	}

	results, err := s.repo.SearchByTitleAuthors(ctx, ref.Title, ref.Authors)
	if err != nil {
		outcome.Err = fmt.Sprintf("API error: %v", err)
		s.log.Warn().Str("strategy", s.Name()).Err(err).Msg("search failed")
		return nil, outcome
	}

	scored := s.filterAndRank(ref, results)
	if len(scored) == 0 {
		if len(results) > 0 {
			outcome.Err = fmt.Sprintf(
				"Results found but similarity below threshold (T>%.2f, A>%.2f)",
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

func (s *titleAuthorsStrategy) filterAndRank(ref types.Reference, results []types.Publication) []ScoredPublication {
	var scored []ScoredPublication
	for _, pub := range results {
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
				Title:      titleSim,
				Authors:    authorSim,
				HasAuthors: true,
				Combined:   titleWeight*titleSim + authorWeight*authorSim,
			},
		})
	}
	rankByCombined(scored)
	return scored
}
