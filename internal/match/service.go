// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refmatch/pkg/types"
)

// Service drives the strategy cascade for each study. The strategy list
// is built once at construction, sorted by priority, and never changes;
// every MatchStudy call works on its own fresh result, so a Service is
// safe for concurrent use across studies.
type Service struct {
	repo       PublicationRepository
	cfg        types.MatchConfig
	strategies []Strategy
	log        zerolog.Logger
}

// NewService builds the cascade from the enabled strategy types in
// priority order. Strategies named in cfg.DisableStrategies
// (case-insensitive) are left out; a strategy whose construction fails is
// logged and skipped without aborting the rest.
func NewService(repo PublicationRepository, cfg types.MatchConfig, log zerolog.Logger) *Service {
	disabled := make(map[string]struct{}, len(cfg.DisableStrategies))
	for _, name := range cfg.DisableStrategies {
		disabled[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	var strategies []Strategy
	for _, t := range AllStrategyTypes() {
		if _, off := disabled[string(t)]; off {
			log.Info().Str("strategy", string(t)).Msg("strategy disabled by configuration")
			continue
		}
		strat, err := newStrategy(t, repo, cfg, log)
		if err != nil {
			log.Error().Str("strategy", string(t)).Err(err).Msg("strategy initialization failed")
			continue
		}
		strategies = append(strategies, strat)
	}

	// AllStrategyTypes is already priority-ordered, but the list contract
	// is ascending priority, so keep it explicit.
	sort.SliceStable(strategies, func(i, j int) bool {
		return strategies[i].Priority() < strategies[j].Priority()
	})

	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	log.Info().Strs("strategies", names).Msg("matching service initialized")

	return &Service{repo: repo, cfg: cfg, strategies: strategies, log: log}
}

// Strategies returns the names of the enabled strategies in cascade order.
func (s *Service) Strategies() []string {
	names := make([]string, len(s.strategies))
	for i, strat := range s.strategies {
		names[i] = strat.Name()
	}
	return names
}

// MatchStudy runs the cascade for one study. Strategies are tried in
// priority order and the first non-empty ranked result wins; every
// strategy actually invoked leaves a SearchAttempt, success or failure.
// A reference without minimal data is skipped with no attempts.
func (s *Service) MatchStudy(ctx context.Context, study types.Study) types.MatchResult {
	ref := study.Reference
	origRef := ref

	result := types.MatchResult{
		StudyID:           study.ID,
		StudyType:         study.Type,
		Status:            types.StatusNotFound,
		OriginalReference: &origRef,
	}

	if !ref.HasMinimalData(s.cfg.AllowMissingYear) {
		s.log.Warn().Str("study", study.ID).Msg("insufficient reference data, skipping search")
		result.Status = types.StatusSkipped
		return result
	}

	var rejectionReason string

	for _, strat := range s.strategies {
		if !strat.Supported(ref) {
			s.log.Debug().Str("study", study.ID).Str("strategy", strat.Name()).Msg("strategy not supported for reference")
			continue
		}

		s.log.Info().Str("study", study.ID).Str("strategy", strat.Name()).Msg("trying strategy")
		candidates, outcome := s.executeSafely(ctx, strat, ref)

		result.SearchAttempts = append(result.SearchAttempts, types.SearchAttempt{
			Strategy:   strat.Name(),
			QueryType:  outcome.QueryType,
			SearchTerm: outcome.SearchTerm,
			Error:      outcome.Err,
		})

		if len(candidates) > 0 {
			s.log.Info().Str("study", study.ID).Str("strategy", strat.Name()).Msg("match found")
			result.Status = types.StatusFound
			result.Strategy = strat.Name()
			extractPublication(&result, candidates[0])
			break
		}

		// Last rejection wins; a later strategy may still match.
		if outcome.Rejected {
			rejectionReason = outcome.Err
		}
	}

	if result.Status != types.StatusFound {
		if rejectionReason != "" {
			result.Status = types.StatusRejected
			s.log.Info().Str("study", study.ID).Str("reason", rejectionReason).Msg("final status rejected")
		} else {
			s.log.Info().Str("study", study.ID).Msg("final status not found")
		}
	}

	return result
}

// executeSafely is a second safety net around Strategy.Execute: strategies
// already fold their own failures into the Outcome, but a panic here must
// not take down the whole run.
func (s *Service) executeSafely(ctx context.Context, strat Strategy, ref types.Reference) (candidates []ScoredPublication, outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("strategy", strat.Name()).Interface("panic", r).Msg("strategy execution panicked")
			candidates = nil
			outcome = Outcome{
				QueryType:  "execution_error",
				SearchTerm: ref.Title,
				Err:        fmt.Sprintf("Strategy execution error: %v", r),
			}
		}
	}()
	return strat.Execute(ctx, ref)
}

// extractPublication populates the result's publication fields from the
// winning candidate and assembles the search-details map, merging in the
// candidate's similarity scores.
func extractPublication(result *types.MatchResult, best ScoredPublication) {
	pub := best.Publication

	result.OpenAlexID = pub.ShortID()
	result.Title = pub.Title
	result.Year = pub.PublicationYear
	result.DOI = pub.DOI
	result.Journal = pub.JournalName()

	oa := pub.OpenAccess.IsOA
	result.OpenAccess = &oa
	result.PDFURL = pub.OpenAccess.OAURL

	// Fall back to the landing page only when it is a direct PDF link.
	if result.PDFURL == "" && pub.PrimaryLocation != nil {
		if u := pub.PrimaryLocation.LandingPageURL; strings.HasSuffix(strings.ToLower(u), ".pdf") {
			result.PDFURL = u
		}
	}

	result.CitationCount = pub.CitedByCount

	details := map[string]any{
		"openalex_url":     pub.ID,
		"publication_type": pub.Type,
		"publication_date": pub.PublicationDate,
	}
	if sc := best.Scores; sc.Combined > 0 {
		details["title_similarity"] = sc.Title
		details["combined_score"] = sc.Combined
		if sc.HasAuthors {
			details["authors_similarity"] = sc.Authors
		}
		if sc.HasYear {
			details["year_match"] = sc.YearMatched
		}
	}
	result.SearchDetails = details
}
