// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match implements the strategy cascade that matches bibliographic
// references to OpenAlex publication records. Strategies are tried in
// fixed priority order, identifier lookups first and weaker title-based
// searches last, and the first one to produce an accepted candidate wins.
package match

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refmatch/pkg/types"
)

// StrategyType enumerates the matching strategies. The declaration order
// matches the priority order: strategies encoding more distinguishing
// fields run before weaker fallbacks.
type StrategyType string

const (
	StrategyIdentifier       StrategyType = "identifier"
	StrategyTitleAuthorsYear StrategyType = "title_authors_year"
	StrategyTitleAuthors     StrategyType = "title_authors"
	StrategyTitleYear        StrategyType = "title_year"
	StrategyTitleOnly        StrategyType = "title_only"
)

// strategyPriorities fixes the total order of the cascade; lower runs
// first.
var strategyPriorities = map[StrategyType]int{
	StrategyIdentifier:       1,
	StrategyTitleAuthorsYear: 2,
	StrategyTitleAuthors:     3,
	StrategyTitleYear:        4,
	StrategyTitleOnly:        5,
}

// Priority returns the strategy's rank in the cascade (lower = earlier).
func (t StrategyType) Priority() int { return strategyPriorities[t] }

// AllStrategyTypes returns every strategy type in declaration (priority)
// order.
func AllStrategyTypes() []StrategyType {
	return []StrategyType{
		StrategyIdentifier,
		StrategyTitleAuthorsYear,
		StrategyTitleAuthors,
		StrategyTitleYear,
		StrategyTitleOnly,
	}
}

// Outcome describes one strategy invocation for the audit trail. Execute
// always returns an Outcome, success or failure.
type Outcome struct {
	// QueryType describes the query shape, e.g. "doi filter".
	QueryType string

	// SearchTerm is the term sent to the repository.
	SearchTerm string

	// Err is the reason no candidate was returned ("" on success).
	Err string

	// Rejected reports that the repository returned candidates but all
	// fell below the similarity thresholds. The orchestrator uses this
	// flag, not the error text, to tell REJECTED from NOT_FOUND.
	Rejected bool
}

// Scores holds the similarity values computed for one candidate. They are
// kept alongside the candidate rather than written into it, and merged
// into the final result's search details at extraction time.
type Scores struct {
	Title       float64
	Authors     float64
	HasAuthors  bool
	YearMatched bool
	HasYear     bool
	Combined    float64
}

// ScoredPublication pairs a candidate with its similarity scores.
type ScoredPublication struct {
	Publication types.Publication
	Scores      Scores
}

// Strategy is one matching technique keyed to a combination of available
// reference fields.
//
// Supported is a cheap precondition check with no I/O. Execute queries the
// repository, filters candidates by the similarity thresholds and returns
// them sorted best-first; an empty slice means no acceptable match, with
// the reason in the Outcome. Execute never panics or propagates errors:
// validation failures and repository errors are folded into Outcome.Err.
type Strategy interface {
	Name() string
	Priority() int
	Supported(ref types.Reference) bool
	Execute(ctx context.Context, ref types.Reference) ([]ScoredPublication, Outcome)
}

// newStrategy constructs the strategy for a type. Title-based strategies
// reject an invalid threshold configuration here rather than at execute
// time.
func newStrategy(t StrategyType, repo PublicationRepository, cfg types.MatchConfig, log zerolog.Logger) (Strategy, error) {
	if t != StrategyIdentifier {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	switch t {
	case StrategyIdentifier:
		return &identifierStrategy{repo: repo, log: log}, nil
	case StrategyTitleAuthorsYear:
		return &titleAuthorsYearStrategy{repo: repo, cfg: cfg, log: log}, nil
	case StrategyTitleAuthors:
		return &titleAuthorsStrategy{repo: repo, cfg: cfg, log: log}, nil
	case StrategyTitleYear:
		return &titleYearStrategy{repo: repo, cfg: cfg, log: log}, nil
	case StrategyTitleOnly:
		return &titleOnlyStrategy{repo: repo, cfg: cfg, log: log}, nil
	default:
		return nil, errUnknownStrategy(t)
	}
}

type errUnknownStrategy StrategyType

func (e errUnknownStrategy) Error() string {
	return "unknown strategy type: " + string(e)
}
