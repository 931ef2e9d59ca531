// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refmatch/pkg/types"
)

// doiPattern matches bare DOIs: "10.1234/abc-def".
var doiPattern = regexp.MustCompile(`^10\.\d{4,}/[-._;()/:A-Za-z0-9]+$`)

// pmidPattern matches PubMed IDs (digits only).
var pmidPattern = regexp.MustCompile(`^\d+$`)

// identifierStrategy resolves a reference by DOI or PMID. Identifier
// matches are authoritative: a resolved record is returned as-is with no
// similarity scoring.
type identifierStrategy struct {
	repo PublicationRepository
	log  zerolog.Logger
}

func (s *identifierStrategy) Name() string  { return string(StrategyIdentifier) }
func (s *identifierStrategy) Priority() int { return StrategyIdentifier.Priority() }

func (s *identifierStrategy) Supported(ref types.Reference) bool {
	return strings.TrimSpace(ref.DOI) != "" || strings.TrimSpace(ref.PMID) != ""
}

func validDOI(doi string) bool {
	return doiPattern.MatchString(strings.TrimSpace(doi))
}

func validPMID(pmid string) bool {
	return pmidPattern.MatchString(strings.TrimSpace(pmid))
}

// Execute tries the DOI first; a resolved DOI returns immediately. It
// falls back to the PMID, and when neither resolves returns an empty
// slice with the concatenated error log of both attempts.
func (s *identifierStrategy) Execute(ctx context.Context, ref types.Reference) ([]ScoredPublication, Outcome) {
	outcome := Outcome{}
	var errLog []string

	if doi := strings.TrimSpace(ref.DOI); doi != "" {
		if !validDOI(doi) {
			errLog = append(errLog, fmt.Sprintf("invalid DOI format: %s", doi))
		} else {
			outcome.QueryType = "doi filter"
			outcome.SearchTerm = doi
			pub, err := s.repo.GetByDOI(ctx, doi)
			switch {
			case err != nil:
				errLog = append(errLog, fmt.Sprintf("DOI API error: %v", err))
				s.log.Warn().Str("strategy", s.Name()).Str("doi", doi).Err(err).Msg("DOI lookup failed")
			case pub != nil:
				s.log.Info().Str("strategy", s.Name()).Str("doi", doi).Msg("matched by DOI")
				return []ScoredPublication{{Publication: *pub}}, outcome
			default:
				errLog = append(errLog, "DOI not found")
			}
		}
	}

	if pmid := strings.TrimSpace(ref.PMID); pmid != "" {
		if !validPMID(pmid) {
			errLog = append(errLog, fmt.Sprintf("invalid PMID format: %s", pmid))
		} else {
			outcome.QueryType = "pmid filter"
			outcome.SearchTerm = pmid
			pub, err := s.repo.GetByPMID(ctx, pmid)
			switch {
			case err != nil:
				errLog = append(errLog, fmt.Sprintf("PMID API error: %v", err))
				s.log.Warn().Str("strategy", s.Name()).Str("pmid", pmid).Err(err).Msg("PMID lookup failed")
			case pub != nil:
				s.log.Info().Str("strategy", s.Name()).Str("pmid", pmid).Msg("matched by PMID")
				return []ScoredPublication{{Publication: *pub}}, outcome
			default:
				errLog = append(errLog, "PMID not found")
			}
		}
	}

	if len(errLog) > 0 {
		outcome.Err = strings.Join(errLog, "; ")
	} else {
		outcome.Err = "No identifier matched"
	}
	if outcome.SearchTerm == "" {
		outcome.QueryType = "identifier filter"
		outcome.SearchTerm = fmt.Sprintf("DOI: %s, PMID: %s", ref.DOI, ref.PMID)
	}
	return nil, outcome
}
