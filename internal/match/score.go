// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"errors"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/pdiddy/refmatch/internal/textnorm"
	"github.com/pdiddy/refmatch/pkg/types"
)

// maxAuthorsCompared caps how many names from each side enter the author
// similarity computation.
const maxAuthorsCompared = 10

// Combined-score weights when a strategy scores both title and authors.
const (
	titleWeight  = 0.6
	authorWeight = 0.4
)

var (
	errTitleTooShort = errors.New("title too short for reliable matching")
	errInvalidYear   = errors.New("invalid publication year")
)

// titleSimilarity computes a weighted-ratio fuzzy similarity between the
// normalized titles, scaled to [0,1].
func titleSimilarity(a, b string) float64 {
	return float64(fuzzy.WRatio(textnorm.Normalize(a), textnorm.Normalize(b))) / 100.0
}

// authorsSimilarity averages, over up to the first ten normalized
// reference authors, each author's best token-set-ratio match against up
// to ten of the candidate's normalized author display names. Returns 0
// when either side is empty.
func authorsSimilarity(refAuthors []string, pub types.Publication) float64 {
	var candidates []string
	for _, name := range pub.AuthorNames() {
		if n := textnorm.Normalize(name); n != "" {
			candidates = append(candidates, n)
		}
		if len(candidates) == maxAuthorsCompared {
			break
		}
	}
	if len(candidates) == 0 {
		return 0
	}

	var normalized []string
	for _, a := range refAuthors {
		if n := textnorm.Normalize(a); n != "" {
			normalized = append(normalized, n)
		}
		if len(normalized) == maxAuthorsCompared {
			break
		}
	}
	if len(normalized) == 0 {
		return 0
	}

	total := 0
	for _, ref := range normalized {
		best := 0
		for _, cand := range candidates {
			if score := fuzzy.TokenSetRatio(ref, cand); score > best {
				best = score
			}
		}
		total += best
	}
	return float64(total) / float64(len(normalized)) / 100.0
}

// rankByCombined sorts best-first. The sort is stable so ties keep the
// repository's own relevance order.
func rankByCombined(scored []ScoredPublication) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Scores.Combined > scored[j].Scores.Combined
	})
}

// validateTitleReference rejects references whose normalized title is too
// short to match reliably.
func validateTitleReference(ref types.Reference) error {
	if len(textnorm.Normalize(ref.Title)) < 4 {
		return errTitleTooShort
	}
	return nil
}

// validateYear rejects non-positive years.
func validateYear(year int) error {
	if year <= 0 {
		return errInvalidYear
	}
	return nil
}

// hasTitle reports a non-blank title.
func hasTitle(ref types.Reference) bool {
	return strings.TrimSpace(ref.Title) != ""
}
