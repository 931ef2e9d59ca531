// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package authorquery expands author names into search-query variants.
// Reference lists and OpenAlex rarely agree on name format ("Smith, J."
// vs "John Smith" vs "J. Smith"), so each name is expanded into the
// plausible orderings and initial forms before being sent to the
// raw-author-name full-text filter.
package authorquery

import (
	"sort"
	"strings"

	"github.com/pdiddy/refmatch/internal/textnorm"
)

// Variants returns the deduplicated, lexicographically sorted set of query
// variants for the given author names. For each non-empty name the set
// contains:
//
//   - the normalized name itself
//   - the tokens in reverse order (two or more tokens)
//   - first initial plus the remaining tokens (two or more tokens)
//   - both initials (exactly two tokens, second longer than one rune)
//
// A single-token name yields only its normalized form. Returns nil when no
// name produces a usable variant.
func Variants(authors []string) []string {
	set := make(map[string]struct{})

	for _, name := range authors {
		normalized := textnorm.Normalize(name)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}

		parts := strings.Fields(normalized)
		if len(parts) < 2 {
			continue
		}

		reversed := make([]string, len(parts))
		for i, p := range parts {
			reversed[len(parts)-1-i] = p
		}
		set[strings.Join(reversed, " ")] = struct{}{}

		initial := parts[0][:1]
		set[initial+" "+strings.Join(parts[1:], " ")] = struct{}{}

		if len(parts) == 2 && len(parts[1]) > 1 {
			set[initial+" "+parts[1][:1]] = struct{}{}
		}
	}

	if len(set) == 0 {
		return nil
	}
	variants := make([]string, 0, len(set))
	for v := range set {
		variants = append(variants, v)
	}
	sort.Strings(variants)
	return variants
}

// Query joins the variants with "|" (logical OR) into the string passed to
// the OpenAlex raw_author_name search filter. Returns "" when the authors
// yield no variants.
func Query(authors []string) string {
	return strings.Join(Variants(authors), "|")
}
