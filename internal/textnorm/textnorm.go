// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm normalizes text for comparison and query building.
// Every similarity computation and every OpenAlex query goes through
// Normalize; using anything else on one side would make the scores
// meaningless.
package textnorm

import "strings"

// Normalize lowercases s, replaces every character that is not a letter,
// digit or whitespace with a space, collapses whitespace runs to a single
// space and trims the ends. Empty input yields "". Normalize is
// idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		// Only ASCII letters and digits survive; accented characters
		// become spaces like any other punctuation.
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
