// Package text turns free-form problem descriptions into comparable token
// sets for lexical matching.
package text

import "strings"

// minTokenLen filters out short connector words, which are assumed noise.
// Tokens must be strictly longer than 3 runes to survive.
const minTokenLen = 4

// accented lists the accented letters of the target language that survive
// normalization alongside basic Latin letters.
const accented = "àâäéèêëïîôùûüç"

// Normalize lower-cases the input, deletes every character that is not a
// basic Latin letter, an accepted accented letter, or whitespace, splits on
// whitespace runs, and drops tokens shorter than 4 runes. The returned slice
// is duplicate-free in first-occurrence order; order carries no meaning for
// scoring but keeps keyword derivation deterministic.
//
// Empty or entirely-punctuation input yields an empty slice; callers must
// treat that as zero similarity, never divide by it.
func Normalize(s string) []string {
	lowered := strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case strings.ContainsRune(accented, r):
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(' ')
		}
		// Everything else (punctuation, digits, other scripts) is
		// deleted, joining adjacent fragments.
	}

	tokens := strings.Fields(b.String())

	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len([]rune(tok)) < minTokenLen {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// ToSet converts a token slice into a membership set.
func ToSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
