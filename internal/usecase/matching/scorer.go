package matching

import (
	"strings"

	"github.com/truescope/devisd/internal/domain"
	"github.com/truescope/devisd/internal/domain/text"
)

// keywordScore computes the Jaccard coefficient between two keyword sets,
// matching case-insensitively. matched holds the shared keywords in the
// order they are encountered while scanning a. The score is commutative;
// the matched ordering is not.
func keywordScore(a, b []string) (float64, []string) {
	setA := lowerSet(a)
	setB := lowerSet(b)

	matched := make([]string, 0, len(setA))
	seen := make(map[string]struct{}, len(setA))
	for _, kw := range a {
		k := strings.ToLower(kw)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := setB[k]; ok {
			matched = append(matched, k)
		}
	}

	union := len(setA)
	for k := range setB {
		if _, ok := setA[k]; !ok {
			union++
		}
	}
	if union == 0 {
		return 0, matched
	}
	return float64(len(matched)) / float64(union), matched
}

// textScore computes the token-overlap ratio between two descriptions:
// the number of a-tokens present in b, over the larger vocabulary size.
// Deterministic and bounded to [0,1]; both-empty inputs score 0.
func textScore(a, b string) float64 {
	tokensA := text.Normalize(a)
	tokensB := text.Normalize(b)

	setB := text.ToSet(tokensB)
	matches := 0
	for _, tok := range tokensA {
		if _, ok := setB[tok]; ok {
			matches++
		}
	}

	total := len(tokensA)
	if len(tokensB) > total {
		total = len(tokensB)
	}
	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total)
}

// score combines keyword similarity, text similarity, and the problem-type
// bonus into one ranking score. Trade match is a hard gate, not a weighted
// factor: a different-trade intervention scores exactly 0 and nothing else
// is computed.
func (s *Service) score(
	trade domain.Trade, description string, keywords []string,
	intervention domain.Intervention,
) domain.MatchResult {
	if intervention.Trade() != trade {
		return domain.NewMatchResult(intervention, 0, []string{})
	}

	kwScore, matched := keywordScore(keywords, intervention.Keywords())
	txScore := textScore(description, intervention.Description())

	var bonus float64
	for _, kw := range keywords {
		// Case-sensitive exact token match against the categorical label.
		if kw == intervention.ProblemType() {
			bonus = s.params.ProblemTypeBonus
			break
		}
	}

	final := kwScore*s.params.KeywordWeight + txScore*s.params.TextWeight + bonus
	// The weight sum plus bonus can exceed 1; the clamp is mandatory.
	if final > 1 {
		final = 1
	}

	return domain.NewMatchResult(intervention, final, matched)
}

func lowerSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[strings.ToLower(kw)] = struct{}{}
	}
	return set
}
