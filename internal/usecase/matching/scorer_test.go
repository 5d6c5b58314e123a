package matching

import (
	"math"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/truescope/devisd/internal/domain"
)

func makeIntervention(t *testing.T, id string, trade domain.Trade, description string, keywords []string, problemType string) domain.Intervention {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	iv, err := domain.NewIntervention(
		id, trade, description, keywords, problemType, nil,
		domain.Solution{}, now, now,
	)
	if err != nil {
		t.Fatalf("NewIntervention: %v", err)
	}
	return iv
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestKeywordScore_Jaccard(t *testing.T) {
	score, matched := keywordScore(
		[]string{"fuite", "evier", "cuisine"},
		[]string{"fuite", "robinet"},
	)
	// intersection 1, union 4
	if !almostEqual(score, 0.25) {
		t.Errorf("score = %f, want 0.25", score)
	}
	if len(matched) != 1 || matched[0] != "fuite" {
		t.Errorf("matched = %v, want [fuite]", matched)
	}
}

func TestKeywordScore_CaseInsensitive(t *testing.T) {
	score, matched := keywordScore([]string{"Fuite", "EVIER"}, []string{"fuite", "evier"})
	if !almostEqual(score, 1.0) {
		t.Errorf("score = %f, want 1.0", score)
	}
	if len(matched) != 2 {
		t.Errorf("matched = %v, want 2 entries", matched)
	}
}

func TestKeywordScore_Commutative(t *testing.T) {
	cases := [][2][]string{
		{{"fuite", "evier"}, {"evier", "robinet", "fuite"}},
		{{"porte"}, {}},
		{{}, {}},
		{{"a", "serrure"}, {"serrure", "clé"}},
	}
	for _, c := range cases {
		ab, matchedAB := keywordScore(c[0], c[1])
		ba, matchedBA := keywordScore(c[1], c[0])
		if !almostEqual(ab, ba) {
			t.Errorf("keywordScore(%v,%v)=%f != keywordScore(%v,%v)=%f",
				c[0], c[1], ab, c[1], c[0], ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("score %f out of [0,1]", ab)
		}
		// matched ordering may differ, the set must not.
		sort.Strings(matchedAB)
		sort.Strings(matchedBA)
		if len(matchedAB) != len(matchedBA) {
			t.Errorf("matched sets differ: %v vs %v", matchedAB, matchedBA)
		}
	}
}

func TestKeywordScore_EmptyUnion(t *testing.T) {
	score, matched := keywordScore(nil, nil)
	if score != 0 {
		t.Errorf("score = %f, want 0", score)
	}
	if len(matched) != 0 {
		t.Errorf("matched = %v, want empty", matched)
	}
}

func TestTextScore_Overlap(t *testing.T) {
	// tokens: [fuite sous evier cuisine] vs [fuite robinet evier]
	// 2 common tokens over max(4,3)
	score := textScore("fuite sous evier cuisine", "fuite robinet evier")
	if !almostEqual(score, 0.5) {
		t.Errorf("score = %f, want 0.5", score)
	}
}

func TestTextScore_Identical(t *testing.T) {
	score := textScore("porte claquée serrure bloquée", "porte claquée serrure bloquée")
	if !almostEqual(score, 1.0) {
		t.Errorf("score = %f, want 1.0", score)
	}
}

func TestTextScore_BothEmpty(t *testing.T) {
	if score := textScore("", ""); score != 0 {
		t.Errorf("score = %f, want 0", score)
	}
	if score := textScore("!!! 123", "..."); score != 0 {
		t.Errorf("punctuation-only score = %f, want 0", score)
	}
}

func TestTextScore_Bounded(t *testing.T) {
	score := textScore("fuite evier", "fuite fuite fuite evier evier tuyau robinet cuisine")
	if score < 0 || score > 1 {
		t.Errorf("score %f out of [0,1]", score)
	}
}

func TestScore_TradeMismatchIsHardGate(t *testing.T) {
	svc := New(nil, DefaultParams(), zap.NewNop())
	iv := makeIntervention(t, "iv-1", domain.TradeLocksmith,
		"fuite sous evier cuisine", []string{"fuite", "evier", "cuisine"}, "fuite_robinet")

	// Identical text and keywords, different trade: exactly 0.
	r := svc.score(domain.TradePlumbing, "fuite sous evier cuisine",
		[]string{"fuite", "evier", "cuisine", "fuite_robinet"}, iv)
	if r.Score() != 0 {
		t.Errorf("score = %f, want exactly 0", r.Score())
	}
	if len(r.MatchedKeywords()) != 0 {
		t.Errorf("matchedKeywords = %v, want empty", r.MatchedKeywords())
	}
}

func TestScore_Weights(t *testing.T) {
	svc := New(nil, DefaultParams(), zap.NewNop())
	iv := makeIntervention(t, "iv-1", domain.TradePlumbing,
		"fuite robinet evier", []string{"fuite", "evier"}, "fuite_robinet")

	// kw: inter 2 / union 4 = 0.5; tx: 2/4 = 0.5; no bonus.
	r := svc.score(domain.TradePlumbing, "fuite sous evier cuisine",
		[]string{"fuite", "sous", "evier", "cuisine"}, iv)
	if !almostEqual(r.Score(), 0.5*0.5+0.5*0.3) {
		t.Errorf("score = %f, want 0.4", r.Score())
	}
}

func TestScore_ProblemTypeBonus(t *testing.T) {
	svc := New(nil, DefaultParams(), zap.NewNop())
	iv := makeIntervention(t, "iv-1", domain.TradePlumbing,
		"fuite robinet", []string{"fuite"}, "fuite_robinet")

	with := svc.score(domain.TradePlumbing, "fuite robinet",
		[]string{"fuite", "fuite_robinet"}, iv)
	without := svc.score(domain.TradePlumbing, "fuite robinet",
		[]string{"fuite", "Fuite_Robinet"}, iv) // bonus match is case-sensitive
	if !almostEqual(with.Score()-without.Score(), 0.2) {
		t.Errorf("bonus delta = %f, want 0.2 (with=%f without=%f)",
			with.Score()-without.Score(), with.Score(), without.Score())
	}
}

func TestScore_ClampedToOne(t *testing.T) {
	svc := New(nil, DefaultParams(), zap.NewNop())
	iv := makeIntervention(t, "iv-1", domain.TradePlumbing,
		"fuite robinet evier cuisine", []string{"fuite", "robinet", "fuite_robinet"}, "fuite_robinet")

	// Perfect keyword and text overlap plus the bonus reach the ceiling.
	r := svc.score(domain.TradePlumbing, "fuite robinet evier cuisine",
		[]string{"fuite", "robinet", "fuite_robinet"}, iv)
	if r.Score() > 1 {
		t.Errorf("score = %f, want clamped to at most 1", r.Score())
	}
	if !almostEqual(r.Score(), 1) {
		t.Errorf("score = %f, want 1", r.Score())
	}
}
