package domain

// MatchResult is a single similarity hit against the corpus. Computed fresh
// per request and never persisted.
type MatchResult struct {
	intervention    Intervention
	score           float64
	matchedKeywords []string
}

// NewMatchResult creates a match result.
func NewMatchResult(intervention Intervention, score float64, matchedKeywords []string) MatchResult {
	return MatchResult{
		intervention:    intervention,
		score:           score,
		matchedKeywords: matchedKeywords,
	}
}

// Intervention returns the matched corpus entry.
func (m *MatchResult) Intervention() Intervention { return m.intervention }

// Score returns the composite similarity score in [0,1].
func (m *MatchResult) Score() float64 { return m.score }

// MatchedKeywords returns the keywords shared with the request.
func (m *MatchResult) MatchedKeywords() []string { return m.matchedKeywords }

// Confidence is the coarse label summarizing how well-grounded a request's
// retrieval results are.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
