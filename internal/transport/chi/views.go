package chi

import (
	"time"

	"github.com/truescope/devisd/internal/domain"
	quoteuc "github.com/truescope/devisd/internal/usecase/quote"
)

// ErrorResponse is the JSON error envelope every failing route returns.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes used in ErrorResponse.
const (
	codeBadRequest           = "bad_request"
	codeValidationFailed     = "validation_failed"
	codeRequestNotFound      = "request_not_found"
	codeInterventionNotFound = "intervention_not_found"
	codePriceNotFound        = "price_not_found"
	codeAlreadyValidated     = "already_validated"
	codeGenerationFailed     = "generation_failed"
	codeStoreUnavailable     = "store_unavailable"
	codeInternalError        = "internal_error"
)

// interventionView is the wire shape of a corpus entry. Interventions are
// immutable domain values with private fields, so the transport flattens
// them explicitly instead of relying on struct tags.
type interventionView struct {
	ID          string          `json:"id"`
	Trade       domain.Trade    `json:"trade"`
	Description string          `json:"description"`
	Keywords    []string        `json:"keywords"`
	ProblemType string          `json:"problemType"`
	MediaURLs   []string        `json:"mediaUrls,omitempty"`
	Solution    domain.Solution `json:"solution"`
	CreatedAt   time.Time       `json:"createdAt"`
	ValidatedAt time.Time       `json:"validatedAt"`
}

func interventionToView(iv domain.Intervention) interventionView {
	keywords := iv.Keywords()
	if keywords == nil {
		keywords = []string{}
	}
	return interventionView{
		ID:          iv.ID(),
		Trade:       iv.Trade(),
		Description: iv.Description(),
		Keywords:    keywords,
		ProblemType: iv.ProblemType(),
		MediaURLs:   iv.MediaURLs(),
		Solution:    iv.Solution(),
		CreatedAt:   iv.CreatedAt(),
		ValidatedAt: iv.ValidatedAt(),
	}
}

// matchView is one similarity hit as returned to the caller.
type matchView struct {
	Intervention    interventionView `json:"intervention"`
	Score           float64          `json:"score"`
	MatchedKeywords []string         `json:"matchedKeywords"`
}

func matchesToViews(results []domain.MatchResult) []matchView {
	views := make([]matchView, 0, len(results))
	for i := range results {
		matched := results[i].MatchedKeywords()
		if matched == nil {
			matched = []string{}
		}
		views = append(views, matchView{
			Intervention:    interventionToView(results[i].Intervention()),
			Score:           results[i].Score(),
			MatchedKeywords: matched,
		})
	}
	return views
}

// analysisView is the response of create and reanalyze.
type analysisView struct {
	Request       *domain.QuoteRequest `json:"request"`
	Similar       []matchView          `json:"similarInterventions"`
	Confidence    domain.Confidence    `json:"confidence"`
	EstimateTotal float64              `json:"estimateTotal"`
}

func analysisToView(res *quoteuc.AnalysisResult) analysisView {
	return analysisView{
		Request:       res.Request,
		Similar:       matchesToViews(res.Similar),
		Confidence:    res.Confidence,
		EstimateTotal: domain.EstimateTotal(res.Solution.EstimateLines),
	}
}
