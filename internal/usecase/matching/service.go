// Package matching implements the similarity-retrieval and
// confidence-scoring engine over the validated-intervention corpus.
package matching

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/truescope/devisd/internal/domain"
	"github.com/truescope/devisd/internal/domain/text"
)

// Params holds the scoring weights and retrieval limits. The reference
// values are product constants; change them only with a product decision.
type Params struct {
	KeywordWeight    float64
	TextWeight       float64
	ProblemTypeBonus float64
	MinScore         float64
	MaxResults       int

	HighMaxScore   float64
	HighAvgScore   float64
	MediumMaxScore float64
	MediumAvgScore float64
}

// DefaultParams returns the reference scoring parameters.
func DefaultParams() Params {
	return Params{
		KeywordWeight:    0.5,
		TextWeight:       0.3,
		ProblemTypeBonus: 0.2,
		MinScore:         0.3,
		MaxResults:       5,
		HighMaxScore:     0.7,
		HighAvgScore:     0.5,
		MediumMaxScore:   0.4,
		MediumAvgScore:   0.3,
	}
}

// Service ranks validated interventions against incoming requests.
type Service struct {
	repo   Repository
	params Params
	logger *zap.Logger
}

// New creates a matching service.
func New(repo Repository, params Params, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, params: params, logger: logger}
}

// FindSimilar returns the most relevant validated interventions for a
// request, ranked by composite score. Callers are expected to have
// validated trade and description already.
//
// Retrieval fails open: when the corpus store is unavailable the result is
// an empty slice, never an error — an estimate without historical grounding
// beats a hard failure.
func (s *Service) FindSimilar(
	ctx context.Context, trade domain.Trade, description string, keywords []string,
) []domain.MatchResult {
	if len(keywords) == 0 {
		keywords = text.Normalize(description)
	}

	candidates, err := s.repo.ListValidated(ctx, trade)
	if err != nil {
		s.logger.Warn("corpus fetch failed, returning no similar interventions",
			zap.String("trade", trade.String()),
			zap.Error(err),
		)
		return []domain.MatchResult{}
	}

	results := make([]domain.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.Validated() {
			continue
		}
		r := s.score(trade, description, keywords, candidate)
		if r.Score() >= s.params.MinScore {
			results = append(results, r)
		}
	}

	sortResults(results)

	if len(results) > s.params.MaxResults {
		results = results[:s.params.MaxResults]
	}
	return results
}

// Confidence derives a coarse label from the score distribution of a
// retrieval result. Pure function; the high check runs first because the
// medium condition overlaps it on max alone.
func (s *Service) Confidence(results []domain.MatchResult) domain.Confidence {
	if len(results) == 0 {
		return domain.ConfidenceLow
	}

	var maxScore, sum float64
	for _, r := range results {
		if r.Score() > maxScore {
			maxScore = r.Score()
		}
		sum += r.Score()
	}
	avg := sum / float64(len(results))

	switch {
	case maxScore >= s.params.HighMaxScore && avg >= s.params.HighAvgScore:
		return domain.ConfidenceHigh
	case maxScore >= s.params.MediumMaxScore || avg >= s.params.MediumAvgScore:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// sortResults orders by score descending. Ties break on validatedAt
// descending (most recently validated first), then ID ascending, giving a
// total order that is independent of store iteration order.
func sortResults(results []domain.MatchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score() != results[j].Score() {
			return results[i].Score() > results[j].Score()
		}
		vi := results[i].Intervention()
		vj := results[j].Intervention()
		if !vi.ValidatedAt().Equal(vj.ValidatedAt()) {
			return vi.ValidatedAt().After(vj.ValidatedAt())
		}
		return vi.ID() < vj.ID()
	})
}
