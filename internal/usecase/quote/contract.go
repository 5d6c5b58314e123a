package quote

import (
	"context"

	"github.com/truescope/devisd/internal/domain"
)

// RequestRepository persists quote requests.
type RequestRepository interface {
	Save(ctx context.Context, req *domain.QuoteRequest) error
	Get(ctx context.Context, id string) (*domain.QuoteRequest, error)
	List(ctx context.Context, f domain.RequestFilter) ([]*domain.QuoteRequest, error)
}

// CorpusRepository appends to and reads the validated-intervention corpus.
type CorpusRepository interface {
	Append(ctx context.Context, iv *domain.Intervention) error
	Get(ctx context.Context, id string) (domain.Intervention, error)
}

// Matcher retrieves similar interventions and labels retrieval confidence.
type Matcher interface {
	FindSimilar(ctx context.Context, trade domain.Trade, description string, keywords []string) []domain.MatchResult
	Confidence(results []domain.MatchResult) domain.Confidence
}

// Pricing serves the catalog and enriches generated estimates.
type Pricing interface {
	TradeCatalog(ctx context.Context, trade domain.Trade) (domain.TradeCatalog, error)
	Enrich(ctx context.Context, sol *domain.Solution) error
}
