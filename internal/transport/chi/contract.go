package chi

import (
	"context"
	"time"

	"github.com/truescope/devisd/internal/domain"
	interventionrepo "github.com/truescope/devisd/internal/repository/intervention"
	healthuc "github.com/truescope/devisd/internal/usecase/health"
	quoteuc "github.com/truescope/devisd/internal/usecase/quote"
)

// QuoteService drives the quote-request lifecycle.
type QuoteService interface {
	CreateAndAnalyze(ctx context.Context, in quoteuc.CreateInput) (*quoteuc.AnalysisResult, error)
	Reanalyze(ctx context.Context, id string) (*quoteuc.AnalysisResult, error)
	Validate(ctx context.Context, id string, in quoteuc.ValidationInput) (domain.Intervention, error)
	Get(ctx context.Context, id string) (*domain.QuoteRequest, error)
	List(ctx context.Context, f domain.RequestFilter) ([]*domain.QuoteRequest, error)
	ClassifyProblemType(ctx context.Context, trade domain.Trade, description string) (string, error)
	CollectStats(ctx context.Context) (quoteuc.Stats, error)
}

// PricingService manages the price catalog.
type PricingService interface {
	Catalog(ctx context.Context) (domain.Catalog, error)
	TradeCatalog(ctx context.Context, trade domain.Trade) (domain.TradeCatalog, error)
	Lookup(ctx context.Context, code string) (domain.Price, error)
	Upsert(ctx context.Context, p domain.Price) error
	Create(ctx context.Context, trade domain.Trade, category domain.PriceCategory,
		designation string, amount float64, unit string) (domain.Price, error)
	Delete(ctx context.Context, code string) error
	Seed(ctx context.Context) (int, error)
}

// MatcherService ranks the corpus against ad hoc queries, with the same
// primitives the analysis pipeline uses.
type MatcherService interface {
	FindSimilar(ctx context.Context, trade domain.Trade, description string, keywords []string) []domain.MatchResult
	Confidence(results []domain.MatchResult) domain.Confidence
}

// CorpusReader exposes the validated-intervention corpus for browsing.
type CorpusReader interface {
	Get(ctx context.Context, id string) (domain.Intervention, error)
	ListValidated(ctx context.Context, trade domain.Trade) ([]domain.Intervention, error)
	CollectStats(ctx context.Context, now time.Time) (interventionrepo.Stats, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
