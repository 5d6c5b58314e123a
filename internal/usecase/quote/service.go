// Package quote orchestrates the full estimation flow: persist the request,
// retrieve similar interventions, generate a solution, price it from the
// catalog, and fold validated results back into the corpus.
package quote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/truescope/devisd/internal/domain"
	"github.com/truescope/devisd/internal/metrics"
)

// Service is the orchestration use case.
type Service struct {
	requests  RequestRepository
	corpus    CorpusRepository
	matcher   Matcher
	pricing   Pricing
	generator domain.Generator
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger
}

// New creates the quote service. now and newID default to time.Now and
// random UUIDs.
func New(
	requests RequestRepository,
	corpus CorpusRepository,
	matcher Matcher,
	pricing Pricing,
	generator domain.Generator,
	now func() time.Time,
	newID func() string,
	logger *zap.Logger,
) *Service {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		requests:  requests,
		corpus:    corpus,
		matcher:   matcher,
		pricing:   pricing,
		generator: generator,
		now:       now,
		newID:     newID,
		logger:    logger,
	}
}

// CreateInput is a new quote request as submitted by the caller.
type CreateInput struct {
	Trade       domain.Trade
	Description string
	MediaURLs   []string
	MediaFiles  []domain.MediaFile
}

// ValidationInput finalizes an analyzed request into a corpus entry.
type ValidationInput struct {
	FinalSolution domain.Solution
	ProblemType   string
	Keywords      []string
}

// AnalysisResult is the full outcome of one analysis.
type AnalysisResult struct {
	Request    *domain.QuoteRequest
	Similar    []domain.MatchResult
	Solution   domain.Solution
	Confidence domain.Confidence
}

// CreateAndAnalyze registers a request and runs the full analysis pipeline.
// The request is saved as pending before any fallible step so a generation
// failure still leaves a record behind.
func (s *Service) CreateAndAnalyze(ctx context.Context, in CreateInput) (*AnalysisResult, error) {
	req, err := domain.NewQuoteRequest(s.newID(), in.Trade, in.Description, in.MediaURLs, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, req); err != nil {
		return nil, fmt.Errorf("save request: %w", err)
	}
	return s.analyze(ctx, req, in.MediaFiles)
}

// Reanalyze reruns the analysis pipeline on an existing request, replacing
// its proposed solution. Already-validated requests are immutable.
func (s *Service) Reanalyze(ctx context.Context, id string) (*AnalysisResult, error) {
	req, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == domain.StatusValidated {
		return nil, domain.ErrAlreadyValidated
	}
	return s.analyze(ctx, req, nil)
}

func (s *Service) analyze(ctx context.Context, req *domain.QuoteRequest, mediaFiles []domain.MediaFile) (*AnalysisResult, error) {
	results := s.matcher.FindSimilar(ctx, req.Trade, req.Description, nil)
	metrics.RetrievalResultsCount.WithLabelValues(req.Trade.String()).Observe(float64(len(results)))

	similar := make([]domain.Intervention, 0, len(results))
	similarIDs := make([]string, 0, len(results))
	for i := range results {
		iv := results[i].Intervention()
		similar = append(similar, iv)
		similarIDs = append(similarIDs, iv.ID())
	}

	tradeCatalog, err := s.pricing.TradeCatalog(ctx, req.Trade)
	if err != nil {
		return nil, fmt.Errorf("load trade catalog: %w", err)
	}

	gen, err := s.generator.Analyze(ctx, domain.AnalysisInput{
		Trade:       req.Trade,
		Description: req.Description,
		MediaURLs:   req.MediaURLs,
		MediaFiles:  mediaFiles,
		Similar:     similar,
		Catalog:     tradeCatalog,
	})
	if err != nil {
		return nil, err
	}
	if gen.Reasoning != "" {
		s.logger.Debug("generation reasoning",
			zap.String("request_id", req.ID),
			zap.String("reasoning", gen.Reasoning),
		)
	}

	if err := s.pricing.Enrich(ctx, &gen.Solution); err != nil {
		return nil, fmt.Errorf("enrich estimate: %w", err)
	}
	s.countMissingPrices(req.Trade, gen.Solution)

	confidence := s.matcher.Confidence(results)
	metrics.AnalysisConfidenceTotal.WithLabelValues(req.Trade.String(), string(confidence)).Inc()

	req.MarkAnalyzed(gen.Solution, similarIDs, s.now())
	if err := s.requests.Save(ctx, req); err != nil {
		return nil, fmt.Errorf("save analyzed request: %w", err)
	}

	s.logger.Info("request analyzed",
		zap.String("request_id", req.ID),
		zap.String("trade", req.Trade.String()),
		zap.Int("similar", len(results)),
		zap.String("confidence", string(confidence)),
	)

	return &AnalysisResult{
		Request:    req,
		Similar:    results,
		Solution:   gen.Solution,
		Confidence: confidence,
	}, nil
}

// Validate turns an analyzed request into a new validated corpus entry and
// marks the request validated. The corpus entry gets its own identity; the
// original request is never rewritten into the corpus later.
func (s *Service) Validate(ctx context.Context, id string, in ValidationInput) (domain.Intervention, error) {
	if strings.TrimSpace(in.ProblemType) == "" {
		return domain.Intervention{}, fmt.Errorf("%w: problemType is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.FinalSolution.Diagnosis) == "" {
		return domain.Intervention{}, fmt.Errorf("%w: finalSolution.diagnosis is required", domain.ErrValidation)
	}

	req, err := s.requests.Get(ctx, id)
	if err != nil {
		return domain.Intervention{}, err
	}
	if req.Status == domain.StatusValidated {
		return domain.Intervention{}, domain.ErrAlreadyValidated
	}

	keywords := in.Keywords
	if len(keywords) == 0 {
		keywords, err = s.generator.ExtractKeywords(ctx, req.Trade, req.Description, in.ProblemType)
		if err != nil {
			// Keyword extraction degrades, it never blocks validation.
			s.logger.Warn("keyword extraction failed", zap.String("request_id", id), zap.Error(err))
			keywords = []string{req.Trade.String(), in.ProblemType}
		}
	}

	iv, err := domain.NewIntervention(
		s.newID(), req.Trade, req.Description,
		keywords, in.ProblemType, req.MediaURLs,
		in.FinalSolution, req.CreatedAt, s.now(),
	)
	if err != nil {
		return domain.Intervention{}, err
	}

	if err := s.corpus.Append(ctx, &iv); err != nil {
		return domain.Intervention{}, fmt.Errorf("append intervention: %w", err)
	}

	if err := req.MarkValidated(s.now()); err != nil {
		return domain.Intervention{}, err
	}
	if err := s.requests.Save(ctx, req); err != nil {
		return domain.Intervention{}, fmt.Errorf("save validated request: %w", err)
	}

	s.logger.Info("request validated into corpus",
		zap.String("request_id", id),
		zap.String("intervention_id", iv.ID()),
		zap.String("problem_type", in.ProblemType),
	)
	return iv, nil
}

// Get returns a request by ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.QuoteRequest, error) {
	return s.requests.Get(ctx, id)
}

// List returns requests matching the filter, newest first.
func (s *Service) List(ctx context.Context, f domain.RequestFilter) ([]*domain.QuoteRequest, error) {
	return s.requests.List(ctx, f)
}

// ClassifyProblemType buckets a description into a problem label.
func (s *Service) ClassifyProblemType(ctx context.Context, trade domain.Trade, description string) (string, error) {
	return s.generator.ClassifyProblemType(ctx, trade, description)
}

// Stats summarizes the request pipeline.
type Stats struct {
	TotalRequests  int `json:"totalRequests"`
	InProgress     int `json:"inProgress"`
	Validated      int `json:"validated"`
	ValidationRate int `json:"validationRate"` // percent, rounded
}

// CollectStats counts requests by lifecycle stage.
func (s *Service) CollectStats(ctx context.Context) (Stats, error) {
	all, err := s.requests.List(ctx, domain.RequestFilter{})
	if err != nil {
		return Stats{}, fmt.Errorf("list requests: %w", err)
	}

	var stats Stats
	for _, req := range all {
		stats.TotalRequests++
		switch req.Status {
		case domain.StatusPending, domain.StatusAnalyzed:
			stats.InProgress++
		case domain.StatusValidated:
			stats.Validated++
		}
	}
	if stats.TotalRequests > 0 {
		stats.ValidationRate = int(float64(stats.Validated)/float64(stats.TotalRequests)*100 + 0.5)
	}
	return stats, nil
}

func (s *Service) countMissingPrices(trade domain.Trade, sol domain.Solution) {
	missing := 0
	for _, l := range sol.EstimateLines {
		if l.PriceMissing {
			missing++
		}
	}
	for _, v := range sol.Variants {
		for _, l := range v.EstimateLines {
			if l.PriceMissing {
				missing++
			}
		}
	}
	if missing > 0 {
		metrics.EstimateLinesMissingPrice.WithLabelValues(trade.String()).Add(float64(missing))
	}
}
