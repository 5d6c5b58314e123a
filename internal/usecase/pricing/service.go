// Package pricing serves the price catalog and enriches generated estimates
// with authoritative amounts. Prices never come from the generator: a line
// whose code is unknown to the catalog is flagged, not guessed.
package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/truescope/devisd/internal/domain"
)

// DefaultCacheTTL bounds how long a loaded catalog is served without
// re-reading the store.
const DefaultCacheTTL = 5 * time.Minute

// Service is the catalog use case. The catalog is read on nearly every
// analysis, so it is cached in-process with a TTL; every write through this
// service invalidates the cache.
type Service struct {
	repo       Repository
	ttl        time.Duration
	now        func() time.Time
	fallback   domain.Catalog
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger

	mu       sync.Mutex
	cached   domain.Catalog
	index    map[string]domain.Price
	cachedAt time.Time
}

// New creates a pricing service. fallback is served when the store is
// unreachable and no cached catalog exists; nil means fail hard instead.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(
	repo Repository,
	ttl time.Duration,
	now func() time.Time,
	fallback domain.Catalog,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		ttl:        ttl,
		now:        now,
		fallback:   fallback,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Catalog returns the full price list, served from cache within the TTL.
func (s *Service) Catalog(ctx context.Context) (domain.Catalog, error) {
	catalog, _, err := s.load(ctx)
	return catalog, err
}

// TradeCatalog returns one trade's price list.
func (s *Service) TradeCatalog(ctx context.Context, trade domain.Trade) (domain.TradeCatalog, error) {
	catalog, _, err := s.load(ctx)
	if err != nil {
		return domain.TradeCatalog{}, err
	}
	return catalog[trade], nil
}

// Lookup finds a price by catalog code through the cache.
func (s *Service) Lookup(ctx context.Context, code string) (domain.Price, error) {
	_, index, err := s.load(ctx)
	if err != nil {
		return domain.Price{}, err
	}
	p, ok := index[code]
	if !ok {
		return domain.Price{}, domain.ErrPriceNotFound
	}
	return p, nil
}

// Upsert validates a price against the code schema and writes it through,
// invalidating the cache.
func (s *Service) Upsert(ctx context.Context, p domain.Price) error {
	trade, category, err := ParseCode(p.Code)
	if err != nil {
		return err
	}
	if p.Trade != trade || p.Category != category {
		return fmt.Errorf("%w: code %s does not match trade %s / category %s",
			domain.ErrValidation, p.Code, p.Trade, p.Category)
	}
	if p.Designation == "" {
		return fmt.Errorf("%w: designation is required", domain.ErrValidation)
	}
	if p.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// Create assigns the next free code for the trade and category and stores
// the new price.
func (s *Service) Create(ctx context.Context, trade domain.Trade, category domain.PriceCategory, designation string, amount float64, unit string) (domain.Price, error) {
	catalog, _, err := s.load(ctx)
	if err != nil {
		return domain.Price{}, err
	}
	p := domain.Price{
		Code:        NextCode(catalog, trade, category),
		Designation: designation,
		Amount:      amount,
		Unit:        unit,
		Category:    category,
		Trade:       trade,
	}
	if err := s.Upsert(ctx, p); err != nil {
		return domain.Price{}, err
	}
	return p, nil
}

// Delete removes a price by code and invalidates the cache.
func (s *Service) Delete(ctx context.Context, code string) error {
	if _, _, err := ParseCode(code); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// Seed writes missing default prices and invalidates the cache.
func (s *Service) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Seed(ctx)
	if err != nil {
		return n, err
	}
	if n > 0 {
		s.Invalidate()
	}
	return n, nil
}

// Invalidate drops the cached catalog so the next read hits the store.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.index = nil
	s.cachedAt = time.Time{}
}

// Enrich fills unit prices and line totals into a generated solution,
// in place, from the catalog. Lines whose code is missing or unknown get
// PriceMissing set and no amounts. Percentage surcharges keep their unit
// price but never a line total.
func (s *Service) Enrich(ctx context.Context, sol *domain.Solution) error {
	_, index, err := s.load(ctx)
	if err != nil {
		return err
	}
	enrichLines(sol.EstimateLines, index, s.logger)
	for i := range sol.Variants {
		enrichLines(sol.Variants[i].EstimateLines, index, s.logger)
	}
	return nil
}

func enrichLines(lines []domain.EstimateLine, index map[string]domain.Price, logger *zap.Logger) {
	for i := range lines {
		line := &lines[i]
		line.UnitPrice = nil
		line.LineTotal = nil

		if line.Code == "" {
			line.PriceMissing = true
			continue
		}
		p, ok := index[line.Code]
		if !ok {
			logger.Warn("catalog code unknown", zap.String("code", line.Code))
			line.PriceMissing = true
			continue
		}

		line.Designation = p.Designation
		line.Unit = p.Unit
		line.PriceMissing = false
		amount := p.Amount
		line.UnitPrice = &amount
		if p.Unit != "%" {
			total := p.Amount * line.Quantity
			line.LineTotal = &total
		}
	}
}

// load returns the cached catalog and code index, refreshing from the store
// when the TTL has passed.
func (s *Service) load(ctx context.Context) (domain.Catalog, map[string]domain.Price, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Sub(s.cachedAt) < s.ttl {
		s.incCache("hit")
		return s.cached, s.index, nil
	}
	s.incCache("miss")

	catalog, err := s.repo.GetAll(ctx)
	if err != nil {
		if s.cached != nil {
			s.logger.Warn("catalog refresh failed, serving stale cache", zap.Error(err))
			return s.cached, s.index, nil
		}
		if s.fallback != nil {
			s.logger.Warn("catalog unavailable, serving built-in defaults", zap.Error(err))
			s.setCacheLocked(s.fallback)
			return s.cached, s.index, nil
		}
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	s.setCacheLocked(catalog)
	return s.cached, s.index, nil
}

func (s *Service) setCacheLocked(catalog domain.Catalog) {
	index := make(map[string]domain.Price, catalog.Size())
	for _, tc := range catalog {
		for _, p := range tc.Labor {
			index[p.Code] = p
		}
		for _, p := range tc.Materials {
			index[p.Code] = p
		}
	}
	s.cached = catalog
	s.index = index
	s.cachedAt = s.now()
}

func (s *Service) incCache(result string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues(result).Inc()
	}
}
