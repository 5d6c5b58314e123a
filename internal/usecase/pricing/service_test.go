package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/truescope/devisd/internal/domain"
)

type mockRepo struct {
	catalog     domain.Catalog
	getAllErr   error
	getAllCalls int
	puts        []domain.Price
	deleted     []string
	seedCount   int
}

func (m *mockRepo) GetAll(_ context.Context) (domain.Catalog, error) {
	m.getAllCalls++
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return m.catalog, nil
}

func (m *mockRepo) Get(_ context.Context, code string) (domain.Price, error) {
	for _, tc := range m.catalog {
		for _, p := range append(tc.Labor, tc.Materials...) {
			if p.Code == code {
				return p, nil
			}
		}
	}
	return domain.Price{}, domain.ErrPriceNotFound
}

func (m *mockRepo) Put(_ context.Context, p domain.Price) error {
	m.puts = append(m.puts, p)
	return nil
}

func (m *mockRepo) Delete(_ context.Context, code string) error {
	m.deleted = append(m.deleted, code)
	return nil
}

func (m *mockRepo) Seed(_ context.Context) (int, error) {
	return m.seedCount, nil
}

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testCatalog() domain.Catalog {
	return domain.Catalog{
		domain.TradePlumbing: {
			Labor: []domain.Price{
				{Code: "PLB-LAB-004", Designation: "Réparation fuite simple", Amount: 50, Unit: "forfait", Category: domain.CategoryLabor, Trade: domain.TradePlumbing},
				{Code: "PLB-LAB-023", Designation: "Majoration nuit (21h-6h)", Amount: 50, Unit: "%", Category: domain.CategoryLabor, Trade: domain.TradePlumbing},
			},
			Materials: []domain.Price{
				{Code: "PLB-MAT-019", Designation: "Joint fibre (lot)", Amount: 2, Unit: "lot", Category: domain.CategoryMaterials, Trade: domain.TradePlumbing},
			},
		},
	}
}

func newTestService(repo *mockRepo, clock *fakeClock) *Service {
	return New(repo, 5*time.Minute, clock.now, nil, nil, nil)
}

func TestCatalogCachedWithinTTL(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{catalog: testCatalog()}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	if _, err := svc.Catalog(ctx); err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	clock.advance(4 * time.Minute)
	if _, err := svc.Catalog(ctx); err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if repo.getAllCalls != 1 {
		t.Errorf("getAllCalls = %d, want 1 within TTL", repo.getAllCalls)
	}

	clock.advance(2 * time.Minute)
	if _, err := svc.Catalog(ctx); err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if repo.getAllCalls != 2 {
		t.Errorf("getAllCalls = %d, want 2 after TTL", repo.getAllCalls)
	}
}

func TestUpsertInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{catalog: testCatalog()}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	if _, err := svc.Catalog(ctx); err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	p := domain.Price{Code: "PLB-LAB-005", Designation: "Réparation fuite complexe", Amount: 90, Unit: "forfait", Category: domain.CategoryLabor, Trade: domain.TradePlumbing}
	if err := svc.Upsert(ctx, p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(repo.puts) != 1 {
		t.Fatalf("puts = %d, want 1", len(repo.puts))
	}
	if _, err := svc.Catalog(ctx); err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if repo.getAllCalls != 2 {
		t.Errorf("getAllCalls = %d, want reload after write", repo.getAllCalls)
	}
}

func TestUpsertRejectsMismatchedCode(t *testing.T) {
	svc := newTestService(&mockRepo{}, &fakeClock{t: time.Now()})

	p := domain.Price{Code: "PLB-LAB-005", Designation: "x", Amount: 1, Unit: "forfait", Category: domain.CategoryLabor, Trade: domain.TradeLocksmith}
	if err := svc.Upsert(context.Background(), p); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestCreateAssignsNextCode(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{catalog: testCatalog()}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	p, err := svc.Create(ctx, domain.TradePlumbing, domain.CategoryLabor, "Remplacement vanne", 40, "forfait")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Code != "PLB-LAB-024" {
		t.Errorf("Code = %s, want PLB-LAB-024", p.Code)
	}
	if len(repo.puts) != 1 || repo.puts[0].Code != "PLB-LAB-024" {
		t.Errorf("puts = %+v", repo.puts)
	}
}

func TestFallbackWhenStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{getAllErr: errors.New("store down")}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := New(repo, 5*time.Minute, clock.now, testCatalog(), nil, nil)

	catalog, err := svc.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if catalog.Size() != 3 {
		t.Errorf("fallback size = %d, want 3", catalog.Size())
	}
}

func TestErrorWithoutFallback(t *testing.T) {
	repo := &mockRepo{getAllErr: errors.New("store down")}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	if _, err := svc.Catalog(context.Background()); err == nil {
		t.Fatal("expected error with no fallback")
	}
}

func TestServesStaleCacheOnRefreshFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{catalog: testCatalog()}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	if _, err := svc.Catalog(ctx); err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	repo.getAllErr = errors.New("store down")
	clock.advance(10 * time.Minute)

	catalog, err := svc.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog after failure: %v", err)
	}
	if catalog.Size() != 3 {
		t.Errorf("stale catalog size = %d, want 3", catalog.Size())
	}
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{catalog: testCatalog()}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	p, err := svc.Lookup(ctx, "PLB-MAT-019")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if p.Amount != 2 {
		t.Errorf("Amount = %v, want 2", p.Amount)
	}
	if _, err := svc.Lookup(ctx, "PLB-MAT-999"); !errors.Is(err, domain.ErrPriceNotFound) {
		t.Fatalf("err = %v, want ErrPriceNotFound", err)
	}
}

func TestEnrichFillsPricesFromCatalog(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{catalog: testCatalog()}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	sol := domain.Solution{
		EstimateLines: []domain.EstimateLine{
			{Code: "PLB-LAB-004", Designation: "reparation", Unit: "u", Quantity: 1},
			{Code: "PLB-MAT-019", Designation: "joints", Unit: "u", Quantity: 3},
			{Code: "PLB-LAB-023", Designation: "majoration", Unit: "u", Quantity: 1},
			{Code: "PLB-LAB-999", Designation: "inconnu", Unit: "u", Quantity: 1},
			{Designation: "sans code", Unit: "u", Quantity: 1},
		},
	}
	if err := svc.Enrich(ctx, &sol); err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	lines := sol.EstimateLines

	// Catalog hit: designation, unit and amounts come from the catalog.
	if lines[0].Designation != "Réparation fuite simple" || lines[0].Unit != "forfait" {
		t.Errorf("line 0 = %+v", lines[0])
	}
	if lines[0].UnitPrice == nil || *lines[0].UnitPrice != 50 {
		t.Errorf("line 0 UnitPrice = %v, want 50", lines[0].UnitPrice)
	}
	if lines[0].LineTotal == nil || *lines[0].LineTotal != 50 {
		t.Errorf("line 0 LineTotal = %v, want 50", lines[0].LineTotal)
	}
	if lines[0].PriceMissing {
		t.Error("line 0 should not be flagged missing")
	}

	// Quantity multiplies into the total.
	if lines[1].LineTotal == nil || *lines[1].LineTotal != 6 {
		t.Errorf("line 1 LineTotal = %v, want 6", lines[1].LineTotal)
	}

	// Percentage surcharge: unit price, never a total.
	if lines[2].UnitPrice == nil || *lines[2].UnitPrice != 50 {
		t.Errorf("line 2 UnitPrice = %v, want 50", lines[2].UnitPrice)
	}
	if lines[2].LineTotal != nil {
		t.Errorf("line 2 LineTotal = %v, want nil for %% unit", *lines[2].LineTotal)
	}

	// Unknown code: flagged, no invented price.
	if !lines[3].PriceMissing || lines[3].UnitPrice != nil || lines[3].LineTotal != nil {
		t.Errorf("line 3 = %+v, want missing with no amounts", lines[3])
	}

	// Missing code: same.
	if !lines[4].PriceMissing || lines[4].UnitPrice != nil {
		t.Errorf("line 4 = %+v, want missing with no amounts", lines[4])
	}

	if got := domain.EstimateTotal(lines); got != 56 {
		t.Errorf("EstimateTotal = %v, want 56", got)
	}
}

func TestEnrichCoversVariants(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{catalog: testCatalog()}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	sol := domain.Solution{
		Variants: []domain.Variant{
			{
				Name: "Remplacement complet",
				EstimateLines: []domain.EstimateLine{
					{Code: "PLB-LAB-004", Quantity: 2},
				},
			},
		},
	}
	if err := svc.Enrich(ctx, &sol); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	line := sol.Variants[0].EstimateLines[0]
	if line.LineTotal == nil || *line.LineTotal != 100 {
		t.Errorf("variant LineTotal = %v, want 100", line.LineTotal)
	}
}
