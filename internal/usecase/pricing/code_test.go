package pricing

import (
	"errors"
	"testing"

	"github.com/truescope/devisd/internal/domain"
)

func TestParseCode(t *testing.T) {
	tests := []struct {
		code     string
		trade    domain.Trade
		category domain.PriceCategory
	}{
		{"LCK-LAB-001", domain.TradeLocksmith, domain.CategoryLabor},
		{"PLB-MAT-020", domain.TradePlumbing, domain.CategoryMaterials},
		{"ELC-LAB-017", domain.TradeElectrical, domain.CategoryLabor},
	}
	for _, tt := range tests {
		trade, category, err := ParseCode(tt.code)
		if err != nil {
			t.Errorf("ParseCode(%s): %v", tt.code, err)
			continue
		}
		if trade != tt.trade || category != tt.category {
			t.Errorf("ParseCode(%s) = %s/%s, want %s/%s", tt.code, trade, category, tt.trade, tt.category)
		}
	}
}

func TestParseCodeRejectsMalformed(t *testing.T) {
	for _, code := range []string{
		"", "PLB", "PLB-LAB", "XXX-LAB-001", "PLB-XXX-001",
		"PLB-LAB-1", "PLB-LAB-abc", "PLB-LAB-0012",
	} {
		if _, _, err := ParseCode(code); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("ParseCode(%q) err = %v, want ErrValidation", code, err)
		}
	}
}

func TestFormatCode(t *testing.T) {
	got := FormatCode(domain.TradePlumbing, domain.CategoryMaterials, 7)
	if got != "PLB-MAT-007" {
		t.Errorf("FormatCode = %s, want PLB-MAT-007", got)
	}
}

func TestNextCode(t *testing.T) {
	catalog := domain.Catalog{
		domain.TradePlumbing: {
			Labor: []domain.Price{
				{Code: "PLB-LAB-001"},
				{Code: "PLB-LAB-009"},
				{Code: "PLB-LAB-004"},
			},
		},
	}

	if got := NextCode(catalog, domain.TradePlumbing, domain.CategoryLabor); got != "PLB-LAB-010" {
		t.Errorf("NextCode = %s, want PLB-LAB-010", got)
	}
	if got := NextCode(catalog, domain.TradePlumbing, domain.CategoryMaterials); got != "PLB-MAT-001" {
		t.Errorf("NextCode on empty group = %s, want PLB-MAT-001", got)
	}
	if got := NextCode(catalog, domain.TradeLocksmith, domain.CategoryLabor); got != "LCK-LAB-001" {
		t.Errorf("NextCode on empty trade = %s, want LCK-LAB-001", got)
	}
}
