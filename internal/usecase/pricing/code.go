package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/truescope/devisd/internal/domain"
)

// Catalog codes follow PREFIX-CAT-NNN, e.g. PLB-LAB-004.
var tradePrefixes = map[string]domain.Trade{
	"LCK": domain.TradeLocksmith,
	"PLB": domain.TradePlumbing,
	"ELC": domain.TradeElectrical,
}

var categoryPrefixes = map[string]domain.PriceCategory{
	"LAB": domain.CategoryLabor,
	"MAT": domain.CategoryMaterials,
}

// ParseCode decodes the trade and category a catalog code belongs to.
func ParseCode(code string) (domain.Trade, domain.PriceCategory, error) {
	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		return "", "", fmt.Errorf("%w: malformed catalog code %q", domain.ErrValidation, code)
	}
	trade, ok := tradePrefixes[parts[0]]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown trade prefix in %q", domain.ErrValidation, code)
	}
	category, ok := categoryPrefixes[parts[1]]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown category prefix in %q", domain.ErrValidation, code)
	}
	if _, err := strconv.Atoi(parts[2]); err != nil || len(parts[2]) != 3 {
		return "", "", fmt.Errorf("%w: bad sequence number in %q", domain.ErrValidation, code)
	}
	return trade, category, nil
}

// FormatCode builds a catalog code from its parts.
func FormatCode(trade domain.Trade, category domain.PriceCategory, seq int) string {
	var tp, cp string
	for p, t := range tradePrefixes {
		if t == trade {
			tp = p
		}
	}
	for p, c := range categoryPrefixes {
		if c == category {
			cp = p
		}
	}
	return fmt.Sprintf("%s-%s-%03d", tp, cp, seq)
}

// NextCode returns the first unused code for a trade and category, one past
// the highest sequence number already in the catalog.
func NextCode(catalog domain.Catalog, trade domain.Trade, category domain.PriceCategory) string {
	var prices []domain.Price
	switch category {
	case domain.CategoryLabor:
		prices = catalog[trade].Labor
	case domain.CategoryMaterials:
		prices = catalog[trade].Materials
	}

	max := 0
	for _, p := range prices {
		parts := strings.Split(p.Code, "-")
		if len(parts) != 3 {
			continue
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return FormatCode(trade, category, max+1)
}
