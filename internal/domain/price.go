package domain

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "devisd:"

// PriceCategory splits catalog prices into labor and materials.
type PriceCategory string

const (
	CategoryLabor     PriceCategory = "labor"
	CategoryMaterials PriceCategory = "materials"
)

// ParsePriceCategory validates a raw category value.
func ParsePriceCategory(s string) (PriceCategory, error) {
	switch PriceCategory(s) {
	case CategoryLabor, CategoryMaterials:
		return PriceCategory(s), nil
	default:
		return "", ErrValidation
	}
}

// Price is one authoritative catalog entry. Estimate lines reference it by
// code; the code also encodes trade and category (see pricing.ParseCode).
type Price struct {
	Code        string        `json:"code"`
	Designation string        `json:"designation"`
	Amount      float64       `json:"amount"`
	Unit        string        `json:"unit"`
	Category    PriceCategory `json:"category"`
	Trade       Trade         `json:"trade"`
}

// TradeCatalog groups one trade's prices by category.
type TradeCatalog struct {
	Labor     []Price `json:"labor"`
	Materials []Price `json:"materials"`
}

// Catalog holds the full price list for every trade.
type Catalog map[Trade]TradeCatalog

// Size returns the total number of prices across all trades.
func (c Catalog) Size() int {
	n := 0
	for _, tc := range c {
		n += len(tc.Labor) + len(tc.Materials)
	}
	return n
}
