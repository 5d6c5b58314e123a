package domain

// Solution is the structured diagnosis and estimate produced by the
// generation capability. The matching core treats it as an opaque payload:
// it is stored, enriched with catalog prices, and returned, never scored.
type Solution struct {
	Diagnosis       string         `json:"diagnosis"`
	Description     string         `json:"description"`
	Materials       []Material     `json:"materials,omitempty"`
	EstimateLines   []EstimateLine `json:"estimateLines"`
	Variants        []Variant      `json:"variants,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
}

// EstimateLine is one priced (or price-missing) row of an estimate.
// UnitPrice and LineTotal are only set after catalog enrichment;
// PriceMissing marks lines whose code is unknown to the catalog.
type EstimateLine struct {
	Code         string   `json:"code,omitempty"`
	Designation  string   `json:"designation"`
	Unit         string   `json:"unit"`
	Quantity     float64  `json:"quantity"`
	Notes        string   `json:"notes,omitempty"`
	UnitPrice    *float64 `json:"unitPrice,omitempty"`
	LineTotal    *float64 `json:"lineTotal,omitempty"`
	PriceMissing bool     `json:"priceMissing,omitempty"`
}

// Variant is an alternative way to resolve the same problem.
type Variant struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	EstimateLines []EstimateLine `json:"estimateLines"`
	Advantages    []string       `json:"advantages,omitempty"`
	Drawbacks     []string       `json:"drawbacks,omitempty"`
}

// Material is a part or tool the intervention needs.
type Material struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Brand          string  `json:"brand,omitempty"`
	Specifications string  `json:"specifications,omitempty"`
}

// MediaFile is a base64-encoded attachment submitted with a request.
type MediaFile struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
}

// EstimateTotal sums the line totals of enriched lines. Lines without a
// total (price missing, or percentage surcharges) contribute nothing.
func EstimateTotal(lines []EstimateLine) float64 {
	var total float64
	for _, l := range lines {
		if l.LineTotal != nil {
			total += *l.LineTotal
		}
	}
	return total
}
