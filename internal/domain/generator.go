package domain

import "context"

// AnalysisInput carries everything the generator sees for one analysis:
// the request itself, the retrieved reference interventions, and the trade's
// price catalog it must pick codes from.
type AnalysisInput struct {
	Trade       Trade
	Description string
	MediaURLs   []string
	MediaFiles  []MediaFile
	Similar     []Intervention
	Catalog     TradeCatalog
}

// GenerationResult is a generated solution plus the model's reasoning.
// Reasoning is logged, never stored.
type GenerationResult struct {
	Solution  Solution
	Reasoning string
}

// Generator produces structured solutions from free-text problem
// descriptions. Implementations wrap an LLM provider.
type Generator interface {
	Analyze(ctx context.Context, in AnalysisInput) (GenerationResult, error)
	ExtractKeywords(ctx context.Context, trade Trade, description, problemType string) ([]string, error)
	ClassifyProblemType(ctx context.Context, trade Trade, description string) (string, error)
	HealthCheck(ctx context.Context) error
}
