package openai

import (
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/truescope/devisd/internal/domain"
)

func fixedTime() time.Time {
	return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

func TestParseAnalysis(t *testing.T) {
	content := "Voici l'analyse :\n```json\n" + `{
  "diagnosis": "Fuite au niveau du joint de robinet",
  "description": "Remplacement du joint et resserrage du raccord",
  "materials": [{"name": "Joint fibre", "quantity": 2}],
  "estimateLines": [
    {"code": "PLB-LAB-001", "designation": "Déplacement", "unit": "forfait", "quantity": 1},
    {"code": "PLB-LAB-004", "designation": "Réparation fuite simple", "unit": "forfait", "quantity": 1}
  ],
  "variants": [
    {"name": "Remplacement complet", "description": "Changer le robinet", "estimateLines": [{"code": "PLB-LAB-009", "designation": "Remplacement robinet", "unit": "forfait", "quantity": 1}]}
  ],
  "recommendations": ["Vérifier le joint tous les ans"],
  "reasoning": "Le symptôme décrit correspond à un joint usé"
}` + "\n```"

	parsed, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if parsed.Diagnosis != "Fuite au niveau du joint de robinet" {
		t.Errorf("Diagnosis = %q", parsed.Diagnosis)
	}
	if len(parsed.EstimateLines) != 2 || parsed.EstimateLines[1].Code != "PLB-LAB-004" {
		t.Errorf("EstimateLines = %+v", parsed.EstimateLines)
	}
	if len(parsed.Variants) != 1 || len(parsed.Variants[0].EstimateLines) != 1 {
		t.Errorf("Variants = %+v", parsed.Variants)
	}
	if parsed.Reasoning == "" {
		t.Error("Reasoning should be kept")
	}
}

func TestParseAnalysisRejectsNonJSON(t *testing.T) {
	for _, content := range []string{"", "pas de json ici", "{\"description\": \"sans diagnostic\"}"} {
		if _, err := parseAnalysis(content); !errors.Is(err, domain.ErrGenerationFailed) {
			t.Errorf("parseAnalysis(%q) err = %v, want ErrGenerationFailed", content, err)
		}
	}
}

func TestExtractJSONArray(t *testing.T) {
	got := extractJSONArray("Les mots-clés : [\"fuite\", \"robinet\"] voilà.")
	if got != `["fuite", "robinet"]` {
		t.Errorf("extractJSONArray = %q", got)
	}
	if extractJSONArray("rien") != "" {
		t.Error("expected empty string without an array")
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{" Fuite_Robinet \n", "fuite_robinet"},
		{"`porte_claquee`", "porte_claquee"},
		{"panne de courant!", "pannedecourant"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFallbackProblemType(t *testing.T) {
	tests := []struct {
		trade domain.Trade
		want  string
	}{
		{domain.TradeLocksmith, "autre_serrurerie"},
		{domain.TradePlumbing, "autre_plomberie"},
		{domain.TradeElectrical, "autre_electricite"},
	}
	for _, tt := range tests {
		if got := fallbackProblemType(tt.trade); got != tt.want {
			t.Errorf("fallbackProblemType(%s) = %q, want %q", tt.trade, got, tt.want)
		}
	}
}

func TestBuildAnalysisPromptIncludesCatalogAndSimilar(t *testing.T) {
	iv, err := domain.NewIntervention(
		"iv-1", domain.TradePlumbing, "fuite sous evier",
		[]string{"fuite", "evier"}, "fuite_robinet", nil,
		domain.Solution{
			Description: "Remplacement du siphon",
			EstimateLines: []domain.EstimateLine{
				{Code: "PLB-MAT-005", Designation: "Siphon PVC", Unit: "pièce", Quantity: 1},
			},
		},
		fixedTime(), fixedTime(),
	)
	if err != nil {
		t.Fatalf("NewIntervention: %v", err)
	}

	prompt := buildAnalysisPrompt(domain.AnalysisInput{
		Trade:       domain.TradePlumbing,
		Description: "fuite sous mon evier de cuisine",
		Similar:     []domain.Intervention{iv},
		Catalog: domain.TradeCatalog{
			Labor: []domain.Price{
				{Code: "PLB-LAB-001", Designation: "Déplacement", Amount: 29, Unit: "forfait"},
			},
			Materials: []domain.Price{
				{Code: "PLB-MAT-005", Designation: "Siphon PVC", Amount: 8, Unit: "pièce"},
			},
		},
	})

	for _, want := range []string{
		"expert en plomberie",
		"PLB-LAB-001: Déplacement (29€/forfait)",
		"PLB-MAT-005: Siphon PVC (8€/pièce)",
		"fuite sous mon evier de cuisine",
		"Intervention 1 (fuite_robinet)",
		"Remplacement du siphon",
		`"estimateLines"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildAnalysisPromptMentionsPhotos(t *testing.T) {
	prompt := buildAnalysisPrompt(domain.AnalysisInput{
		Trade:       domain.TradeLocksmith,
		Description: "porte claquee",
		MediaFiles: []domain.MediaFile{
			{Data: "aGVsbG8=", MimeType: "image/jpeg", Name: "porte.jpg"},
			{Data: "aGVsbG8=", MimeType: "video/mp4", Name: "porte.mp4"},
		},
	})
	if !strings.Contains(prompt, "1 photo(s)") {
		t.Error("prompt should count only image attachments")
	}
}

func TestParseAPIError(t *testing.T) {
	apiErr := &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}
	err := parseAPIError(apiErr)
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("err = %v, want wrapped ErrGenerationFailed", err)
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v, want status and message in text", err)
	}

	plain := errors.New("dial tcp: timeout")
	if !errors.Is(parseAPIError(plain), domain.ErrGenerationFailed) {
		t.Error("plain errors must also map to ErrGenerationFailed")
	}
}
