package openai

import (
	"fmt"
	"strings"

	"github.com/truescope/devisd/internal/domain"
)

// tradeContexts are the system prompts setting up the expert persona per trade.
var tradeContexts = map[domain.Trade]string{
	domain.TradeLocksmith: `Tu es un expert en serrurerie avec 20 ans d'expérience. Tu connais parfaitement :
- Les différents types de serrures (cylindre européen, à gorges, multipoints, etc.)
- Les techniques d'ouverture de porte (crochetage, by-pass, perçage, etc.)
- Les blindages de porte et leurs certifications (A2P BP1, BP2, BP3)
- Les problèmes courants : porte claquée, clé cassée dans la serrure, serrure grippée, effraction`,

	domain.TradePlumbing: `Tu es un expert en plomberie avec 20 ans d'expérience. Tu connais parfaitement :
- Les différents types de tuyauterie (cuivre, PER, multicouche, PVC)
- Les problèmes de fuite et leurs réparations
- Les installations sanitaires (WC, lavabo, douche, baignoire)
- Le chauffe-eau et la production d'eau chaude
- Les problèmes courants : fuite, bouchon, chasse d'eau défectueuse, ballon qui fuit`,

	domain.TradeElectrical: `Tu es un expert en électricité avec 20 ans d'expérience. Tu connais parfaitement :
- Les normes électriques (NF C 15-100)
- Les tableaux électriques et disjoncteurs
- Les problèmes de court-circuit et de surcharge
- L'installation de prises, interrupteurs et éclairage
- Les problèmes courants : panne de courant, disjoncteur qui saute, prise défectueuse, tableau brûlé`,
}

// problemTypes are the classification labels per trade. Unrecognized
// answers fall back to the trade's "other" bucket.
var problemTypes = map[domain.Trade][]string{
	domain.TradeLocksmith: {
		"porte_claquee", "cle_cassee", "serrure_grippee", "effraction",
		"changement_serrure", "blindage_porte", "ouverture_coffre", "autre_serrurerie",
	},
	domain.TradePlumbing: {
		"fuite_tuyau", "fuite_robinet", "bouchon_canalisation", "chasse_eau",
		"chauffe_eau", "installation_sanitaire", "degorgement", "autre_plomberie",
	},
	domain.TradeElectrical: {
		"panne_courant", "disjoncteur_saute", "tableau_electrique", "prise_defectueuse",
		"court_circuit", "mise_aux_normes", "installation_eclairage", "autre_electricite",
	},
}

// fallbackProblemType is the per-trade "other" bucket.
func fallbackProblemType(trade domain.Trade) string {
	types := problemTypes[trade]
	if len(types) == 0 {
		return "autre"
	}
	return types[len(types)-1]
}

func formatPricesForPrompt(prices []domain.Price) string {
	lines := make([]string, 0, len(prices))
	for _, p := range prices {
		lines = append(lines, fmt.Sprintf("  - %s: %s (%g€/%s)", p.Code, p.Designation, p.Amount, p.Unit))
	}
	return strings.Join(lines, "\n")
}

// buildAnalysisPrompt assembles the user prompt for a quote analysis:
// trade persona, the trade's price grid, the retrieved reference
// interventions, media hints, and the strict JSON response schema.
func buildAnalysisPrompt(in domain.AnalysisInput) string {
	var b strings.Builder

	b.WriteString(tradeContexts[in.Trade])
	b.WriteString(`

# Mission
Tu dois analyser une demande de devis et proposer une solution technique structurée EN UTILISANT LES CODES TARIFS FOURNIS.

## GRILLE TARIFAIRE À UTILISER
Tu DOIS utiliser les codes tarifs suivants pour les lignes de devis. Choisis les codes les plus appropriés.

### Main d'œuvre disponible:
`)
	b.WriteString(formatPricesForPrompt(in.Catalog.Labor))
	b.WriteString("\n\n### Matériaux disponibles:\n")
	b.WriteString(formatPricesForPrompt(in.Catalog.Materials))

	b.WriteString(`

## Règles IMPORTANTES
1. Tu DOIS utiliser les CODES TARIFS (ex: LCK-LAB-002) dans tes lignes de devis.
2. Tu dois être précis et professionnel dans ton diagnostic.
3. Si plusieurs solutions sont possibles, propose des variantes.
4. Base-toi sur les interventions similaires si disponibles.
5. Liste TOUT le matériel nécessaire pour réaliser l'intervention.
6. Si tu détectes des MARQUES (ex: Fichet, Vachette, Grohe, Legrand), mentionne-les.
7. TOUJOURS inclure le déplacement dans les lignes de devis.

## Demande du client
`)
	fmt.Fprintf(&b, "**Métier**: %s\n**Description du problème**: %s\n", in.Trade, in.Description)

	writeMediaContext(&b, in)
	writeSimilarContext(&b, in.Similar)

	b.WriteString(`
## Format de réponse attendu (JSON strict)
Réponds UNIQUEMENT avec un objet JSON valide, sans commentaires ni texte avant ou après :
{
  "diagnosis": "Description détaillée du problème identifié",
  "description": "Description de la solution principale proposée",
  "materials": [
    {
      "name": "Nom du matériel/pièce/outil",
      "quantity": 1,
      "brand": "Marque si connue (optionnel)",
      "specifications": "Caractéristiques techniques (optionnel)"
    }
  ],
  "estimateLines": [
    {
      "code": "CODE_TARIF (ex: LCK-LAB-001)",
      "designation": "Nom de la prestation",
      "unit": "unité (forfait, ml, pièce, etc.)",
      "quantity": 1,
      "notes": "notes optionnelles"
    }
  ],
  "variants": [
    {
      "name": "Nom de la variante",
      "description": "Description de cette alternative",
      "estimateLines": [{ "code": "...", "designation": "...", "unit": "...", "quantity": 1 }],
      "advantages": ["avantage 1"],
      "drawbacks": ["inconvénient 1"]
    }
  ],
  "recommendations": ["conseil 1", "conseil 2"],
  "reasoning": "Explication de ton analyse"
}
`)
	return b.String()
}

func writeMediaContext(b *strings.Builder, in domain.AnalysisInput) {
	imageCount := 0
	for _, f := range in.MediaFiles {
		if strings.HasPrefix(f.MimeType, "image/") {
			imageCount++
		}
	}
	switch {
	case imageCount > 0:
		fmt.Fprintf(b, `
## Photos fournies
Le client a fourni %d photo(s) du problème qui sont jointes à ce message. ANALYSE CES IMAGES ATTENTIVEMENT pour identifier:
- L'état des éléments concernés (serrure, tuyau, tableau électrique, etc.)
- Les dégâts visibles
- Le type d'équipement/matériel
- Tout détail pertinent pour le diagnostic

Base ton diagnostic sur ces photos en plus de la description textuelle.
`, imageCount)
	case len(in.MediaURLs) > 0:
		fmt.Fprintf(b, "\n## Médias mentionnés\nLe client a mentionné %d photo(s)/vidéo(s) du problème.\n", len(in.MediaURLs))
	}
}

func writeSimilarContext(b *strings.Builder, similar []domain.Intervention) {
	if len(similar) == 0 {
		return
	}
	b.WriteString("\n## Interventions similaires déjà réalisées (pour référence)\n")
	for i := range similar {
		iv := &similar[i]
		sol := iv.Solution()
		fmt.Fprintf(b, "\n### Intervention %d (%s)\n- Description: %s\n- Solution appliquée: %s\n- Lignes de devis utilisées:\n",
			i+1, iv.ProblemType(), iv.Description(), sol.Description)
		for _, l := range sol.EstimateLines {
			fmt.Fprintf(b, "  - %s %s (%g %s)\n", l.Code, l.Designation, l.Quantity, l.Unit)
		}
	}
	b.WriteString("\nUtilise ces interventions comme référence pour proposer une solution cohérente.\n")
}

func buildKeywordsPrompt(trade domain.Trade, description, problemType string) string {
	return fmt.Sprintf(`Tu es un expert en %s. Extrais les mots-clés pertinents de cette intervention pour faciliter les recherches futures.

Description: %s
Type de problème: %s

Réponds UNIQUEMENT avec un tableau JSON de mots-clés (5 à 10 mots-clés maximum), sans explication.
Exemple: ["serrure", "cylindre européen", "porte blindée", "ouverture", "urgence"]`, trade, description, problemType)
}

func buildClassifyPrompt(trade domain.Trade, description string) string {
	return fmt.Sprintf(`Tu es un expert en %s. Classe cette demande dans une catégorie.

Description: %s

Catégories possibles: %s

Réponds UNIQUEMENT avec le nom de la catégorie (un seul mot, snake_case), sans explication.`,
		trade, description, strings.Join(problemTypes[trade], ", "))
}
