package catalog

import "github.com/truescope/devisd/internal/domain"

type seedEntry struct {
	code        string
	designation string
	amount      float64
	unit        string
}

var locksmithLabor = []seedEntry{
	{"LCK-LAB-001", "Déplacement", 29, "forfait"},
	{"LCK-LAB-002", "Ouverture porte claquée simple", 60, "forfait"},
	{"LCK-LAB-003", "Ouverture porte claquée blindée", 90, "forfait"},
	{"LCK-LAB-004", "Ouverture porte verrouillée simple", 90, "forfait"},
	{"LCK-LAB-005", "Ouverture porte verrouillée blindée", 150, "forfait"},
	{"LCK-LAB-006", "Ouverture haute sécurité", 200, "forfait"},
	{"LCK-LAB-007", "Pose cylindre", 40, "forfait"},
	{"LCK-LAB-008", "Remplacement serrure complète", 60, "forfait"},
	{"LCK-LAB-009", "Remplacement serrure 3 points", 90, "forfait"},
	{"LCK-LAB-010", "Remplacement serrure 5 points", 120, "forfait"},
	{"LCK-LAB-011", "Pose blindage", 150, "forfait"},
	{"LCK-LAB-012", "Installation verrou", 35, "forfait"},
	{"LCK-LAB-013", "Réparation serrure", 45, "forfait"},
	{"LCK-LAB-014", "Dégrippage entretien", 25, "forfait"},
	{"LCK-LAB-015", "Majoration nuit (21h-6h)", 50, "%"},
	{"LCK-LAB-016", "Majoration dimanche/férié", 50, "%"},
}

var locksmithMaterials = []seedEntry{
	{"LCK-MAT-001", "Cylindre standard", 15, "pièce"},
	{"LCK-MAT-002", "Cylindre sécurisé", 45, "pièce"},
	{"LCK-MAT-003", "Cylindre haute sécurité", 90, "pièce"},
	{"LCK-MAT-004", "Serrure encastrée simple", 25, "pièce"},
	{"LCK-MAT-005", "Serrure 3 points encastrée", 120, "pièce"},
	{"LCK-MAT-006", "Serrure 3 points applique", 150, "pièce"},
	{"LCK-MAT-007", "Serrure 5 points", 200, "pièce"},
	{"LCK-MAT-008", "Serrure haute sécurité", 350, "pièce"},
	{"LCK-MAT-009", "Verrou simple", 15, "pièce"},
	{"LCK-MAT-010", "Verrou haute sécurité", 45, "pièce"},
	{"LCK-MAT-011", "Poignée de porte", 20, "pièce"},
	{"LCK-MAT-012", "Gâche électrique", 35, "pièce"},
	{"LCK-MAT-013", "Cornière anti-pince", 25, "pièce"},
	{"LCK-MAT-014", "Protège cylindre", 20, "pièce"},
	{"LCK-MAT-015", "Blindage porte", 800, "pièce"},
	{"LCK-MAT-016", "Porte blindée complète", 1200, "pièce"},
}

var plumbingLabor = []seedEntry{
	{"PLB-LAB-001", "Déplacement", 29, "forfait"},
	{"PLB-LAB-002", "Recherche fuite visuelle", 45, "forfait"},
	{"PLB-LAB-003", "Recherche fuite technique", 90, "forfait"},
	{"PLB-LAB-004", "Réparation fuite simple", 50, "forfait"},
	{"PLB-LAB-005", "Réparation fuite complexe", 90, "forfait"},
	{"PLB-LAB-006", "Débouchage manuel", 50, "forfait"},
	{"PLB-LAB-007", "Débouchage furet", 80, "forfait"},
	{"PLB-LAB-008", "Débouchage haute pression", 120, "forfait"},
	{"PLB-LAB-009", "Remplacement robinet", 35, "forfait"},
	{"PLB-LAB-010", "Remplacement mitigeur", 45, "forfait"},
	{"PLB-LAB-011", "Remplacement chasse d'eau", 50, "forfait"},
	{"PLB-LAB-012", "Remplacement WC complet", 90, "forfait"},
	{"PLB-LAB-013", "Remplacement lavabo", 70, "forfait"},
	{"PLB-LAB-014", "Remplacement évier", 80, "forfait"},
	{"PLB-LAB-015", "Remplacement baignoire", 150, "forfait"},
	{"PLB-LAB-016", "Remplacement douche", 120, "forfait"},
	{"PLB-LAB-017", "Pose cumulus", 150, "forfait"},
	{"PLB-LAB-018", "Remplacement groupe sécurité", 45, "forfait"},
	{"PLB-LAB-019", "Détartrage chauffe-eau", 80, "forfait"},
	{"PLB-LAB-020", "Remplacement flexible", 20, "forfait"},
	{"PLB-LAB-021", "Soudure cuivre", 25, "point"},
	{"PLB-LAB-022", "Remplacement vanne", 40, "forfait"},
	{"PLB-LAB-023", "Majoration nuit (21h-6h)", 50, "%"},
	{"PLB-LAB-024", "Majoration dimanche/férié", 50, "%"},
}

var plumbingMaterials = []seedEntry{
	{"PLB-MAT-001", "Robinet simple", 15, "pièce"},
	{"PLB-MAT-002", "Mitigeur standard", 35, "pièce"},
	{"PLB-MAT-003", "Mitigeur thermostatique", 80, "pièce"},
	{"PLB-MAT-004", "Flexible inox", 8, "pièce"},
	{"PLB-MAT-005", "Siphon PVC", 8, "pièce"},
	{"PLB-MAT-006", "Mécanisme chasse d'eau", 20, "pièce"},
	{"PLB-MAT-007", "Réservoir WC", 45, "pièce"},
	{"PLB-MAT-008", "WC complet", 90, "pièce"},
	{"PLB-MAT-009", "Lavabo", 40, "pièce"},
	{"PLB-MAT-010", "Évier inox", 50, "pièce"},
	{"PLB-MAT-011", "Cumulus 100L", 250, "pièce"},
	{"PLB-MAT-012", "Cumulus 150L", 300, "pièce"},
	{"PLB-MAT-013", "Cumulus 200L", 350, "pièce"},
	{"PLB-MAT-014", "Groupe de sécurité", 25, "pièce"},
	{"PLB-MAT-015", "Vanne arrêt", 10, "pièce"},
	{"PLB-MAT-016", "Tube cuivre", 8, "ml"},
	{"PLB-MAT-017", "Tube PER", 3, "ml"},
	{"PLB-MAT-018", "Raccord laiton", 5, "pièce"},
	{"PLB-MAT-019", "Joint fibre (lot)", 2, "lot"},
	{"PLB-MAT-020", "Colonne douche", 80, "pièce"},
}

var electricalLabor = []seedEntry{
	{"ELC-LAB-001", "Déplacement", 29, "forfait"},
	{"ELC-LAB-002", "Diagnostic panne", 45, "forfait"},
	{"ELC-LAB-003", "Recherche panne complexe", 80, "forfait"},
	{"ELC-LAB-004", "Remplacement prise", 25, "forfait"},
	{"ELC-LAB-005", "Remplacement interrupteur", 25, "forfait"},
	{"ELC-LAB-006", "Installation prise neuve", 60, "forfait"},
	{"ELC-LAB-007", "Installation interrupteur neuf", 60, "forfait"},
	{"ELC-LAB-008", "Remplacement disjoncteur", 35, "forfait"},
	{"ELC-LAB-009", "Remplacement différentiel", 45, "forfait"},
	{"ELC-LAB-010", "Remplacement tableau", 200, "forfait"},
	{"ELC-LAB-011", "Mise aux normes tableau", 150, "forfait"},
	{"ELC-LAB-012", "Installation point lumineux", 50, "forfait"},
	{"ELC-LAB-013", "Remplacement luminaire", 35, "forfait"},
	{"ELC-LAB-014", "Installation VMC", 120, "forfait"},
	{"ELC-LAB-015", "Remplacement convecteur", 45, "forfait"},
	{"ELC-LAB-016", "Prise spécialisée four/plaque", 80, "forfait"},
	{"ELC-LAB-017", "Tirage câble", 8, "ml"},
	{"ELC-LAB-018", "Vérification circuit", 15, "circuit"},
	{"ELC-LAB-019", "Majoration nuit (21h-6h)", 50, "%"},
	{"ELC-LAB-020", "Majoration dimanche/férié", 50, "%"},
}

var electricalMaterials = []seedEntry{
	{"ELC-MAT-001", "Prise standard", 3, "pièce"},
	{"ELC-MAT-002", "Prise design", 8, "pièce"},
	{"ELC-MAT-003", "Interrupteur simple", 3, "pièce"},
	{"ELC-MAT-004", "Interrupteur va-et-vient", 5, "pièce"},
	{"ELC-MAT-005", "Interrupteur design", 10, "pièce"},
	{"ELC-MAT-006", "Disjoncteur 10-20A", 8, "pièce"},
	{"ELC-MAT-007", "Disjoncteur 32A", 12, "pièce"},
	{"ELC-MAT-008", "Différentiel type A", 25, "pièce"},
	{"ELC-MAT-009", "Différentiel type AC", 20, "pièce"},
	{"ELC-MAT-010", "Tableau 2 rangées", 40, "pièce"},
	{"ELC-MAT-011", "Tableau 3 rangées", 60, "pièce"},
	{"ELC-MAT-012", "Tableau 4 rangées", 80, "pièce"},
	{"ELC-MAT-013", "Câble 1.5mm²", 0.80, "ml"},
	{"ELC-MAT-014", "Câble 2.5mm²", 1.20, "ml"},
	{"ELC-MAT-015", "Câble 6mm²", 2.50, "ml"},
	{"ELC-MAT-016", "Gaine ICTA", 0.50, "ml"},
	{"ELC-MAT-017", "Boîte encastrement", 0.80, "pièce"},
	{"ELC-MAT-018", "Spot encastrable", 8, "pièce"},
	{"ELC-MAT-019", "Plafonnier", 15, "pièce"},
	{"ELC-MAT-020", "VMC simple flux", 80, "pièce"},
	{"ELC-MAT-021", "Convecteur 1000W", 60, "pièce"},
	{"ELC-MAT-022", "Convecteur 1500W", 80, "pièce"},
}

// DefaultPrices returns the built-in price list used to seed an empty store.
func DefaultPrices() []domain.Price {
	groups := []struct {
		entries  []seedEntry
		trade    domain.Trade
		category domain.PriceCategory
	}{
		{locksmithLabor, domain.TradeLocksmith, domain.CategoryLabor},
		{locksmithMaterials, domain.TradeLocksmith, domain.CategoryMaterials},
		{plumbingLabor, domain.TradePlumbing, domain.CategoryLabor},
		{plumbingMaterials, domain.TradePlumbing, domain.CategoryMaterials},
		{electricalLabor, domain.TradeElectrical, domain.CategoryLabor},
		{electricalMaterials, domain.TradeElectrical, domain.CategoryMaterials},
	}

	var out []domain.Price
	for _, g := range groups {
		for _, e := range g.entries {
			out = append(out, domain.Price{
				Code:        e.code,
				Designation: e.designation,
				Amount:      e.amount,
				Unit:        e.unit,
				Category:    g.category,
				Trade:       g.trade,
			})
		}
	}
	return out
}
