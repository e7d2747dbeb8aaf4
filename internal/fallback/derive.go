package fallback

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/outils-citoyens/outils-api/internal/types"
)

// ContestationDays is the legal window, in days, to contest a fine.
const ContestationDays = 45

var (
	amendesDateKeys    = []string{"date_infraction", "date", "amende.date"}
	amendesMontantKeys = []string{"montant", "amende.montant"}

	loyersRentKeys    = []string{"loyer", "loyer_mensuel", "logement.loyer"}
	loyersSurfaceKeys = []string{"surface", "logement.surface"}
	loyersCityKeys    = []string{"ville", "commune", "logement.ville", "logement.adresse", "adresse_logement"}

	usureRateKeys     = []string{"taux", "taeg", "taux_annuel", "credit.taux"}
	usureCategoryKeys = []string{"type_credit", "categorie_credit", "credit.type"}

	cssIncomeKeys    = []string{"revenus_annuels", "ressources_annuelles", "revenus", "ressources", "foyer.revenus"}
	cssHouseholdKeys = []string{"nb_personnes", "taille_foyer", "foyer.nb_personnes"}
)

// Upper bounds past which a numeric input is taken for a typo. The
// placeholder is then kept instead of the value.
const (
	maxAmount    = 1e6
	maxIncome    = 1e7
	maxHousehold = 20
	maxRent      = 1e5
	maxSurface   = 1e4
	maxRate      = 100
)

// plausible reports whether v is a finite number within [lo, hi].
func plausible(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

// keepPlaceholders maps placeholders to themselves, overriding the raw
// field text a binding may have put there.
func keepPlaceholders(out map[string]string, placeholders ...string) map[string]string {
	for _, p := range placeholders {
		out[p] = p
	}
	return out
}

var dateLayouts = []string{"2/1/2006", "2006-01-02"}

// ParseDate accepts DD/MM/YYYY and YYYY-MM-DD.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// ContestationDeadline returns the infraction date plus 45 days.
func ContestationDeadline(infraction time.Time) time.Time {
	return infraction.AddDate(0, 0, ContestationDays)
}

func deriveAmendes(f types.Fields) map[string]string {
	out := make(map[string]string)
	if montant, ok := f.Float(amendesMontantKeys...); ok {
		if plausible(montant, 0, maxAmount) {
			out["[montant]"] = formatEuros(montant)
		} else {
			keepPlaceholders(out, "[montant]")
		}
	}
	raw, ok := f.String(amendesDateKeys...)
	if !ok {
		return out
	}
	d, ok := ParseDate(raw)
	if !ok {
		return out
	}
	out["[date de l'infraction]"] = d.Format("02/01/2006")
	out["[date limite de contestation]"] = ContestationDeadline(d).Format("02/01/2006")
	return out
}

// CSS eligibility categories.
const (
	CSSGratuite      = "gratuite"
	CSSParticipation = "participation"
	CSSNonEligible   = "non éligible"
)

// CSSEligibility classifies annual income for a household size.
func CSSEligibility(income float64, household int, t CSSThresholds) (category string, gratuite, participation float64) {
	gratuite, participation = t.CSSCeilings(household)
	switch {
	case income <= gratuite:
		return CSSGratuite, gratuite, participation
	case income <= participation:
		return CSSParticipation, gratuite, participation
	default:
		return CSSNonEligible, gratuite, participation
	}
}

func deriveCSS(f types.Fields, t CSSThresholds) map[string]string {
	out := make(map[string]string)
	household, ok := f.Int(cssHouseholdKeys...)
	if !ok || household < 1 {
		household = 1
	}
	if household > maxHousehold {
		return keepPlaceholders(out, "[nombre de personnes]", "[ressources annuelles]")
	}
	income, ok := f.Float(cssIncomeKeys...)
	if !ok {
		return out
	}
	if !plausible(income, 0, maxIncome) {
		return keepPlaceholders(out, "[ressources annuelles]")
	}
	category, gratuite, participation := CSSEligibility(income, household, t)

	out["[ressources annuelles]"] = formatEuros(income)
	out["[nombre de personnes]"] = fmt.Sprint(household)
	prefix := fmt.Sprintf("Avec des ressources annuelles de %s pour un foyer de %d personne(s),", formatEuros(income), household)
	switch category {
	case CSSGratuite:
		out["[éligibilité CSS]"] = fmt.Sprintf("%s vous pouvez bénéficier de la Complémentaire santé solidaire sans participation financière (plafond : %s).",
			prefix, formatEuros(gratuite))
	case CSSParticipation:
		out["[éligibilité CSS]"] = fmt.Sprintf("%s vous pouvez bénéficier de la Complémentaire santé solidaire avec une participation financière (plafond sans participation : %s, avec participation : %s).",
			prefix, formatEuros(gratuite), formatEuros(participation))
	default:
		out["[éligibilité CSS]"] = fmt.Sprintf("%s vos ressources dépassent le plafond de %s : vous n'êtes a priori pas éligible à la Complémentaire santé solidaire.",
			prefix, formatEuros(participation))
	}
	return out
}

// RentAnalysis is the outcome of comparing a rent with its reference.
type RentAnalysis struct {
	PerSquareMeter float64
	Reference      float64
	City           string // matched reference city, empty for the default reference
	Excess         bool
	Overpayment    float64 // monthly
}

// AnalyzeRent compares rent per m² with the city reference. It reports false
// when surface or rent is not positive.
func AnalyzeRent(rent, surface float64, city string, t LoyerThresholds) (RentAnalysis, bool) {
	if rent <= 0 || surface <= 0 {
		return RentAnalysis{}, false
	}
	a := RentAnalysis{PerSquareMeter: rent / surface}
	a.Reference, a.City = t.Reference(city)
	if a.PerSquareMeter > a.Reference {
		a.Excess = true
		a.Overpayment = (a.PerSquareMeter - a.Reference) * surface
	}
	return a, true
}

func deriveLoyers(f types.Fields, t LoyerThresholds) map[string]string {
	out := make(map[string]string)
	rent, okRent := f.Float(loyersRentKeys...)
	surface, okSurface := f.Float(loyersSurfaceKeys...)
	if okRent && !plausible(rent, 0, maxRent) {
		okRent = false
		keepPlaceholders(out, "[loyer]")
	}
	if okSurface && !plausible(surface, 0, maxSurface) {
		okSurface = false
		keepPlaceholders(out, "[surface]")
	}
	if okRent {
		out["[loyer]"] = formatEuros(rent)
	}
	if okSurface {
		out["[surface]"] = formatSurface(surface)
	}
	if !okRent || !okSurface {
		return out
	}
	city, _ := f.String(loyersCityKeys...)
	a, ok := AnalyzeRent(rent, surface, city, t)
	if !ok {
		return out
	}

	where := "référence par défaut"
	if a.City != "" {
		where = capitalize(a.City)
	}
	base := fmt.Sprintf("Le loyer de %s pour %s représente %s €/m²", formatEuros(rent), formatSurface(surface), formatNumber(a.PerSquareMeter, 2))
	if a.Excess {
		out["[analyse du loyer]"] = fmt.Sprintf("%s, au-dessus de la référence de %s €/m² (%s) : trop-perçu estimé à %s par mois.",
			base, formatNumber(a.Reference, 2), where, formatNumber(a.Overpayment, 2)+" €")
	} else {
		out["[analyse du loyer]"] = fmt.Sprintf("%s, dans la limite de la référence de %s €/m² (%s).",
			base, formatNumber(a.Reference, 2), where)
	}
	return out
}

// UsuryCheck is the outcome of comparing a rate with its usury ceiling.
type UsuryCheck struct {
	Rate      float64
	Ceiling   float64
	Category  string
	Violation bool
}

// CheckUsury compares an annual rate (percent) with the category ceiling.
func CheckUsury(rate float64, category string, t UsureThresholds) UsuryCheck {
	ceiling, resolved := t.Ceiling(category)
	return UsuryCheck{Rate: rate, Ceiling: ceiling, Category: resolved, Violation: rate > ceiling}
}

func deriveUsure(f types.Fields, t UsureThresholds) map[string]string {
	out := make(map[string]string)
	rate, ok := f.Float(usureRateKeys...)
	if !ok {
		return out
	}
	if !plausible(rate, 0, maxRate) {
		return keepPlaceholders(out, "[taux]")
	}
	category, _ := f.String(usureCategoryKeys...)
	c := CheckUsury(rate, category, t)

	out["[taux]"] = formatNumber(c.Rate, 2) + " %"
	if category == "" {
		out["[type de crédit]"] = c.Category
	}
	if c.Violation {
		out["[analyse du taux]"] = fmt.Sprintf("Le TAEG de %s %% dépasse le seuil de l'usure de %s %% applicable à la catégorie %s : le taux est susceptible d'être usuraire.",
			formatNumber(c.Rate, 2), formatNumber(c.Ceiling, 2), c.Category)
	} else {
		out["[analyse du taux]"] = fmt.Sprintf("Le TAEG de %s %% reste inférieur au seuil de l'usure de %s %% applicable à la catégorie %s.",
			formatNumber(c.Rate, 2), formatNumber(c.Ceiling, 2), c.Category)
	}
	return out
}

func formatSurface(v float64) string {
	if v == float64(int64(v)) {
		return formatNumber(v, 0) + " m²"
	}
	return formatNumber(v, 2) + " m²"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
