package fallback

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Thresholds holds the tables used by derived computations. The built-in
// values are illustrative; deployments override them with LoadThresholds.
type Thresholds struct {
	CSS    CSSThresholds   `json:"css"`
	Loyers LoyerThresholds `json:"loyers"`
	Usure  UsureThresholds `json:"usure"`
}

// CSSThresholds gives annual income ceilings indexed by household size - 1.
// Households larger than the table add the Extra amounts per person.
type CSSThresholds struct {
	Gratuite           []float64 `json:"gratuite" validate:"required,min=1,dive,gt=0"`
	Participation      []float64 `json:"participation" validate:"required,min=1,dive,gt=0"`
	ExtraGratuite      float64   `json:"extra_gratuite" validate:"gte=0"`
	ExtraParticipation float64   `json:"extra_participation" validate:"gte=0"`
}

// LoyerThresholds gives monthly reference rents in €/m² per city.
type LoyerThresholds struct {
	References map[string]float64 `json:"references" validate:"dive,gt=0"`
	Default    float64            `json:"default" validate:"gt=0"`
}

// UsureThresholds gives usury ceilings (annual rate, percent) per credit category.
type UsureThresholds struct {
	Ceilings        map[string]float64 `json:"ceilings" validate:"required,min=1,dive,gt=0"`
	DefaultCategory string             `json:"default_category" validate:"required"`
}

// DefaultThresholds returns the built-in tables.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CSS: CSSThresholds{
			Gratuite:           []float64{9719, 14578, 17494, 20409},
			Participation:      []float64{13120, 19680, 23616, 27552},
			ExtraGratuite:      3888,
			ExtraParticipation: 5248,
		},
		Loyers: LoyerThresholds{
			References: map[string]float64{
				"paris":       28.5,
				"lyon":        16.0,
				"lille":       15.5,
				"bordeaux":    15.0,
				"montpellier": 15.5,
				"marseille":   14.5,
			},
			Default: 14.0,
		},
		Usure: UsureThresholds{
			Ceilings: map[string]float64{
				"immobilier":   6.0,
				"consommation": 9.0,
				"renouvelable": 22.0,
				"decouvert":    22.0,
			},
			DefaultCategory: "consommation",
		},
	}
}

// LoadThresholds reads a JSON file over the defaults: keys present in the
// file replace the built-in value, absent keys keep it.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, &ThresholdsError{Path: path, Message: "failed to read", Cause: err}
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return Thresholds{}, &ThresholdsError{Path: path, Message: "failed to parse", Cause: err}
	}
	if err := t.Validate(); err != nil {
		return Thresholds{}, &ThresholdsError{Path: path, Message: "invalid values", Cause: err}
	}
	return t, nil
}

// Validate checks table shapes and values.
func (t Thresholds) Validate() error {
	validate := validator.New()
	if err := validate.Struct(t); err != nil {
		return err
	}
	if len(t.CSS.Gratuite) != len(t.CSS.Participation) {
		return &ThresholdsError{Path: "css", Message: "gratuite and participation must have the same length"}
	}
	if _, ok := t.Usure.Ceilings[t.Usure.DefaultCategory]; !ok {
		return &ThresholdsError{Path: "usure", Message: "default_category has no ceiling"}
	}
	return nil
}

// CSSCeilings returns the free and co-pay ceilings for a household size.
func (c CSSThresholds) CSSCeilings(household int) (gratuite, participation float64) {
	if household < 1 {
		household = 1
	}
	n := len(c.Gratuite)
	if household <= n {
		return c.Gratuite[household-1], c.Participation[household-1]
	}
	extra := float64(household - n)
	return c.Gratuite[n-1] + extra*c.ExtraGratuite, c.Participation[n-1] + extra*c.ExtraParticipation
}

// Reference returns the reference rent for a free-text city, matching the
// longest known city name it contains.
func (l LoyerThresholds) Reference(city string) (ref float64, matched string) {
	lower := foldKey(city)
	for _, k := range longestFirst(l.References) {
		if lower != "" && strings.Contains(lower, foldKey(k)) {
			return l.References[k], k
		}
	}
	return l.Default, ""
}

// Ceiling returns the usury ceiling for a free-text credit category.
func (u UsureThresholds) Ceiling(category string) (ceiling float64, resolved string) {
	key := strings.ReplaceAll(foldKey(category), " ", "_")
	if c, ok := u.Ceilings[key]; ok {
		return c, key
	}
	for _, k := range longestFirst(u.Ceilings) {
		if key != "" && strings.Contains(key, k) {
			return u.Ceilings[k], k
		}
	}
	return u.Ceilings[u.DefaultCategory], u.DefaultCategory
}

// longestFirst returns the keys of m by decreasing length, then
// alphabetically, so substring lookups are deterministic.
func longestFirst(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

var accentFolder = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a", "ç", "c", "ô", "o",
	"î", "i", "ï", "i", "û", "u", "ù", "u",
)

func foldKey(s string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(s)))
}
