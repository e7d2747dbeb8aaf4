package legal

import (
	"strings"
	"unicode"

	"github.com/outils-citoyens/outils-api/internal/types"
)

// DateLayout is the French DD/MM/YYYY display format.
const DateLayout = "02/01/2006"

var sourceNames = map[string]string{
	"legifrance":     "Légifrance",
	"cour_cassation": "Cour de cassation",
	"conseil_etat":   "Conseil d'État",
	"service_public": "Service-public.fr",
}

var typeNames = map[string]string{
	"code":           "Code",
	"decret":         "Décret",
	"decision":       "Décision de justice",
	"fiche_pratique": "Fiche pratique",
}

// SourceName returns the display name of a source identifier.
func SourceName(source string) string {
	if name, ok := sourceNames[source]; ok {
		return name
	}
	return titleCase(source)
}

// TypeName returns the display name of a document type.
func TypeName(docType string) string {
	if name, ok := typeNames[docType]; ok {
		return name
	}
	return titleCase(docType)
}

// Citation formats a document for display.
func Citation(d types.LegalDoc) types.LegalCitation {
	return types.LegalCitation{
		Title:  d.Title,
		Source: SourceName(d.Source),
		Date:   d.Date.Format(DateLayout),
		URL:    d.URL,
		Type:   TypeName(d.Type),
	}
}

// titleCase upper-cases the first letter of every word, words being
// separated by anything but letters.
func titleCase(s string) string {
	var sb strings.Builder
	start := true
	for _, r := range s {
		if unicode.IsLetter(r) {
			if start {
				r = unicode.ToUpper(r)
			} else {
				r = unicode.ToLower(r)
			}
			start = false
		} else {
			start = true
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
