// Package types provides type definitions for structured data used throughout the outils-citoyens system.
package types

import (
	"sort"
	"strings"
)

// ToolID identifies one of the administrative-problem domains served by the API.
type ToolID string

// Known tool identifiers. The set is closed: anything else is a client error.
const (
	ToolAmendes    ToolID = "amendes"
	ToolAides      ToolID = "aides"
	ToolLoyers     ToolID = "loyers"
	ToolTravail    ToolID = "travail"
	ToolSante      ToolID = "sante"
	ToolCAF        ToolID = "caf"
	ToolUsure      ToolID = "usure"
	ToolEnergie    ToolID = "energie"
	ToolExpulsions ToolID = "expulsions"
	ToolCSS        ToolID = "css"
	ToolEcole      ToolID = "ecole"
	ToolDecodeur   ToolID = "decodeur"
)

// toolLabels holds the human-readable label of every known tool.
var toolLabels = map[ToolID]string{
	ToolAmendes:    "Contestation d'amende",
	ToolAides:      "Demandes d'aides sociales",
	ToolLoyers:     "Problèmes de loyer et logement",
	ToolTravail:    "Problèmes au travail",
	ToolSante:      "Santé et remboursements",
	ToolCAF:        "Courriers et réclamations CAF",
	ToolUsure:      "Crédit, usure et surendettement",
	ToolEnergie:    "Factures et coupures d'énergie",
	ToolExpulsions: "Menaces d'expulsion",
	ToolCSS:        "Complémentaire santé solidaire",
	ToolEcole:      "Problèmes scolaires",
	ToolDecodeur:   "Décryptage de courriers administratifs",
}

// ToolIDs returns every known tool identifier in a stable order.
func ToolIDs() []ToolID {
	ids := make([]ToolID, 0, len(toolLabels))
	for id := range toolLabels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ParseToolID validates a raw tool identifier against the closed set.
func ParseToolID(raw string) (ToolID, error) {
	id := ToolID(strings.TrimSpace(raw))
	if !id.Known() {
		return "", &UnknownToolError{ToolID: raw}
	}
	return id, nil
}

// Known reports whether the identifier belongs to the closed set.
func (t ToolID) Known() bool {
	_, ok := toolLabels[t]
	return ok
}

// Label returns the display label, or the raw identifier for unknown tools.
func (t ToolID) Label() string {
	if label, ok := toolLabels[t]; ok {
		return label
	}
	return string(t)
}

func (t ToolID) String() string {
	return string(t)
}
