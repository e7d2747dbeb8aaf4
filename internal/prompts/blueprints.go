package prompts

import "github.com/outils-citoyens/outils-api/internal/types"

var checklistBlueprints = map[types.ToolID][]string{
	types.ToolAmendes: {
		"Respecter le délai de 45 jours pour la contestation",
		"Envoyer en lettre recommandée avec accusé de réception",
		"Rassembler toutes les preuves (photos, témoignages)",
		"Conserver l'original de l'avis de contravention",
		"Vérifier l'exactitude des mentions du procès-verbal",
	},
	types.ToolCAF: {
		"Respecter le délai de recours de 2 mois",
		"Rassembler tous les justificatifs de situation",
		"Envoyer en LRAR avec numéro allocataire",
		"Conserver copies et accusés de réception",
	},
	types.ToolLoyers: {
		"Vérifier l'applicabilité de l'encadrement des loyers",
		"Consulter les données officielles de référence",
		"Calculer précisément le dépassement",
		"Envoyer en LRAR au bailleur",
	},
}

var defaultChecklistBlueprint = []string{
	"Rassembler tous les documents nécessaires",
	"Respecter les délais légaux",
	"Envoyer en lettre recommandée",
	"Conserver toutes les preuves",
}

var mentionsBlueprints = map[types.ToolID][]string{
	types.ToolAmendes: {
		"Délai de contestation : 45 jours maximum",
		"Envoi obligatoire en lettre recommandée",
		"Recours possible devant le tribunal en cas de rejet",
		"Ne pas payer l'amende pendant la contestation",
	},
	types.ToolCAF: {
		"Délai de recours : 2 mois après notification",
		"Possibilité de saisir la CRA en cas d'échec",
		"Maintien des droits pendant l'instruction",
		"Aide juridictionnelle possible",
	},
	types.ToolLoyers: {
		"Prescription triennale pour les actions en restitution",
		"Recours devant la commission de conciliation",
		"Possibilité de saisir le tribunal judiciaire",
		"Conservation obligatoire des preuves",
	},
}

var defaultMentionsBlueprint = []string{
	"Respecter les délais légaux",
	"Conserver tous les documents",
	"Recours possibles en cas de refus",
	"Aide juridique disponible si nécessaire",
}

// ChecklistBlueprint returns the reference checklist for a tool.
func ChecklistBlueprint(toolID types.ToolID) []string {
	if bp, ok := checklistBlueprints[toolID]; ok {
		return append([]string(nil), bp...)
	}
	return append([]string(nil), defaultChecklistBlueprint...)
}

// MentionsBlueprint returns the reference legal reminders for a tool.
func MentionsBlueprint(toolID types.ToolID) []string {
	if bp, ok := mentionsBlueprints[toolID]; ok {
		return append([]string(nil), bp...)
	}
	return append([]string(nil), defaultMentionsBlueprint...)
}
