package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/outils-citoyens/outils-api/internal/types"
)

// Contract bounds applied by Normalize.
const (
	MinResume      = 4
	MaxResume      = 10
	MinChecklist   = 3
	MaxChecklist   = 8
	MinMentionsLen = 50
)

// Disclaimer is appended to mentions that are too short to be meaningful.
const Disclaimer = "Aide automatisée : ce document ne remplace pas le conseil d'un avocat ou d'un professionnel du droit. Vérifiez les délais applicables à votre situation."

var genericSteps = []string{
	"Analyser le courrier reçu et identifier l'organisme compétent.",
	"Rassembler les pièces justificatives utiles à votre dossier.",
	"Envoyer votre courrier en lettre recommandée avec accusé de réception.",
	"Conserver une copie de tous les documents envoyés.",
	"Surveiller la réponse et relancer en l'absence de retour sous deux mois.",
}

var genericChecks = []string{
	"Vérifier les délais de recours applicables.",
	"Joindre une copie de chaque pièce justificative.",
	"Conserver la preuve de dépôt ou d'envoi.",
}

// Normalize applies the post-processing every pipeline path goes through:
// emoji stripping, list bounds, four-paragraph body and sober subject. It is
// idempotent.
func Normalize(r types.GenerationResult) types.GenerationResult {
	out := r.Clone()

	out.Resume = clamp(stripList(out.Resume), MinResume, MaxResume, genericSteps)
	out.Checklist = clamp(stripList(out.Checklist), MinChecklist, MaxChecklist, genericChecks)
	out.Lettre.PJ = nonEmpty(out.Lettre.PJ)

	out.Mentions = strings.TrimSpace(RemoveEmojis(out.Mentions))
	if utf8.RuneCountInString(out.Mentions) <= MinMentionsLen {
		out.Mentions = strings.TrimSpace(out.Mentions + " " + Disclaimer)
	}

	out.Lettre.Corps = EnsureFourParagraphs(out.Lettre.Corps)
	out.Lettre.Objet = MakeSubjectSober(out.Lettre.Objet)
	return out
}

func stripList(items []string) []string {
	for i := range items {
		items[i] = RemoveEmojis(items[i])
	}
	return nonEmpty(items)
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// clamp truncates to max and pads to min from pad, skipping entries already present.
func clamp(items []string, min, max int, pad []string) []string {
	if len(items) > max {
		items = items[:max]
	}
	for _, p := range pad {
		if len(items) >= min {
			break
		}
		if !contains(items, p) {
			items = append(items, p)
		}
	}
	return items
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
