package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/outils-citoyens/outils-api/internal/types"
)

const (
	// ModeleIDField selects a model letter from the tool schema.
	ModeleIDField = "modele_id"

	defaultDestinataire = "Service compétent\n[Adresse à compléter]"
	missingValue        = "[à compléter]"
	maxSuggestedPieces  = 3
)

var builtinDestinataires = map[string]string{
	"tribunal_police": "Monsieur l'Officier du Ministère Public\nTribunal de Police\nService des Contraventions\n[Adresse du tribunal]",
	"antai":           "ANTAI\nService de Contestation\nCS 41101\n35911 RENNES CEDEX 9",
	"officier_mp":     "Monsieur l'Officier du Ministère Public\nTribunal de Police\n[Adresse du tribunal]",
}

var modeleChecklist = []string{
	"Vérifier la validité du procès-verbal",
	"Rassembler les preuves nécessaires",
	"Respecter le délai de 45 jours",
	"Envoyer en lettre recommandée",
	"Conserver les accusés de réception",
}

const modeleMentions = "Cette lettre est générée à partir d'un modèle type. Vérifiez que tous les éléments correspondent à votre situation avant envoi. En cas de doute, consultez un professionnel du droit."

// BuildFromModele renders the x-modeles entry named by fields.modele_id.
// Templates use text/template syntax over the top-level fields, plus
// identite_<key> flattening and nom/prenom/adresse shortcuts. Missing values
// render as "[à compléter]".
func BuildFromModele(schema ToolSchema, fields types.Fields) (types.GenerationResult, error) {
	id, ok := fields.String(ModeleIDField)
	if !ok {
		return types.GenerationResult{}, &ModeleError{Message: "no modele requested"}
	}
	modele, ok := schema.FindModele(id)
	if !ok {
		return types.GenerationResult{}, &ModeleError{ID: id, Message: "not found in schema"}
	}

	data := modeleData(fields)
	objet, err := render(modele.Objet, data)
	if err != nil {
		return types.GenerationResult{}, &ModeleError{ID: id, Message: "invalid objet template", Cause: err}
	}
	corps, err := render(modele.Corps, data)
	if err != nil {
		return types.GenerationResult{}, &ModeleError{ID: id, Message: "invalid corps template", Cause: err}
	}

	destinataireID, ok := fields.String("destinataire_id")
	if !ok {
		destinataireID = modele.DestinataireDefault
	}

	hint := modele.TemplateHint
	if hint == "" {
		hint = modele.ID
	}

	return types.GenerationResult{
		Resume: []string{
			"Préparer la contestation basée sur : " + hint,
			"Rassembler tous les documents justificatifs",
			"Vérifier les délais de contestation (45 jours)",
			"Envoyer en lettre recommandée avec accusé de réception",
			"Conserver une copie de tous les documents",
		},
		Lettre: types.Letter{
			DestinataireBloc: destinataireBloc(destinataireID, schema),
			Objet:            objet,
			Corps:            corps,
			PJ:               pieces(fields, schema),
			Signature:        fmt.Sprintf("%s %s\n%s", data["prenom"], data["nom"], data["adresse"]),
		},
		Checklist: append([]string(nil), modeleChecklist...),
		Mentions:  modeleMentions,
	}, nil
}

func modeleData(fields types.Fields) map[string]any {
	data := make(map[string]any, len(fields)+8)
	for k, v := range fields {
		data[k] = v
	}
	identite, _ := fields.Map("identite")
	for k, v := range identite {
		data["identite_"+k] = v
	}
	for key, placeholder := range map[string]string{"nom": "[Nom]", "prenom": "[Prénom]", "adresse": "[Adresse]"} {
		if v, ok := identite.String(key); ok {
			data[key] = v
		} else {
			data[key] = placeholder
		}
	}
	return data
}

func render(text string, data map[string]any) (string, error) {
	tmpl, err := template.New("modele").Parse(text)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return strings.ReplaceAll(sb.String(), "<no value>", missingValue), nil
}

func destinataireBloc(id string, schema ToolSchema) string {
	if id == "" {
		return defaultDestinataire
	}
	if bloc, ok := schema.Destinataires[id]; ok && bloc != "" {
		return bloc
	}
	if bloc, ok := builtinDestinataires[id]; ok {
		return bloc
	}
	return defaultDestinataire
}

func pieces(fields types.Fields, schema ToolSchema) []string {
	var out []string
	if raw, ok := fields.Lookup("pieces_suggerees"); ok {
		if items, ok := raw.([]any); ok {
			for _, item := range items {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	suggested := schema.Options.PiecesSuggerees
	if len(suggested) > maxSuggestedPieces {
		suggested = suggested[:maxSuggestedPieces]
	}
	return append([]string{}, suggested...)
}
