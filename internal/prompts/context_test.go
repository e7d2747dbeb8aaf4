package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/outils-citoyens/outils-api/internal/types"
)

func TestBuildContext(t *testing.T) {
	fields := types.Fields{
		"identite": map[string]any{
			"nom":     "Dupont",
			"prenom":  "Jean",
			"adresse": "1 rue de la Paix, Paris",
		},
		"numero_avis":  "AB123",
		"montant":      float64(135),
		"amende":       map[string]any{"lieu": "Paris", "date": "15/03/2024"},
		"pieces":       []any{"photo", "témoin"},
		"date_faits":   "01/02/2024",
		"consentement": true,
	}
	schema := ToolSchema{Properties: map[string]Property{"numero_avis": {Title: "Numéro de l'avis"}}}

	ctx := BuildContext(fields, schema)

	expected := `=== IDENTITÉ ===
Nom: Dupont
Prénom: Jean
Adresse: 1 rue de la Paix, Paris

=== DONNÉES DU FORMULAIRE ===
Amende:
  - date: 15/03/2024
  - lieu: Paris
Consentement: oui
Date faits: 01/02/2024
Montant: 135
Numéro de l'avis: AB123
Pieces:
  - photo
  - témoin`
	assert.Equal(t, expected, ctx)
}

func TestBuildContext_NoIdentity(t *testing.T) {
	ctx := BuildContext(types.Fields{"motif": "erreur"}, ToolSchema{})

	assert.NotContains(t, ctx, identityHeader)
	assert.Equal(t, formHeader+"\nMotif: erreur", ctx)
}

func TestBuildContext_PartialIdentity(t *testing.T) {
	ctx := BuildContext(types.Fields{"identite": map[string]any{"nom": "Martin"}}, ToolSchema{})

	assert.Equal(t, identityHeader+"\nNom: Martin\n\n"+formHeader, ctx)
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"date_infraction", "Date infraction"},
		{"écart", "Écart"},
		{"", ""},
		{"x", "X"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanize(tt.in), tt.in)
	}
}

func TestBlueprints_ReturnCopies(t *testing.T) {
	bp := ChecklistBlueprint(types.ToolAmendes)
	bp[0] = "modifié"

	assert.NotEqual(t, "modifié", ChecklistBlueprint(types.ToolAmendes)[0])
	assert.Equal(t, defaultMentionsBlueprint, MentionsBlueprint(types.ToolEnergie))
	assert.Contains(t, MentionsBlueprint(types.ToolCAF)[0], "2 mois")
}
