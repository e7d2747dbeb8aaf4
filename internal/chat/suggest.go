package chat

import (
	"strings"

	"github.com/outils-citoyens/outils-api/internal/types"
)

// rule maps keywords to a suggested value. The first matching rule wins.
type rule struct {
	keywords []string
	value    string
}

// suggestionRules holds, per tool, the form field that can be guessed from
// the conversation and the rules that decide its value.
var suggestionRules = map[types.ToolID]struct {
	field string
	rules []rule
}{
	types.ToolAmendes: {"type_amende", []rule{
		{[]string{"stationnement"}, "stationnement"},
		{[]string{"vitesse", "radar"}, "vitesse"},
		{[]string{"transport", "métro", "bus"}, "transports"},
	}},
	types.ToolLoyers: {"type_probleme", []rule{
		{[]string{"cher"}, "loyer_trop_cher"},
		{[]string{"charge"}, "charges_abusives"},
		{[]string{"travaux", "réparation"}, "travaux_non_faits"},
	}},
	types.ToolTravail: {"type_probleme", []rule{
		{[]string{"licenci"}, "licenciement"},
		{[]string{"harcèlement", "harcel"}, "harcelement"},
		{[]string{"salaire", "paye"}, "salaire"},
	}},
}

// SuggestFields guesses form values from what the user wrote. Only user
// messages are considered. It returns nil when nothing can be suggested.
func SuggestFields(messages []types.ChatMessage, toolID types.ToolID) map[string]any {
	set, ok := suggestionRules[toolID]
	if !ok {
		return nil
	}

	var parts []string
	for _, m := range messages {
		if m.Role == "user" {
			parts = append(parts, m.Content)
		}
	}
	text := strings.ToLower(strings.Join(parts, " "))

	for _, r := range set.rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return map[string]any{set.field: r.value}
			}
		}
	}
	return nil
}
