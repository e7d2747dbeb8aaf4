package sanitize

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outils-citoyens/outils-api/internal/types"
)

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"script content dropped", "Hello <script>alert('hack')</script> world", "Hello  world"},
		{"javascript scheme", "Click javascript:alert('xss') here", "Click alert('xss') here"},
		{"tags stripped", "<b>Jean</b> <i>Dupont</i>", "Jean Dupont"},
		{"script before text", "<script>alert('xss')</script>Jean", "Jean"},
		{"entities decoded", "Loyer &amp; charges", "Loyer & charges"},
		{"apostrophes kept", "L'avis n°123 \"urgent\"", "L'avis n°123 \"urgent\""},
		{"encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"nested scheme", "javajavascript:script:alert(1)", "alert(1)"},
		{"vbscript and data", "vbscript:x data:text/html,y", "x ,y"},
		{"event handler", `img onerror=alert(1)`, "img alert(1)"},
		{"plain french", "Montant : 1 200,50 € le 15/03/2024", "Montant : 1 200,50 € le 15/03/2024"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.input))
		})
	}
}

func TestString_LengthCap(t *testing.T) {
	assert.Equal(t, MaxStringLen, utf8.RuneCountInString(String(strings.Repeat("a", 6000))))
	assert.Equal(t, MaxStringLen, utf8.RuneCountInString(String(strings.Repeat("é", 6000))))
}

func TestFields(t *testing.T) {
	in := types.Fields{
		"identite": map[string]any{
			"nom":     "<script>alert('xss')</script>Jean",
			"adresse": "1 rue <b>de la Paix</b>",
		},
		"description":       "Test javascript:alert('hack') here",
		"montant":           float64(135),
		"accord":            true,
		"<b>cle</b>":        "valeur",
		"<script></script>": "supprimé",
		"pieces":            []any{"<i>avis</i>", float64(2)},
	}

	out := Fields(in)

	identite := out["identite"].(map[string]any)
	assert.Equal(t, "Jean", identite["nom"])
	assert.Equal(t, "1 rue de la Paix", identite["adresse"])
	assert.Equal(t, "Test alert('hack') here", out["description"])
	assert.Equal(t, float64(135), out["montant"])
	assert.Equal(t, true, out["accord"])
	assert.Equal(t, "valeur", out["cle"])
	assert.Equal(t, []any{"avis", float64(2)}, out["pieces"])
	assert.Len(t, out, 6)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "<script>")
	assert.NotContains(t, string(raw), "javascript:")
	// Input is not modified.
	assert.Equal(t, "Test javascript:alert('hack') here", in["description"])
}

func TestFields_ListCap(t *testing.T) {
	items := make([]any, 80)
	for i := range items {
		items[i] = "x"
	}

	out := Fields(types.Fields{"liste": items})

	assert.Len(t, out["liste"], MaxListItems)
}

func TestFields_DepthCap(t *testing.T) {
	var nested any = "feuille"
	for range 8 {
		nested = map[string]any{"n": nested}
	}

	out := Fields(types.Fields{"racine": nested})

	depth := 1
	var current any = map[string]any(out["racine"].(map[string]any))
	for {
		m, ok := current.(map[string]any)
		if !ok {
			break
		}
		depth++
		current = m["n"]
	}
	assert.Equal(t, MaxDepth, depth)
	raw, _ := json.Marshal(out)
	assert.NotContains(t, string(raw), "feuille")
}

func TestFields_Nil(t *testing.T) {
	assert.Equal(t, types.Fields{}, Fields(nil))
}
