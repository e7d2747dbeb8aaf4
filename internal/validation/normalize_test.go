package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outils-citoyens/outils-api/internal/types"
)

func TestNormalize_AppliesAllRules(t *testing.T) {
	in := types.GenerationResult{
		Resume: []string{"🚀 Agir vite", "Deux"},
		Lettre: types.Letter{
			Objet: "Loyer abusif!!!",
			Corps: "Un.\n\nDeux.",
		},
		Checklist: []string{"✅ Fait", "", "📎"},
		Mentions:  "Court 🙂",
	}

	out := Normalize(in)

	require.Len(t, out.Resume, MinResume)
	assert.Equal(t, "Agir vite", out.Resume[0])
	assert.Len(t, out.Checklist, MinChecklist)
	assert.Equal(t, "Fait", out.Checklist[0])
	assert.Equal(t, "Objet : Loyer abusif!", out.Lettre.Objet)
	assert.Len(t, strings.Split(out.Lettre.Corps, "\n\n"), 4)
	assert.Greater(t, utf8.RuneCountInString(out.Mentions), MinMentionsLen)
	assert.True(t, strings.HasPrefix(out.Mentions, "Court"))
	assert.Contains(t, out.Mentions, Disclaimer)
	assert.NotNil(t, out.Lettre.PJ)
}

func TestNormalize_Truncates(t *testing.T) {
	long := make([]string, 15)
	for i := range long {
		long[i] = strings.Repeat("x", i+1)
	}

	out := Normalize(types.GenerationResult{Resume: long, Checklist: long})

	assert.Len(t, out.Resume, MaxResume)
	assert.Len(t, out.Checklist, MaxChecklist)
}

func TestNormalize_Idempotent(t *testing.T) {
	in := types.GenerationResult{
		Resume:    []string{"🎯 Un"},
		Lettre:    types.Letter{Objet: "", Corps: "A\n\nB\n\nC\n\nD\n\nE", PJ: []string{"", "Avis"}},
		Checklist: nil,
		Mentions:  "",
	}

	once := Normalize(in)
	twice := Normalize(once)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Normalize not idempotent (-once +twice):\n%s", diff)
	}
	assert.Equal(t, []string{"Avis"}, once.Lettre.PJ)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := types.GenerationResult{Resume: []string{"😀 a"}}

	_ = Normalize(in)

	assert.Equal(t, "😀 a", in.Resume[0])
}
