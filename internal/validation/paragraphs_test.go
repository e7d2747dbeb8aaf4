package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureFourParagraphs_FewerThanFour(t *testing.T) {
	result := EnsureFourParagraphs("Premier paragraphe.")
	paragraphs := strings.Split(result, "\n\n")
	require.Len(t, paragraphs, 4)
	assert.Equal(t, "Premier paragraphe.", paragraphs[0])
	assert.Contains(t, paragraphs[1], "Je vous expose ci-dessous")

	result = EnsureFourParagraphs("Premier paragraphe.\n\nSecond paragraphe.")
	paragraphs = strings.Split(result, "\n\n")
	require.Len(t, paragraphs, 4)
	assert.Equal(t, "Premier paragraphe.", paragraphs[0])
	assert.Equal(t, "Second paragraphe.", paragraphs[1])

	result = EnsureFourParagraphs("Un.\n\nDeux.\n\nTrois.")
	assert.Len(t, strings.Split(result, "\n\n"), 4)
}

func TestEnsureFourParagraphs_MoreThanFour(t *testing.T) {
	result := EnsureFourParagraphs("Un.\n\nDeux.\n\nTrois.\n\nQuatre.\n\nCinq.")
	paragraphs := strings.Split(result, "\n\n")
	require.Len(t, paragraphs, 4)
	assert.Equal(t, "Un.", paragraphs[0])
	assert.Equal(t, "Deux.", paragraphs[1])
	assert.Equal(t, "Trois.", paragraphs[2])
	assert.Equal(t, "Quatre. Cinq.", paragraphs[3])
}

func TestEnsureFourParagraphs_ExactlyFour(t *testing.T) {
	corps := "Un.\n\nDeux.\n\nTrois.\n\nQuatre."
	assert.Equal(t, corps, EnsureFourParagraphs(corps))
}

func TestEnsureFourParagraphs_Property(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"\n\n\n\n",
		"Un seul bloc\navec un retour simple.",
		"A.\n \n\t\nB.",
		"A.\r\n\r\nB.\r\n\r\nC.",
		strings.Repeat("Paragraphe.\n\n", 12),
		"Un.\n\n\n\nDeux.\n\n   \n\nTrois.",
	}

	for _, in := range inputs {
		once := EnsureFourParagraphs(in)
		paragraphs := strings.Split(once, "\n\n")
		require.Len(t, paragraphs, 4, "input %q", in)
		for _, p := range paragraphs {
			assert.NotEmpty(t, strings.TrimSpace(p), "input %q", in)
		}
		assert.Equal(t, once, EnsureFourParagraphs(once), "idempotence for %q", in)
	}
}

func TestEnsureFourParagraphs_EmptyUsesAllFillers(t *testing.T) {
	paragraphs := strings.Split(EnsureFourParagraphs(""), "\n\n")
	assert.Equal(t, paragraphFillers[:], paragraphs)
}
