package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("generation.json", "system")
	require.NoError(t, err)
	assert.Contains(t, prompt, "assistant juridique français")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("generation.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestEmbeddedFiles_AllKeysPresent(t *testing.T) {
	ClearCache()

	required := map[string][]string{
		"generation.json": {"system", "instructions", "output-format", "letter-template", "user", "critique", "repair-system", "repair-user"},
		"chat.json":       {"system", "form-context", "filled-fields", "empty-fields", "form-help", "tool-context", "conversation", "fallback-tool", "fallback-generic", "apology"},
		"legal.json":      {"system", "user", "source", "fallback-unavailable", "fallback-error", "no-results", "no-results-disclaimer", "disclaimer"},
	}
	for file, keys := range required {
		for _, key := range keys {
			t.Run(file+"/"+key, func(t *testing.T) {
				assert.NotPanics(t, func() {
					assert.NotEmpty(t, MustGet(file, key))
				})
			})
		}
	}
}

func TestFormat(t *testing.T) {
	template := "Bonjour {{.Nom}}, outil {{.Outil}} !"
	data := map[string]string{
		"Nom":   "Alice",
		"Outil": "amendes",
	}

	result := Format(template, data)
	assert.Equal(t, "Bonjour Alice, outil amendes !", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"

	result := Format(template, map[string]string{})
	assert.Equal(t, template, result) // Placeholder remains
}

func TestFormat_ValuesAreNotReexpanded(t *testing.T) {
	template := "{{.A}} / {{.B}}"
	data := map[string]string{"A": "{{.B}}", "B": "b"}

	assert.Equal(t, "{{.B}} / b", Format(template, data))
}
