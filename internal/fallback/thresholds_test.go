package fallback

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outils-citoyens/outils-api/internal/types"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seuils.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadThresholds_EmptyPathGivesDefaults(t *testing.T) {
	th, err := LoadThresholds("")
	require.NoError(t, err)
	assert.Equal(t, DefaultThresholds(), th)
}

func TestLoadThresholds_OverridesFromFile(t *testing.T) {
	path := writeFile(t, `{
		"css": {"gratuite": [10000], "participation": [14000]},
		"loyers": {"references": {"nantes": 13.5}},
		"usure": {"ceilings": {"consommation": 10.5}}
	}`)

	th, err := LoadThresholds(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{10000}, th.CSS.Gratuite)
	assert.Equal(t, 3888.0, th.CSS.ExtraGratuite)
	assert.Equal(t, 13.5, th.Loyers.References["nantes"])
	assert.Equal(t, 28.5, th.Loyers.References["paris"])
	assert.Equal(t, 10.5, th.Usure.Ceilings["consommation"])

	g := New(Options{Thresholds: th})
	result := g.Generate(types.ToolCSS, types.Fields{"revenus": 9900})
	assert.Contains(t, result.Lettre.Corps, "sans participation financière")
}

func TestLoadThresholds_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"not json", `{nope`, "failed to parse"},
		{"length mismatch", `{"css": {"gratuite": [1, 2], "participation": [3]}}`, "invalid values"},
		{"negative ceiling", `{"usure": {"ceilings": {"immobilier": -1}}}`, "invalid values"},
		{"unknown default category", `{"usure": {"default_category": "viager"}}`, "invalid values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadThresholds(writeFile(t, tt.content))
			require.Error(t, err)

			var te *ThresholdsError
			require.True(t, errors.As(err, &te))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadThresholds_MissingFile(t *testing.T) {
	_, err := LoadThresholds("/nonexistent/seuils.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestUsureCeiling_AmbiguousCategoryIsDeterministic(t *testing.T) {
	u := DefaultThresholds().Usure

	for range 50 {
		ceiling, resolved := u.Ceiling("Immobilier renouvelable")
		require.Equal(t, "renouvelable", resolved)
		require.Equal(t, 22.0, ceiling)
	}

	ceiling, resolved := u.Ceiling("prêt immobilier")
	assert.Equal(t, "immobilier", resolved)
	assert.Equal(t, 6.0, ceiling)
}
