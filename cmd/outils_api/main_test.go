package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outils-citoyens/outils-api/internal/legal"
	"github.com/outils-citoyens/outils-api/internal/pipeline"
	"github.com/outils-citoyens/outils-api/internal/types"
)

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "generate", "ingest-legal"} {
		assert.True(t, names[want], "missing command %s", want)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestReadFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fields.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ville":"Lyon","loyer":950}`), 0o644))

	fields, err := readFields(path, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Fields{"ville": "Lyon", "loyer": float64(950)}, fields)

	fields, err = readFields("-", strings.NewReader(`{"motif":"stationnement"}`))
	require.NoError(t, err)
	assert.Equal(t, "stationnement", fields["motif"])

	fields, err = readFields("", nil)
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = readFields(filepath.Join(dir, "missing.json"), nil)
	assert.ErrorContains(t, err, "failed to read fields")

	_, err = readFields("-", strings.NewReader(`[1,2]`))
	assert.ErrorContains(t, err, "failed to parse fields")
}

func TestGenerate(t *testing.T) {
	p := pipeline.New(pipeline.Options{})
	var out bytes.Buffer

	err := generate(context.Background(), p, "amendes", types.Fields{"numero_amende": "<b>12345678</b>"}, &out)
	require.NoError(t, err)

	var result types.GenerationResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Contains(t, result.Lettre.Corps, "12345678")
	assert.NotContains(t, out.String(), "<b>")
}

func TestGenerate_UnknownTool(t *testing.T) {
	var out bytes.Buffer
	err := generate(context.Background(), pipeline.New(pipeline.Options{}), "nope", nil, &out)

	var ute *types.UnknownToolError
	assert.ErrorAs(t, err, &ute)
	assert.Zero(t, out.Len())
}

func TestMergeStats(t *testing.T) {
	total := legal.Stats{BySource: map[string]int{}}
	total = mergeStats(total, legal.Stats{Documents: 2, Chunks: 3, BySource: map[string]int{"legifrance": 2}})
	total = mergeStats(total, legal.Stats{Documents: 1, Chunks: 1, Skipped: 4, BySource: map[string]int{"legifrance": 1, "conseil_etat": 1}})

	assert.Equal(t, legal.Stats{
		Documents: 3, Chunks: 4, Skipped: 4,
		BySource: map[string]int{"legifrance": 3, "conseil_etat": 1},
	}, total)
}

func TestNewApp_Offline(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OUTILS_GENERATION__API_KEY", "")
	t.Setenv("OUTILS_DATABASE__URL", "")

	a, err := newApp(context.Background(), "", true)
	require.NoError(t, err)
	defer a.close()

	assert.Nil(t, a.completer)
	assert.False(t, a.pipeline.HasBackend())
	assert.IsType(t, &legal.MemoryStore{}, a.store)
	require.NotNil(t, a.legal)

	answer, err := a.legal.Search(context.Background(), types.LegalQuery{Question: "préavis"})
	require.NoError(t, err)
	assert.Empty(t, answer.Citations)
}

func TestNewApp_BadConfigFile(t *testing.T) {
	_, err := newApp(context.Background(), filepath.Join(t.TempDir(), "missing.toml"), false)
	assert.Error(t, err)
}
