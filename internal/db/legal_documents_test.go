package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinceParam(t *testing.T) {
	assert.Nil(t, sinceParam(time.Time{}))

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := sinceParam(since)
	require.NotNil(t, got)
	assert.True(t, got.Equal(since))
}

func TestLegalStoreName(t *testing.T) {
	assert.Equal(t, "postgres", NewLegalStore(nil).Name())
}

func TestSchemaUsesFrenchSearch(t *testing.T) {
	assert.Contains(t, schema, "to_tsvector('french'")
	assert.Contains(t, schema, "UNIQUE (url, title)")
	assert.Contains(t, searchDocuments, "plainto_tsquery('french', $1)")
}
