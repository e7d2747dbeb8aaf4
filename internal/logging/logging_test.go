package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestLogger_RedactsSecretKeys(t *testing.T) {
	log, logs := observed()

	log.Info("configured", "gemini_api_key", "AIza-secret", "database_url", "postgres://u:p@h/db", "port", 8000)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", ctx["gemini_api_key"])
	assert.Equal(t, "[REDACTED]", ctx["database_url"])
	assert.EqualValues(t, 8000, ctx["port"])
}

func TestLogger_HashesIdentity(t *testing.T) {
	log, logs := observed()

	log.Warn("fields", "nom", "Dupont")

	ctx := logs.All()[0].ContextMap()
	hashed, ok := ctx["nom"].(string)
	require.True(t, ok)
	assert.Contains(t, hashed, "hash:")
	assert.NotContains(t, hashed, "Dupont")
}

func TestLogger_RedactsNestedMaps(t *testing.T) {
	log, logs := observed()

	log.Debug("nested", "payload", map[string]any{"token": "abc", "tool": "amendes"})

	payload, ok := logs.All()[0].ContextMap()["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "[REDACTED]", payload["token"])
	assert.Equal(t, "amendes", payload["tool"])
}

func TestLogger_WithKeepsRedaction(t *testing.T) {
	log, logs := observed()

	log.With("secret", "x").Error("boom")

	assert.Equal(t, "[REDACTED]", logs.All()[0].ContextMap()["secret"])
}

func TestLogger_WithoutRedaction(t *testing.T) {
	log, logs := observed()

	log.WithoutRedaction().Info("raw", "token", "abc")

	assert.Equal(t, "abc", logs.All()[0].ContextMap()["token"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("dev", "loud")
	assert.Error(t, err)
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		log, err := New(mode, "warn")
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Info("ignored", "k", "v")
	})
}
