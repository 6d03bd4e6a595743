package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedauth/internal/config"
)

func restoreGlobals(t *testing.T) {
	prevLogger, prevLevel, prevCtx := log.Logger, zerolog.GlobalLevel(), zerolog.DefaultContextLogger
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
		zerolog.DefaultContextLogger = prevCtx
	})
}

func TestInitWriter_JSON(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	InitWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	log.Info().Msg("dropped")
	log.Warn().Str("k", "v").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "v", line["k"])
}

func TestInitWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	InitWriter(config.LogConfig{Level: "verbose", Format: "json"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestInitWriter_ContextFallback(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	InitWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)
	log.Ctx(context.Background()).Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}

func TestInitWriter_Console(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	InitWriter(config.LogConfig{Level: "debug", Format: "console"}, &buf)
	log.Debug().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}
