package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel(" warning "))
	assert.Equal(t, LogLevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
	assert.Equal(t, "WARN", LogLevelWarn.String())
}

func TestZapLogger_WritesStructuredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	logger, err := NewZapLogger("lexbrief", LoggerOptions{
		Level:      LogLevelInfo,
		Structured: true,
		Outputs:    []string{path},
	})
	require.NoError(t, err)

	logger.Debug("hidden below level")
	logger.Info("chat history loaded", "sessions", 3)
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `"msg":"chat history loaded"`)
	assert.Contains(t, out, `"sessions":3`)
	assert.Contains(t, out, `"service":"lexbrief"`)
	assert.NotContains(t, out, "hidden below level")
}
