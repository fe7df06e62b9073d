package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "habits.log")

	logger, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)
	logger.Info("persisted", zap.String("backend", "file"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"persisted"`)
	assert.Contains(t, string(data), `"backend":"file"`)
}

func TestNew_Levels(t *testing.T) {
	dir := t.TempDir()

	t.Run("verbose enables debug", func(t *testing.T) {
		logger, err := New(Options{Level: "warn", Verbose: true, File: filepath.Join(dir, "v.log")})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("quiet raises to error", func(t *testing.T) {
		logger, err := New(Options{Level: "info", Quiet: true, File: filepath.Join(dir, "q.log")})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
		assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("unknown level is an error", func(t *testing.T) {
		_, err := New(Options{Level: "loud"})
		assert.ErrorContains(t, err, "parsing log level")
	})
}
