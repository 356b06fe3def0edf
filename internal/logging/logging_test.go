package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "questflow.log")
	logger, err := NewFile(path, "debug")
	require.NoError(t, err)

	logger.Debug("flow loaded", zap.Int("rows", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"flow loaded"`)
	assert.Contains(t, string(data), `"rows":3`)
}

func TestNewFileRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questflow.log")
	logger, err := NewFile(path, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestInvalidLevel(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
	_, err = NewConsole("loud")
	assert.Error(t, err)
}
