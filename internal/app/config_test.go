package app_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enrikb/nitrokey-3-firmware/internal/app"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{Command: app.CmdCheck})
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.WorkDir)
	assert.Equal(t, "matrix.hcl", cfg.MatrixPath)
	assert.Equal(t, "artifacts", cfg.OutDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewConfigNormalizesLogSettings(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{
		Command:   app.CmdCheck,
		LogFormat: "JSON",
		LogLevel:  "WARN",
	})
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestNewConfigRejectsBadLogSettings(t *testing.T) {
	_, err := app.NewConfig(app.Config{Command: app.CmdCheck, LogFormat: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-format")

	_, err = app.NewConfig(app.Config{Command: app.CmdCheck, LogLevel: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-level")
}

func TestNewConfigAnchorsRelativePaths(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{
		Command:    app.CmdBinaries,
		WorkDir:    "/src/fw",
		MatrixPath: "ci/matrix.hcl",
		OutDir:     "/tmp/dist",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/src/fw", "ci/matrix.hcl"), cfg.MatrixPath)
	assert.Equal(t, "/tmp/dist", cfg.OutDir, "absolute paths stay untouched")
}
