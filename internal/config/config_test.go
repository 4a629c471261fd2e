package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "_processed", cfg.Output.Suffix)
	assert.Equal(t, 3.0, cfg.Tuning.ClipLimitMax)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: debug
  format: json
output:
  suffix: _enhanced
tuning:
  clip_limit_max: 4.0
  denoise_skip_below: 1.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "_enhanced", cfg.Output.Suffix)
	assert.Equal(t, 4.0, cfg.Tuning.ClipLimitMax)
	assert.Equal(t, 1.5, cfg.Tuning.DenoiseSkipBelow)

	// Untouched fields keep their defaults.
	assert.Equal(t, 1.0, cfg.Tuning.ClipLimitMin)
	assert.Equal(t, Default().Tuning.SharpenBandEdges, cfg.Tuning.SharpenBandEdges)
}

func TestLoadRejectsInvalidTuning(t *testing.T) {
	path := writeConfigFile(t, `
tuning:
  clip_limit_min: 5.0
  clip_limit_max: 2.0
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}
