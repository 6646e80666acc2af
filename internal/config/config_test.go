package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "imaginarium", cfg.Name)
	assert.Equal(t, 4, cfg.Solver.Retries)
	assert.Equal(t, 5*time.Second, cfg.Solver.ParsedTimeout())
	assert.Equal(t, "definitions", cfg.Definitions.Dir)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Solver.Retries)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imaginarium.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: zoo
solver:
  retries: 9
  timeout: 30s
definitions:
  dir: /tmp/defs
logging:
  debug_mode: true
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "zoo", cfg.Name)
	assert.Equal(t, 9, cfg.Solver.Retries)
	assert.Equal(t, 30*time.Second, cfg.Solver.ParsedTimeout())
	assert.Equal(t, "/tmp/defs", cfg.Definitions.Dir)
	assert.True(t, cfg.Logging.DebugMode)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IMAG_SOLVER_RETRIES", "7")
	t.Setenv("IMAG_SOLVER_TIMEOUT", "2s")
	t.Setenv("IMAG_DEFINITIONS_DIR", "/elsewhere")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Solver.Retries)
	assert.Equal(t, 2*time.Second, cfg.Solver.ParsedTimeout())
	assert.Equal(t, "/elsewhere", cfg.Definitions.Dir)
}

func TestBadTimeoutFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Solver.Timeout = "never"
	assert.Equal(t, 5*time.Second, cfg.Solver.ParsedTimeout())
}
