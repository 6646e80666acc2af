package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configure(t *testing.T, debug bool, level string, disabled map[string]bool) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, Configure(dir, debug, level, disabled))
	t.Cleanup(CloseAll)
	return dir
}

func readLogs(t *testing.T, dir string, category Category) string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		if strings.Contains(e.Name(), string(category)) {
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			require.NoError(t, err)
			return string(data)
		}
	}
	return ""
}

func TestDisabledLoggingIsNoop(t *testing.T) {
	dir := configure(t, false, "info", nil)
	log := Get(CategoryParser)
	log.Info("should not appear")
	assert.Empty(t, readLogs(t, dir, CategoryParser))
}

func TestEnabledLoggingWritesCategoryFile(t *testing.T) {
	dir := configure(t, true, "info", nil)
	log := Get(CategoryParser)
	log.Info("matched %q", "a cat is a kind of thing")
	CloseAll()

	content := readLogs(t, dir, CategoryParser)
	assert.Contains(t, content, "INFO")
	assert.Contains(t, content, "a cat is a kind of thing")
}

func TestLevelThreshold(t *testing.T) {
	dir := configure(t, true, "warn", nil)
	log := Get(CategoryGenerator)
	log.Info("below threshold")
	log.Warn("at threshold")
	CloseAll()

	content := readLogs(t, dir, CategoryGenerator)
	assert.NotContains(t, content, "below threshold")
	assert.Contains(t, content, "at threshold")
}

func TestDisabledCategory(t *testing.T) {
	dir := configure(t, true, "debug", map[string]bool{"solver": true})
	Get(CategorySolver).Info("silenced")
	Get(CategoryMorph).Info("audible")
	CloseAll()

	assert.Empty(t, readLogs(t, dir, CategorySolver))
	assert.Contains(t, readLogs(t, dir, CategoryMorph), "audible")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	log.Debug("no panic")
	log.Error("no panic")
}
