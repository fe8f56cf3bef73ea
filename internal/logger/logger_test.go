package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	closeFn, err := Init(Options{Enabled: false, LogDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, closeFn())
	assert.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInit_FileAndStderr(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	closeFn, err := Init(Options{Enabled: true, LogDir: dir, Level: slog.LevelDebug, Stderr: &stderr})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = Init(Options{}) })

	Info("replay finished", "trace", "short1", "ops", 12)
	Debug("detail")
	require.NoError(t, closeFn())

	assert.Contains(t, stderr.String(), "replay finished")
	assert.Contains(t, stderr.String(), "trace=short1")

	data, err := os.ReadFile(filepath.Join(dir, logPrefix+time.Now().Format(time.DateOnly)+logSuffix))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "replay finished", rec["msg"])
	assert.Equal(t, float64(12), rec["ops"])
}

func TestInit_LevelFilters(t *testing.T) {
	var stderr bytes.Buffer
	_, err := Init(Options{Enabled: true, Level: slog.LevelWarn, Stderr: &stderr})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = Init(Options{}) })

	Info("hidden")
	Warn("shown")
	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "shown")
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	for _, name := range []string{
		"mmdriver-2024-01-05.log", // stale
		"mmdriver-2024-03-30.log", // recent
		"mmdriver-notadate.log",   // ignored
		"other-2020-01-01.log",    // not ours
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	cleanOldLogs(dir, now)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"mmdriver-2024-03-30.log", "mmdriver-notadate.log", "other-2020-01-01.log"}, names)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	l, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}
