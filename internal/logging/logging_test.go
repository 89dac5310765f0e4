package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledDiscards(t *testing.T) {
	c, err := Init(Options{})
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInit_WritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	c, err := Init(Options{Enabled: true, Dir: dir, Level: slog.LevelDebug})
	require.NoError(t, err)
	L.Debug("hello", "k", "v")
	require.NoError(t, c.Close())
	t.Cleanup(func() { L = Discard() })

	b, err := os.ReadFile(filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"msg":"hello"`))
}

func TestCleanOldLogs_RemovesExpiredOnly(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := filepath.Join(dir, logPrefix+"2026-01-01"+logSuffix)
	fresh := filepath.Join(dir, logPrefix+"2026-02-28"+logSuffix)
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	cleanOldLogs(dir, now)

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
