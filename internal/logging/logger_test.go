package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDisabledByDefault(t *testing.T) {
	t.Cleanup(CloseAll)
	require.NoError(t, Initialize(Options{}, t.TempDir()))

	assert.False(t, IsDebugMode())
	for _, cat := range AllCategories {
		assert.False(t, IsCategoryEnabled(cat), "category %s", cat)
	}

	// No-op loggers must be safe to call.
	Get(CategoryStore).Info("ignored %d", 1)
	Get(CategoryStore).With("k", "v").Error("ignored")
}

func TestCategoriesRouteToNamedLoggers(t *testing.T) {
	t.Cleanup(CloseAll)
	core, logs := observer.New(zapcore.DebugLevel)
	install(Options{DebugMode: true, Level: "debug"}, core, nil)

	Store("loaded %s", "resume.yaml")
	SessionDebug("cursor=%d", 2)
	ServerError("boom: %v", "eof")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "store", entries[0].LoggerName)
	assert.Equal(t, "loaded resume.yaml", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "session", entries[1].LoggerName)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestCategoryFilter(t *testing.T) {
	t.Cleanup(CloseAll)
	core, logs := observer.New(zapcore.DebugLevel)
	install(Options{
		DebugMode:  true,
		Categories: map[string]bool{"ui": false},
	}, core, nil)

	assert.False(t, IsCategoryEnabled(CategoryUI))
	assert.True(t, IsCategoryEnabled(CategoryStore), "unlisted categories default to enabled")

	UIDebug("frame")
	Store("kept")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestWithAddsFields(t *testing.T) {
	t.Cleanup(CloseAll)
	core, logs := observer.New(zapcore.DebugLevel)
	install(Options{DebugMode: true}, core, nil)

	Get(CategoryServer).With("session", "abc").Info("connected")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["session"])
}

func TestInitializeWritesFile(t *testing.T) {
	t.Cleanup(CloseAll)
	dir := t.TempDir()
	require.NoError(t, Initialize(Options{DebugMode: true, Level: "debug", File: "logs/folio.log"}, dir))
	assert.True(t, IsDebugMode())

	Boot("hello from test")
	CloseAll()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "folio.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello from test"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}
