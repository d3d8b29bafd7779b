package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals points the package at a temp directory for the duration of a test.
func resetGlobals(t *testing.T) {
	t.Helper()

	origDir, origErr, origSession := logDir, initErr, sessionID

	logDir = t.TempDir()
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}
	t.Setenv(LevelEnvVar, "")

	t.Cleanup(func() {
		logDir, initErr, sessionID = origDir, origErr, origSession
		initOnce = sync.Once{}
		sessionIDOnce = sync.Once{}
	})
}

func readLog(t *testing.T, l *Logger) string {
	t.Helper()
	content, err := os.ReadFile(l.LogPath())
	require.NoError(t, err)
	return string(content)
}

func TestNewLogger(t *testing.T) {
	resetGlobals(t)

	logger, err := NewLogger("browser")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "browser", logger.component)
	assert.NotEmpty(t, logger.SessionID())
	assert.FileExists(t, logger.LogPath())

	name := filepath.Base(logger.LogPath())
	assert.True(t, strings.HasSuffix(name, "-webscout.log"), name)
	assert.Contains(t, strings.TrimSuffix(name, "-webscout.log"), "-")
}

func TestLoggerLevels(t *testing.T) {
	resetGlobals(t)

	logger, err := NewLogger("scrape")
	require.NoError(t, err)
	defer logger.Close()

	logger.Debugf("debug %d", 1)
	logger.Infof("info")
	logger.Warnf("warn")
	logger.Errorf("error")

	content := readLog(t, logger)
	for _, want := range []string{
		"[scrape] [DEBUG] debug 1",
		"[scrape] [INFO] info",
		"[scrape] [WARN] warn",
		"[scrape] [ERROR] error",
	} {
		assert.Contains(t, content, want)
	}
}

func TestLoggerMinLevelFromEnv(t *testing.T) {
	resetGlobals(t)
	t.Setenv(LevelEnvVar, "warn")

	logger, err := NewLogger("quiet")
	require.NoError(t, err)
	defer logger.Close()

	logger.Debugf("hidden debug")
	logger.Infof("hidden info")
	logger.Warnf("shown warn")

	content := readLog(t, logger)
	assert.NotContains(t, content, "hidden")
	assert.Contains(t, content, "shown warn")
}

func TestSharedSessionFile(t *testing.T) {
	resetGlobals(t)

	a, err := NewLogger("a")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewLogger("b")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.SessionID(), b.SessionID())
	assert.Equal(t, a.LogPath(), b.LogPath())

	a.Infof("from a")
	b.With("child").Infof("from b")

	content := readLog(t, a)
	assert.Contains(t, content, "[a] [INFO] from a")
	assert.Contains(t, content, "[b.child] [INFO] from b")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warning ", LevelWarn},
		{"error", LevelError},
		{"", LevelDebug},
		{"bogus", LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNopAndNilLoggers(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Errorf("dropped %s", "x")
		var l *Logger
		l.Infof("nil receiver")
	})
	assert.NoError(t, NewNop().Close())
}

func TestCloseTwice(t *testing.T) {
	resetGlobals(t)

	logger, err := NewLogger("close")
	require.NoError(t, err)
	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestGetLogDirectory(t *testing.T) {
	resetGlobals(t)

	dir, err := GetLogDirectory()
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, GetSessionID(), GetSessionID())
}
