package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, levelFor(0))
	assert.Equal(t, zerolog.InfoLevel, levelFor(1))
	assert.Equal(t, zerolog.DebugLevel, levelFor(2))
	assert.Equal(t, zerolog.TraceLevel, levelFor(3))
	assert.Equal(t, zerolog.TraceLevel, levelFor(7))
}

func TestGetLogFilePath(t *testing.T) {
	t.Run("explicit_override", func(t *testing.T) {
		t.Setenv(EnvLogFile, "/tmp/custom/spinflip.log")
		assert.Equal(t, "/tmp/custom/spinflip.log", getLogFilePath())
	})

	t.Run("xdg_state_home", func(t *testing.T) {
		t.Setenv(EnvLogFile, "")
		t.Setenv("XDG_STATE_HOME", "/tmp/state")
		assert.Equal(t, filepath.Join("/tmp/state", "spinflip", "spinflip.log"), getLogFilePath())
	})
}

func TestSetupLoggerWithOutput_WritesConsoleAndFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "spinflip.log")
	t.Setenv(EnvLogFile, logPath)
	defer func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) }()

	var console bytes.Buffer
	SetupLoggerWithOutput(1, &console)

	log.Info().Str("stage", "classify").Msg("hello from test")

	assert.Contains(t, console.String(), "hello from test")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stage":"classify"`)
}

func TestSetupLoggerWithOutput_QuietByDefault(t *testing.T) {
	t.Setenv(EnvLogFile, filepath.Join(t.TempDir(), "spinflip.log"))
	defer func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) }()

	var console bytes.Buffer
	SetupLoggerWithOutput(0, &console)

	log.Info().Msg("not shown")
	log.Warn().Msg("shown")

	assert.NotContains(t, console.String(), "not shown")
	assert.Contains(t, console.String(), "shown")
}

func TestGetLogger_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	logger := GetLogger("report")
	logger.Info().Msg("component message")

	assert.Contains(t, buf.String(), `"component":"report"`)
}

func TestLogDuration(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	LogDuration(time.Now().Add(-5*time.Second), "test-operation")

	output := buf.String()
	assert.Contains(t, output, "test-operation")
	assert.Contains(t, output, "duration")
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := LogOperationStart(logger, "write-reports")
	done()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Operation started")
	assert.Contains(t, lines[1], "Operation completed")
}
