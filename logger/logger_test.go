package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitializeConsole(t *testing.T) {
	err := Initialize(false)
	require.NoError(t, err)
	assert.NotNil(t, Logger)
	assert.False(t, JSONOutput)
}

func TestInitializeJSON(t *testing.T) {
	err := Initialize(true)
	require.NoError(t, err)
	assert.NotNil(t, Logger)
	assert.True(t, JSONOutput)
}

func TestHelpersSafeBeforeInitialize(t *testing.T) {
	// The package init installs a nop logger, so these must not panic
	Info("info")
	Infof("info %d", 1)
	Infow("info", "k", "v")
	Warnw("warn", "k", "v")
	Errorw("error", "k", "v")
	Debugw("debug", "k", "v")
}

func TestMinimalEncoderLine(t *testing.T) {
	enc := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Date(2025, 1, 2, 13, 14, 15, 0, time.UTC),
		Message: "ingest complete",
	}
	fields := []zapcore.Field{
		zap.Int("created", 7),
		zap.Int("duplicates", 12),
		zap.String("source", "linkedin"),
	}

	buf, err := enc.EncodeEntry(entry, fields)
	require.NoError(t, err)
	line := buf.String()

	assert.Contains(t, line, "13:14:15")
	assert.Contains(t, line, "ingest complete")
	assert.Contains(t, line, "created=7")
	assert.Contains(t, line, "duplicates=12")
	assert.Contains(t, line, "source=linkedin")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestMinimalEncoderErrorPrefix(t *testing.T) {
	enc := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:   zapcore.ErrorLevel,
		Time:    time.Now(),
		Message: "store unreachable",
	}

	buf, err := enc.EncodeEntry(entry, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "error: ")
}
