package koaapp

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerLevel(t *testing.T) {
	env := BaseEnvironment{LogLevel: zapcore.WarnLevel}

	logs, err := NewLogger(env)
	require.NoError(t, err)

	assert.False(t, logs.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logs.Core().Enabled(zapcore.WarnLevel))
}

func TestKoaLoggerReporting(t *testing.T) {
	core, observed := observer.New(zapcore.ErrorLevel)
	logs := NewKoaLogger(zap.New(core))

	logs.LogUnhandledError(errors.New("boom"))
	logs.LogRespondError(errors.New("pipe broke"))

	entries := observed.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "unhandled error", entries[0].Message)
	assert.Equal(t, "koa.app", entries[0].LoggerName)
	assert.Contains(t, entries[0].ContextMap()["stack"], "boom")

	assert.Equal(t, "error while writing response", entries[1].Message)
}
