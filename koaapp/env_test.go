package koaapp_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ppker/koa/koaapp"
)

func TestParseEnvDefaults(t *testing.T) {
	t.Setenv("KOA_SERVICE_NAME", "test-service")

	env, err := koaapp.ParseEnv[koaapp.BaseEnvironment]()()
	require.NoError(t, err)

	assert.Equal(t, 3000, env.Port)
	assert.Equal(t, "test-service", env.ServiceName)
	assert.Equal(t, zapcore.InfoLevel, env.LogLevel)
	assert.False(t, env.Silent)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("KOA_SERVICE_NAME", "test-service")
	t.Setenv("KOA_PORT", "8080")
	t.Setenv("KOA_LOG_LEVEL", "debug")
	t.Setenv("KOA_SILENT", "true")

	env, err := koaapp.ParseEnv[koaapp.BaseEnvironment]()()
	require.NoError(t, err)

	assert.Equal(t, 8080, env.Port)
	assert.Equal(t, zapcore.DebugLevel, env.LogLevel)
	assert.True(t, env.Silent)
}

func TestParseEnvMissingRequired(t *testing.T) {
	// t.Setenv registers the restore, unsetting leaves the variable absent
	// for the duration of this test only.
	t.Setenv("KOA_SERVICE_NAME", "placeholder")
	require.NoError(t, os.Unsetenv("KOA_SERVICE_NAME"))

	_, err := koaapp.ParseEnv[koaapp.BaseEnvironment]()()
	require.ErrorContains(t, err, "failed to parse environment")
}

// customEnv is an application environment with fields beyond BaseEnvironment.
type customEnv struct {
	koaapp.BaseEnvironment

	DatabaseURL string `env:"DATABASE_URL,required"`
}

func TestParseEnvCustom(t *testing.T) {
	t.Setenv("KOA_SERVICE_NAME", "test-service")
	t.Setenv("DATABASE_URL", "postgres://localhost/app")

	env, err := koaapp.ParseEnv[customEnv]()()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/app", env.DatabaseURL)
	assert.Equal(t, "test-service", env.ServiceName)
}
