// Package koaapp provides batteries-included wiring for koa applications:
// environment-driven configuration, zap logging and a lifecycle-managed HTTP
// server around an application's request handler.
package koaapp

import (
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must
// implement. Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	logLevel() zapcore.Level
	silent() bool
}

// BaseEnvironment contains the required environment variables. Embed this in
// your custom environment struct.
type BaseEnvironment struct {
	Port        int           `env:"KOA_PORT" envDefault:"3000"`
	ServiceName string        `env:"KOA_SERVICE_NAME,required"`
	LogLevel    zapcore.Level `env:"KOA_LOG_LEVEL" envDefault:"info"`
	// Silent suppresses the application's default error reporting, matching
	// koa.WithSilent.
	Silent bool `env:"KOA_SILENT" envDefault:"false"`
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) silent() bool {
	return e.Silent
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
