package koaapp

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppker/koa"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding suitable for log aggregation.
// KOA_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledError(err error) {
	l.Logger.Error("unhandled error",
		zap.Error(err),
		zap.String("stack", fmt.Sprintf("%+v", err)))
}

func (l zapLogger) LogRespondError(err error) {
	l.Logger.Error("error while writing response", zap.Error(err))
}

// NewKoaLogger adapts a zap logger into the koa.Logger reporting sink.
func NewKoaLogger(l *zap.Logger) koa.Logger {
	return zapLogger{l.Named("koa").Named("app")}
}
