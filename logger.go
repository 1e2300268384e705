package koa

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states. It is the
// default reporting sink of the error boundary when no error observer is
// registered.
type Logger interface {
	LogUnhandledError(err error)
	LogRespondError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledError(err error) {
	l.Logger.Printf("koa: unhandled error:\n  %+v", err)
}

func (l stdLogger) LogRespondError(err error) {
	l.Logger.Printf("koa: error while writing response: %s", err)
}

func NewStdLogger(l *log.Logger) Logger {
	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledError int64
	NumLogRespondError   int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledError, 1)
	if l.tb != nil {
		l.tb.Logf("koa: unhandled error:\n  %+v", err)
	}
}

func (l *TestLogger) LogRespondError(err error) {
	atomic.AddInt64(&l.NumLogRespondError, 1)
	if l.tb != nil {
		l.tb.Logf("koa: error while writing response: %s", err)
	}
}

var _ Logger = &TestLogger{}
