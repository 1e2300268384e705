// Package example implements example middleware in an outside package.
package example

import (
	"log/slog"

	"github.com/rs/xid"

	"github.com/ppker/koa"
)

// stateKey scopes middleware values in the context's state bag.
const (
	stateKeyRequestID = "example.request_id"
	stateKeyLogger    = "example.slog"
)

// RequestID tags every request with a unique id, exposed both to downstream
// middleware via the state bag and to the client via a response header.
func RequestID() koa.Middleware {
	return func(c *koa.Context, next koa.Next) error {
		id := c.Request().Get("X-Request-Id")
		if id == "" {
			id = xid.New().String()
		}

		c.Set(stateKeyRequestID, id)
		c.Response().Set("X-Request-Id", id)

		return next()
	}
}

// RequestIDOf returns the request id set by RequestID, or empty.
func RequestIDOf(c *koa.Context) string {
	v, _ := c.Get(stateKeyRequestID)
	id, _ := v.(string)

	return id
}

// Logger provides an example for middleware that adds a logger to the state bag.
func Logger(logs *slog.Logger) koa.Middleware {
	return func(c *koa.Context, next koa.Next) error {
		logs := logs.With(slog.String("method", c.Method()), slog.String("path", c.Path()))

		c.Set(stateKeyLogger, logs)

		return next()
	}
}

// Log returns the logger stored by Logger, or nil.
func Log(c *koa.Context) *slog.Logger {
	v, _ := c.Get(stateKeyLogger)
	logs, _ := v.(*slog.Logger)

	return logs
}
