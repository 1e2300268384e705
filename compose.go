package koa

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Next is the downstream continuation handed to each middleware. Calling it
// runs the remainder of the pipeline and returns once everything downstream
// has completed, so code after the call runs in the upstream phase. Not
// calling it skips everything downstream.
type Next func() error

// Middleware is one stage of the request pipeline. It may do work before
// delegating via next (downstream phase) and after next returns (upstream
// phase). Errors returned here, directly or from next, unwind the pipeline to
// the application's error boundary.
type Middleware func(c *Context, next Next) error

// DispatchFunc runs a composed pipeline against a single request context.
type DispatchFunc func(c *Context) error

// ErrNextCalledTwice is returned when a middleware invokes its downstream
// continuation more than once in a single invocation.
var ErrNextCalledTwice = errors.New("koa: next() called multiple times")

// Compose builds a single dispatch function from an ordered middleware list.
// Composing never invokes any middleware; only dispatching does. The returned
// func captures its own copy of the list and is safe for concurrent dispatch
// by many in-flight requests. An empty list composes to a no-op success.
func Compose(mws ...Middleware) DispatchFunc {
	stack := slices.Clone(mws)

	var dispatch func(c *Context, i int) error
	dispatch = func(c *Context, i int) error {
		if i >= len(stack) {
			return nil
		}

		called := false
		next := func() error {
			if called {
				return errors.WithStack(ErrNextCalledTwice)
			}

			called = true

			return dispatch(c, i+1)
		}

		return stack[i](c, next)
	}

	return func(c *Context) error {
		return dispatch(c, 0)
	}
}
