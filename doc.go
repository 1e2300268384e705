// Package koa implements the request-handling core of a minimalist HTTP
// middleware framework: cascading middleware composition, a per-request
// context that unifies request/response state, and a response materializer
// that turns whatever body the application staged into a concrete wire
// response.
//
// # Overview
//
// An application is an ordered list of middleware compiled into a single
// dispatch function. Each middleware runs code on the way downstream, hands
// off to the rest of the pipeline by calling next, and resumes on the way
// back upstream once everything downstream completed:
//
//	app := koa.New()
//
//	app.Use(func(c *koa.Context, next koa.Next) error {
//	    start := time.Now()
//	    err := next() // run the rest of the pipeline
//	    log.Printf("%s %s took %v", c.Method(), c.Path(), time.Since(start))
//	    return err
//	})
//
//	app.Use(func(c *koa.Context, next koa.Next) error {
//	    c.SetBody("Hello World")
//	    return nil
//	})
//
//	http.ListenAndServe(":3000", app.Handler())
//
// Not calling next skips everything downstream; that is the intended
// short-circuit mechanism. Calling next twice in one invocation fails with
// [ErrNextCalledTwice].
//
// # Staged responses
//
// Middleware never writes to the transport directly. Status, headers and body
// are staged on the [Response] facade and written only after the pipeline
// resolves, so upstream-phase code can still rewrite all of them. The status
// defaults to 404 until set explicitly or implied by setting a body. The body
// is a tagged variant ([Body]): absent, text, bytes, a piped stream, or a
// structured value serialized as JSON.
//
// Applications that need the raw transport (websockets, custom streaming)
// call [Response.Takeover], which disables materialization entirely.
//
// # Error handling
//
// Middleware signal failure by returning an error; [Context.Throw] builds one
// with an HTTP status. Failures unwind the pipeline without running enclosing
// upstream code and reach the error boundary, which writes a normalized
// plain-text error response when the headers are still unsent and reports the
// failure otherwise. Errors carrying a status of 404, or marked exposable,
// are considered expected and are not reported by default. Register observers
// with [Application.OnError] to replace the default reporting, or construct
// the application with [WithSilent] to suppress it.
//
// # Request-scoped state
//
// Every request owns a [Context] with a free-form state bag for values that
// cross middleware boundaries. The Context is passed explicitly; as an
// opt-in convenience, [WithStash] additionally stores it in the request's
// context.Context chain where [FromContext] can find it. Stashed lookups are
// always isolated per request, even under full concurrency.
//
// The batteries-included wiring (environment config, zap logging, lifecycle
// management) lives in the koaapp subpackage.
package koa
