package koa

import (
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrorObserver is notified whenever the error boundary handles a failure.
// The context is nil for failures without a request, such as transport-level
// errors surfacing outside a pipeline.
type ErrorObserver func(err error, c *Context)

// Application owns the ordered middleware list and drives one Context per
// inbound request through the composed pipeline, the response materializer and
// the error boundary.
type Application struct {
	logs   Logger
	silent bool
	stash  bool

	mu        sync.Mutex
	mws       []Middleware
	composed  DispatchFunc
	observers []ErrorObserver
}

// Option configures an Application.
type Option func(*Application)

// WithLogger replaces the default standard-library logger.
func WithLogger(logs Logger) Option {
	return func(a *Application) { a.logs = logs }
}

// WithSilent suppresses all default error reporting. Registered error
// observers are still notified.
func WithSilent() Option {
	return func(a *Application) { a.silent = true }
}

// WithStash stores each request's *Context in its context.Context chain so
// that FromContext can retrieve it without explicit passing. Off by default.
func WithStash() Option {
	return func(a *Application) { a.stash = true }
}

// New creates an Application with the given options.
func New(opts ...Option) *Application {
	app := &Application{logs: NewStdLogger(log.Default())}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// Use appends middleware to the pipeline and invalidates the composed
// dispatch so the next request picks up the new list. A nil middleware is a
// contract violation and panics. Use must not be called concurrently with
// in-flight dispatches.
func (a *Application) Use(mws ...Middleware) *Application {
	for _, mw := range mws {
		if mw == nil {
			panic("koa: middleware must not be nil")
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.mws = append(a.mws, mws...)
	a.composed = nil

	return a
}

// OnError registers an error observer. Observers replace the default
// reporting policy and are invoked synchronously in registration order, for
// every handled failure including 404s and exposed errors.
func (a *Application) OnError(fn ErrorObserver) {
	if fn == nil {
		panic("koa: error observer must not be nil")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.observers = append(a.observers, fn)
}

// Handler returns the request entry point. It can be obtained once and reused
// for every request, and is safe for concurrent use.
func (a *Application) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.handleRequest(a.createContext(w, r))
	})
}

// dispatcher returns the composed pipeline, re-composing at most once per
// registration change. Requests already dispatched keep the immutable func
// they started with.
func (a *Application) dispatcher() DispatchFunc {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.composed == nil {
		a.composed = Compose(a.mws...)
	}

	return a.composed
}

// handleRequest drives one context through the pipeline. The response status
// starts out as 404 until middleware says otherwise. Failures, including
// recovered panics and early connection termination, go to the error boundary.
func (a *Application) handleRequest(c *Context) {
	if err := a.invoke(c); err != nil {
		a.handleError(err, c)
		return
	}

	if cerr := c.ctx.Err(); cerr != nil && !c.res.wroteHeader && !c.res.bypass {
		a.handleError(errors.Wrap(cerr, "koa: connection closed prematurely"), c)
		return
	}

	// materialization failures take the same boundary as pipeline errors:
	// a best-effort error response when the headers are unsent, report-only
	// once bytes went out.
	if err := respond(c); err != nil {
		a.handleError(err, c)
	}
}

// invoke runs the composed pipeline, converting panics into normalized errors.
func (a *Application) invoke(c *Context) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = normalizePanic(v)
		}
	}()

	return a.dispatcher()(c)
}

// handleError is the error boundary: it reports the failure and writes a
// best-effort error response when the transport still allows one.
func (a *Application) handleError(err error, c *Context) {
	if err == nil {
		return
	}

	a.report(err, c)

	if c != nil {
		a.respondError(err, c)
	}
}

// report notifies registered observers, or falls back to the default policy:
// expected errors (404 or exposed) and silent applications stay quiet,
// everything else reaches the Logger with a stack trace.
func (a *Application) report(err error, c *Context) {
	a.mu.Lock()
	observers := a.observers
	a.mu.Unlock()

	if len(observers) > 0 {
		for _, fn := range observers {
			fn(err, c)
		}

		return
	}

	if a.silent || StatusOf(err) == http.StatusNotFound || ExposedOf(err) {
		return
	}

	a.logs.LogUnhandledError(err)
}

// respondError writes the normalized default error response. When the headers
// already went out, or the application took over the transport, reporting is
// all that happens.
func (a *Application) respondError(err error, c *Context) {
	res := c.res
	if res.bypass || !res.Writable() {
		return
	}

	// drop everything the application staged, except headers the error
	// itself insists on.
	res.resetHeaders(headersOf(err))

	status := StatusOf(err)
	if status == 0 {
		status = http.StatusInternalServerError
	}

	msg := http.StatusText(status)
	if ExposedOf(err) {
		msg = errMessage(err)
	}

	res.header.Set("Content-Type", "text/plain; charset=utf-8")
	res.header.Set("Content-Length", strconv.Itoa(len(msg)))
	res.writeHeader(status)

	if c.req.Method() == http.MethodHead {
		return
	}

	if _, werr := res.raw.Write([]byte(msg)); werr != nil {
		a.logs.LogRespondError(errors.Wrap(werr, "koa: write error response"))
	}
}

// errMessage returns the client-facing text of an exposed error.
func errMessage(err error) string {
	if herr, ok := asError(err); ok {
		return herr.Message()
	}

	return err.Error()
}
