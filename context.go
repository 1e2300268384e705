package koa

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Context aggregates everything one in-flight request owns: the two facades,
// a request-scoped state bag and the error-signaling entry point. One Context
// is created per inbound request and must not be retained after the response
// is finalized.
type Context struct {
	app *Application
	ctx context.Context

	req *Request
	res *Response

	state map[string]any
	path  string
}

// App returns the owning application.
func (c *Context) App() *Application { return c.app }

// Context returns the request-scoped context.Context. It is canceled when the
// client goes away or the request completes.
func (c *Context) Context() context.Context { return c.ctx }

// Request returns the inbound facade.
func (c *Context) Request() *Request { return c.req }

// Response returns the outbound facade.
func (c *Context) Response() *Response { return c.res }

// Path returns the request path as captured at context creation, unaffected
// by later URL rewrites.
func (c *Context) Path() string { return c.path }

// Method returns the request method.
func (c *Context) Method() string { return c.req.Method() }

// State returns the freely mutable request-scoped key-value bag. It is never
// shared across requests.
func (c *Context) State() map[string]any { return c.state }

// Get returns a state bag value and whether it was set.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.state[key]
	return v, ok
}

// Set stores a state bag value.
func (c *Context) Set(key string, v any) { c.state[key] = v }

// MustGet returns a state bag value and panics when it was never set.
func (c *Context) MustGet(key string) any {
	v, ok := c.state[key]
	if !ok {
		panic("koa: no state value for key " + key)
	}

	return v
}

// Status returns the staged response status.
func (c *Context) Status() int { return c.res.Status() }

// SetStatus stages the response status.
func (c *Context) SetStatus(code int) { c.res.SetStatus(code) }

// Body returns the staged response body.
func (c *Context) Body() Body { return c.res.Body() }

// SetBody stages the response body, see Response.SetBody.
func (c *Context) SetBody(v any) { c.res.SetBody(v) }

// Throw returns a client-facing error with the given status, for the
// middleware to return into the pipeline.
func (c *Context) Throw(status int, msg string) error {
	return NewError(status, errors.New(msg))
}

// Throwf is Throw with a formatted message.
func (c *Context) Throwf(status int, format string, args ...any) error {
	return NewErrorf(status, format, args...)
}

// Fail forwards an out-of-band failure to the application's error boundary,
// for code running outside the pipeline's return path (stream callbacks,
// taken-over writers). A best-effort error response is still written when the
// headers are unsent; otherwise the observers are only notified.
func (c *Context) Fail(err error) {
	if err == nil {
		return
	}

	c.app.handleError(err, c)
}

// stashKey carries the *Context through the request's context chain when the
// application runs with WithStash.
type stashKey struct{}

// FromContext returns the Context stashed in ctx, or nil. It only finds one
// when the owning application was configured with WithStash; explicit passing
// remains the primary propagation path.
func FromContext(ctx context.Context) *Context {
	c, _ := ctx.Value(stashKey{}).(*Context)
	return c
}

// createContext allocates the per-request aggregate and wires the facades to
// each other. Called exactly once per inbound request.
func (a *Application) createContext(w http.ResponseWriter, r *http.Request) *Context {
	ctx := r.Context()

	c := &Context{
		app:   a,
		state: make(map[string]any),
		path:  r.URL.Path,
	}

	if a.stash {
		ctx = context.WithValue(ctx, stashKey{}, c)
		r = r.WithContext(ctx)
	}

	res := newResponse(w, ctx)
	req := &Request{raw: r, res: res}
	res.req = req

	c.ctx = ctx
	c.req = req
	c.res = res

	return c
}
