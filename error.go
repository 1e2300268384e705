package koa

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Error is an HTTP-aware error that travels through the middleware pipeline to
// the error boundary. It carries a status code, an expose flag deciding
// whether the message may reach the client, and an optional header map that
// survives the header reset of the default error response.
type Error struct {
	status int
	expose bool
	header http.Header
	err    error
}

// NewError wraps err with an HTTP status code. Messages of 4xx errors are
// exposed to the client by default, 5xx messages are not.
func NewError(status int, err error) *Error {
	if http.StatusText(status) == "" {
		status = http.StatusInternalServerError
	}

	return &Error{
		status: status,
		expose: status < http.StatusInternalServerError,
		err:    err,
	}
}

// NewErrorf is shorthand for NewError with a formatted message.
func NewErrorf(status int, format string, args ...any) *Error {
	return NewError(status, errors.Newf(format, args...))
}

// Status returns the HTTP status code of the error.
func (e *Error) Status() int { return e.status }

// Expose reports whether the error message is safe to reveal to the client.
func (e *Error) Expose() bool { return e.expose }

// WithExpose overrides the expose flag.
func (e *Error) WithExpose(expose bool) *Error {
	e.expose = expose
	return e
}

// WithHeader adds a header that is kept on the default error response even
// though all application-set headers are cleared.
func (e *Error) WithHeader(key, value string) *Error {
	if e.header == nil {
		e.header = make(http.Header)
	}

	e.header.Set(key, value)

	return e
}

// Header returns the headers to keep on the error response, possibly nil.
func (e *Error) Header() http.Header { return e.header }

func (e *Error) Error() string {
	status := http.StatusText(e.status)
	if status == "" {
		status = "Unknown"
	}

	if e.err == nil {
		return status
	}

	return fmt.Sprintf("%s: %s", status, e.err.Error())
}

// Message returns the client-facing message: the underlying error's text, or
// the canonical status phrase when there is none.
func (e *Error) Message() string {
	if e.err != nil {
		return e.err.Error()
	}

	return http.StatusText(e.status)
}

func (e *Error) Unwrap() error { return e.err }

// statusCoder and statuser allow errors from other packages to carry an HTTP
// status without depending on this one. Both spellings are probed because both
// are common in the wild.
type statusCoder interface{ StatusCode() int }

type statuser interface{ Status() int }

// StatusOf extracts the HTTP status code from err. It honors, in order, a
// wrapped *Error, a StatusCode() int method and a Status() int method. The
// code is only trusted when it maps to a known status phrase. Zero means no
// usable status was found.
func StatusOf(err error) int {
	if herr, ok := asError(err); ok {
		return herr.Status()
	}

	var sc statusCoder
	if errors.As(err, &sc) && http.StatusText(sc.StatusCode()) != "" {
		return sc.StatusCode()
	}

	var st statuser
	if errors.As(err, &st) && http.StatusText(st.Status()) != "" {
		return st.Status()
	}

	return 0
}

// exposer marks errors whose message is safe to show to the client.
type exposer interface{ Expose() bool }

// ExposedOf reports whether the error is explicitly marked safe to reveal.
func ExposedOf(err error) bool {
	var ex exposer

	return errors.As(err, &ex) && ex.Expose()
}

// headersOf returns the header map an error wants preserved on the default
// error response, or nil.
func headersOf(err error) http.Header {
	if herr, ok := asError(err); ok {
		return herr.Header()
	}

	return nil
}

// asError uses errors.As to unwrap any error and look for an *Error.
func asError(err error) (*Error, bool) {
	var herr *Error
	ok := errors.As(err, &herr)

	return herr, ok
}

// normalizePanic turns a recovered panic value into an error. Error values
// pass through unchanged, anything else is rejected by wrapping it in a
// descriptive internal error that embeds a serialized form of the value.
func normalizePanic(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	repr, jerr := json.Marshal(v)
	if jerr != nil {
		repr = []byte(fmt.Sprintf("%#v", v))
	}

	return errors.Newf("non-error thrown: %s", repr)
}
