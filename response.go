package koa

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/http/httpguts"
)

// ErrHeaderWritten is returned by strict mutators once the headers have been
// handed to the transport.
var ErrHeaderWritten = errors.New("koa: headers already written")

// Response wraps the outbound transport. Headers, status and body are staged
// on the facade and only materialize on the wire after the pipeline resolves,
// so middleware can rewrite any of them on the way back up. Once the headers
// are written, mutation through the facade becomes a no-op.
type Response struct {
	raw    http.ResponseWriter
	req    *Request
	reqCtx context.Context

	header http.Header
	status int

	body        Body
	explicitNil bool

	length    int64
	hasLength bool

	explicitStatus bool
	bypass         bool
	wroteHeader    bool
}

func newResponse(w http.ResponseWriter, reqCtx context.Context) *Response {
	return &Response{
		raw:    w,
		reqCtx: reqCtx,
		header: make(http.Header),
		status: http.StatusNotFound,
	}
}

// Request returns the paired request facade.
func (r *Response) Request() *Request { return r.req }

// Header returns the staged header map. It is copied to the transport when the
// response is written.
func (r *Response) Header() http.Header { return r.header }

// Get returns the first staged value of the named header.
func (r *Response) Get(key string) string { return r.header.Get(key) }

// Set stages a header field, replacing existing values. Invalid field names or
// values are a contract violation and panic.
func (r *Response) Set(key, value string) {
	assertHeaderField(key, value)

	if r.wroteHeader {
		return
	}

	r.header.Set(key, value)
}

// SetStrict is Set for strict paths: instead of silently dropping the mutation
// after the headers were written it reports ErrHeaderWritten.
func (r *Response) SetStrict(key, value string) error {
	assertHeaderField(key, value)

	if r.wroteHeader {
		return errors.WithStack(ErrHeaderWritten)
	}

	r.header.Set(key, value)

	return nil
}

// Append stages an additional value for a header field.
func (r *Response) Append(key, value string) {
	assertHeaderField(key, value)

	if r.wroteHeader {
		return
	}

	r.header.Add(key, value)
}

// Remove deletes a staged header field.
func (r *Response) Remove(key string) {
	if r.wroteHeader {
		return
	}

	r.header.Del(key)
}

// Status returns the staged status code. It defaults to 404 until set
// explicitly or implied by setting a body.
func (r *Response) Status() int { return r.status }

// SetStatus stages the response status. Codes outside 100..999 are a contract
// violation and panic.
func (r *Response) SetStatus(code int) {
	if code < 100 || code > 999 {
		panic(fmt.Sprintf("koa: invalid status code %d", code))
	}

	if r.wroteHeader {
		return
	}

	r.status = code
	r.explicitStatus = true

	if statusEmpty[code] {
		r.body = Body{}
	}
}

// Body returns the staged body variant.
func (r *Response) Body() Body { return r.body }

// SetBody stages the response body, adapting v via BodyOf. Setting a body
// promotes the status to 200 unless one was set explicitly; clearing a
// previously set body records the explicit-null intent and implies 204.
func (r *Response) SetBody(v any) {
	if r.wroteHeader {
		return
	}

	body := BodyOf(v)

	if body.IsNone() {
		r.explicitNil = true
		r.body = body

		if !statusEmpty[r.status] {
			r.status = http.StatusNoContent
		}

		r.header.Del("Content-Type")
		r.header.Del("Content-Length")
		r.header.Del("Transfer-Encoding")
		r.hasLength = false

		return
	}

	r.explicitNil = false
	r.body = body

	if !r.explicitStatus {
		r.status = http.StatusOK
	}
}

// SetLength stages an explicit Content-Length, overriding the computed one.
func (r *Response) SetLength(n int64) {
	if r.wroteHeader {
		return
	}

	r.length = n
	r.hasLength = true
	r.header.Set("Content-Length", strconv.FormatInt(n, 10))
}

// Length returns the staged content length: the explicit one if set, otherwise
// the computed length of the staged body. The bool reports whether a length is
// knowable at all.
func (r *Response) Length() (int64, bool) {
	if r.hasLength {
		return r.length, true
	}

	return r.body.length()
}

// SetType stages the Content-Type header.
func (r *Response) SetType(contentType string) { r.Set("Content-Type", contentType) }

// Redirect stages a redirect to url. The status defaults to 302 unless a
// redirect status was already set explicitly.
func (r *Response) Redirect(url string) {
	r.Set("Location", url)

	if !r.explicitStatus || r.status < 300 || r.status >= 400 {
		r.status = http.StatusFound
		r.explicitStatus = true
	}

	r.SetBody("Redirecting to " + url)
	r.SetType("text/plain; charset=utf-8")
}

// HeaderWritten reports whether headers were handed to the transport.
func (r *Response) HeaderWritten() bool { return r.wroteHeader }

// Writable reports whether a response can still be written: the headers are
// unsent and the connection is still alive.
func (r *Response) Writable() bool {
	return !r.wroteHeader && r.reqCtx.Err() == nil
}

// Takeover marks the response as handled by the application and returns the
// raw transport writer. The materializer does nothing for taken-over
// responses; the caller owns all further writes.
func (r *Response) Takeover() http.ResponseWriter {
	r.bypass = true
	return r.raw
}

// resetHeaders drops all staged headers, keeping only the ones in keep.
func (r *Response) resetHeaders(keep http.Header) {
	r.header = make(http.Header)

	for key, vals := range keep {
		for _, v := range vals {
			r.header.Add(key, v)
		}
	}
}

// writeHeader copies the staged headers to the transport and writes the
// status line. It is a no-op when called twice.
func (r *Response) writeHeader(code int) {
	if r.wroteHeader {
		return
	}

	dst := r.raw.Header()
	for key, vals := range r.header {
		dst[key] = vals
	}

	r.raw.WriteHeader(code)
	r.wroteHeader = true
}

// setLengthHeader stages a Content-Length unless one is already staged.
func (r *Response) setLengthHeader(n int64) {
	if r.header.Get("Content-Length") == "" {
		r.header.Set("Content-Length", strconv.FormatInt(n, 10))
	}
}

func assertHeaderField(key, value string) {
	if !httpguts.ValidHeaderFieldName(key) {
		panic(fmt.Sprintf("koa: invalid header field name %q", key))
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		panic(fmt.Sprintf("koa: invalid value for header field %q", key))
	}
}
