package koa

import (
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Request wraps the raw inbound message with derived read accessors. It is
// owned by its Context and knows its Response facade.
type Request struct {
	raw *http.Request
	res *Response
}

// Raw returns the underlying *http.Request.
func (r *Request) Raw() *http.Request { return r.raw }

// Response returns the paired response facade.
func (r *Request) Response() *Response { return r.res }

// Method returns the request method.
func (r *Request) Method() string { return r.raw.Method }

// Path returns the current request path.
func (r *Request) Path() string { return r.raw.URL.Path }

// URL returns the parsed request URL.
func (r *Request) URL() *url.URL { return r.raw.URL }

// Host returns the request host.
func (r *Request) Host() string { return r.raw.Host }

// Header returns the inbound header map.
func (r *Request) Header() http.Header { return r.raw.Header }

// Get returns the first value of the named inbound header.
func (r *Request) Get(key string) string { return r.raw.Header.Get(key) }

// Query returns the parsed query parameters.
func (r *Request) Query() url.Values { return r.raw.URL.Query() }

// Length returns the declared content length, -1 when unknown.
func (r *Request) Length() int64 { return r.raw.ContentLength }

// Type returns the media type of the request payload without parameters,
// empty when absent or malformed.
func (r *Request) Type() string {
	mt, _, err := mime.ParseMediaType(r.raw.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}

	return mt
}

// Charset returns the charset parameter of the Content-Type header, empty
// when absent.
func (r *Request) Charset() string {
	_, params, err := mime.ParseMediaType(r.raw.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}

	return strings.ToLower(params["charset"])
}
