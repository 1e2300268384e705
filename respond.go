package koa

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
)

// statusEmpty lists status codes that must never carry a payload.
var statusEmpty = map[int]bool{
	http.StatusNoContent:    true,
	http.StatusResetContent: true,
	http.StatusNotModified:  true,
}

// respond materializes the final context state onto the wire. It runs once,
// after the pipeline resolved successfully. Each branch is terminal; ordering
// is significant.
func respond(c *Context) error {
	res := c.res

	// 1. the application took over raw transport writing.
	if res.bypass {
		return nil
	}

	// 2. connection gone or headers flushed out-of-band.
	if !res.Writable() {
		return nil
	}

	code := res.status

	// 3. codes that forbid a payload.
	if statusEmpty[code] {
		res.body = Body{}
		res.writeHeader(code)

		return nil
	}

	// 4. HEAD: stage a computable length, never write a body.
	if c.req.Method() == http.MethodHead {
		if res.header.Get("Content-Length") == "" {
			if n, ok := res.Length(); ok {
				res.setLengthHeader(n)
			}
		}

		res.writeHeader(code)

		return nil
	}

	// 5. no body was produced.
	if res.body.IsNone() {
		if res.explicitNil {
			res.Remove("Content-Type")
			res.Remove("Transfer-Encoding")
			res.header.Set("Content-Length", "0")
			res.writeHeader(code)

			return nil
		}

		// the status line doubles as the body; HTTP/2 dropped reason
		// phrases so the numeric code is sent instead.
		msg := http.StatusText(code)
		if msg == "" || c.req.raw.ProtoMajor >= 2 {
			msg = strconv.Itoa(code)
		}

		res.header.Set("Content-Type", "text/plain; charset=utf-8")
		res.header.Set("Content-Length", strconv.Itoa(len(msg)))
		res.writeHeader(code)

		return write(res, []byte(msg))
	}

	switch res.body.kind {
	// 6. textual and binary payloads go out as-is.
	case BodyText:
		res.setLengthHeader(int64(len(res.body.text)))
		res.writeHeader(code)

		return write(res, []byte(res.body.text))

	case BodyBytes:
		res.setLengthHeader(int64(len(res.body.bytes)))
		res.writeHeader(code)

		return write(res, res.body.bytes)

	// 7, 8. streams are piped without a computed length.
	case BodyStream:
		res.writeHeader(code)

		return pipe(res.raw, res.body.stream)

	// 9. everything else serializes as JSON.
	default:
		buf, err := json.Marshal(res.body.value)
		if err != nil {
			return errors.Wrap(err, "koa: serialize response body")
		}

		if res.header.Get("Content-Type") == "" {
			res.header.Set("Content-Type", "application/json; charset=utf-8")
		}

		res.setLengthHeader(int64(len(buf)))
		res.writeHeader(code)

		return write(res, buf)
	}
}

func write(res *Response, p []byte) error {
	if _, err := res.raw.Write(p); err != nil {
		return errors.Wrap(err, "koa: write response body")
	}

	return nil
}

func pipe(dst io.Writer, src io.Reader) error {
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrap(err, "koa: pipe response body")
	}

	return nil
}
