package koa

import (
	"encoding/json"
	"io"
	"net/http"
)

// BodyKind enumerates the shapes a response body can take. The materializer
// switches exhaustively over this kind instead of inspecting runtime types.
type BodyKind int

const (
	// BodyNone means no body has been set (or it was cleared).
	BodyNone BodyKind = iota
	// BodyText is a textual payload sent as-is.
	BodyText
	// BodyBytes is a binary payload sent as-is.
	BodyBytes
	// BodyStream is piped to the transport without a computed length.
	BodyStream
	// BodyJSON is a structured value serialized as JSON on write.
	BodyJSON
)

// Body is the tagged variant carried by the response facade. The zero value is
// the absent body.
type Body struct {
	kind   BodyKind
	text   string
	bytes  []byte
	stream io.Reader
	value  any
}

// Text returns a textual body.
func Text(s string) Body { return Body{kind: BodyText, text: s} }

// Bytes returns a binary body.
func Bytes(b []byte) Body { return Body{kind: BodyBytes, bytes: b} }

// Stream returns a body that is piped to the transport. If r also implements
// io.Closer it is closed after piping.
func Stream(r io.Reader) Body { return Body{kind: BodyStream, stream: r} }

// JSON returns a structured body serialized as JSON when the response is written.
func JSON(v any) Body { return Body{kind: BodyJSON, value: v} }

// BodyOf adapts an arbitrary value into a Body. Strings and byte slices are
// sent as-is, readers are piped, *http.Response values are adapted into a
// stream of their payload, nil clears the body and everything else is treated
// as a structured JSON value.
func BodyOf(v any) Body {
	switch b := v.(type) {
	case nil:
		return Body{}
	case Body:
		return b
	case string:
		return Text(b)
	case []byte:
		return Bytes(b)
	case *http.Response:
		return Stream(b.Body)
	case io.Reader:
		return Stream(b)
	default:
		return JSON(b)
	}
}

// Kind reports the variant of the body.
func (b Body) Kind() BodyKind { return b.kind }

// IsNone reports whether no body is set.
func (b Body) IsNone() bool { return b.kind == BodyNone }

// Value returns the payload of the variant: a string, []byte, io.Reader, the
// structured value, or nil for the absent body.
func (b Body) Value() any {
	switch b.kind {
	case BodyText:
		return b.text
	case BodyBytes:
		return b.bytes
	case BodyStream:
		return b.stream
	case BodyJSON:
		return b.value
	default:
		return nil
	}
}

// length returns the wire length of the payload and whether it is knowable.
// Structured bodies are measured by serializing them, so a HEAD response can
// report the length of the JSON it would have carried. Streams have no
// computable length.
func (b Body) length() (int64, bool) {
	switch b.kind {
	case BodyText:
		return int64(len(b.text)), true
	case BodyBytes:
		return int64(len(b.bytes)), true
	case BodyJSON:
		buf, err := json.Marshal(b.value)
		if err != nil {
			return 0, false
		}

		return int64(len(buf)), true
	default:
		return 0, false
	}
}
