package koa

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHeaderCopiesStagedHeaders(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet)
	res := c.res

	res.Set("X-Foo", "bar")
	res.Append("X-Foo", "baz")
	res.writeHeader(http.StatusAccepted)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"bar", "baz"}, rec.Header().Values("X-Foo"))

	// a second write is a no-op, as is late mutation.
	res.writeHeader(http.StatusTeapot)
	res.Set("X-Late", "nope")
	res.Remove("X-Foo")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Late"))
	assert.Equal(t, []string{"bar", "baz"}, rec.Header().Values("X-Foo"))
}

func TestSetStrictAfterHeaderWritten(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet)

	require.NoError(t, c.res.SetStrict("X-Early", "ok"))

	c.res.writeHeader(http.StatusOK)
	require.ErrorIs(t, c.res.SetStrict("X-Late", "nope"), ErrHeaderWritten)
}

func TestInvalidHeaderFieldPanics(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet)

	require.Panics(t, func() { c.res.Set("X-Bad\x00Name", "v") })
	require.Panics(t, func() { c.res.Set("X-Name", "bad\x00value") })
}

func TestInvalidStatusPanics(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet)

	require.Panics(t, func() { c.SetStatus(99) })
	require.Panics(t, func() { c.SetStatus(1000) })
}

func TestRedirect(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet)
	c.res.Redirect("/elsewhere")

	require.NoError(t, respond(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/elsewhere", rec.Header().Get("Location"))
	assert.Equal(t, "Redirecting to /elsewhere", rec.Body.String())
}

func TestStatusEmptyClearsStagedBody(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet)
	c.SetBody("payload")
	c.SetStatus(http.StatusNoContent)

	assert.True(t, c.Body().IsNone())
}

func TestLengthComputation(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet)

	_, ok := c.res.Length()
	assert.False(t, ok, "no body, no length")

	c.SetBody("abcd")
	n, ok := c.res.Length()
	require.True(t, ok)
	assert.Equal(t, int64(4), n)

	c.SetBody(map[string]int{"n": 1})
	n, ok = c.res.Length()
	require.True(t, ok, "structured bodies are measured by serializing")
	assert.Equal(t, int64(len(`{"n":1}`)), n)

	c.SetBody(strings.NewReader("infinite"))
	_, ok = c.res.Length()
	assert.False(t, ok, "streams have no computable length")
}
