package koa_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/ppker/koa"
)

func ExampleNew() {
	app := koa.New()

	app.Use(func(c *koa.Context, next koa.Next) error {
		c.Response().Set("X-Powered-By", "koa")
		return next()
	})

	app.Use(func(c *koa.Context, next koa.Next) error {
		c.SetBody("Hello World")
		return next()
	})

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	fmt.Println(rec.Code, rec.Header().Get("X-Powered-By"), rec.Body.String())
	// Output: 200 koa Hello World
}

func ExampleContext_Throw() {
	app := koa.New(koa.WithSilent())

	app.Use(func(c *koa.Context, next koa.Next) error {
		return c.Throw(http.StatusForbidden, "members only")
	})

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	fmt.Println(rec.Code, rec.Body.String())
	// Output: 403 members only
}
