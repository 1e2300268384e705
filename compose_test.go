package koa_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ppker/koa"
)

// dispatchWith runs a separately composed pipeline against a throwaway
// request's context and returns its dispatch result.
func dispatchWith(dispatch koa.DispatchFunc) error {
	var err error

	app := koa.New(koa.WithLogger(koa.NewTestLogger(nil)))
	app.Use(func(c *koa.Context, _ koa.Next) error {
		err = dispatch(c)
		return nil
	})

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
	app.Handler().ServeHTTP(rec, req)

	return err
}

var _ = Describe("compose", func() {
	It("should run an empty pipeline as a no-op success", func() {
		Expect(dispatchWith(koa.Compose())).To(Succeed())
	})

	It("should cascade downstream in list order and upstream in reverse", func() {
		var res string

		mw := func(name string) koa.Middleware {
			return func(c *koa.Context, next koa.Next) error {
				res += name + "("
				err := next()
				res += ")" + name

				return err
			}
		}

		inner := func(c *koa.Context, next koa.Next) error {
			res += "inner"
			return next()
		}

		Expect(dispatchWith(koa.Compose(mw("1"), mw("2"), mw("3"), inner))).To(Succeed())
		Expect(res).To(Equal("1(2(3(inner)3)2)1"))
	})

	It("should skip everything downstream when next is never called", func() {
		var res string

		Expect(dispatchWith(koa.Compose(
			func(c *koa.Context, next koa.Next) error {
				res += "first"
				return nil // no next()
			},
			func(c *koa.Context, next koa.Next) error {
				res += "second"
				return next()
			},
		))).To(Succeed())

		Expect(res).To(Equal("first"))
	})

	It("should fail fast on a second call to next, anywhere in the pipeline", func() {
		for position := range 3 {
			mws := make([]koa.Middleware, 3)
			for i := range mws {
				if i == position {
					mws[i] = func(c *koa.Context, next koa.Next) error {
						if err := next(); err != nil {
							return err
						}

						return next()
					}
				} else {
					mws[i] = func(c *koa.Context, next koa.Next) error {
						return next()
					}
				}
			}

			err := dispatchWith(koa.Compose(mws...))
			Expect(err).To(MatchError(koa.ErrNextCalledTwice), fmt.Sprintf("position %d", position))
		}
	})

	It("should unwind failures without running upstream code of propagating middleware", func() {
		var res string

		err := dispatchWith(koa.Compose(
			func(c *koa.Context, next koa.Next) error {
				res += "1("
				if err := next(); err != nil {
					return err
				}
				res += ")1"

				return nil
			},
			func(c *koa.Context, next koa.Next) error {
				return errors.New("boom")
			},
		))

		Expect(err).To(MatchError(ContainSubstring("boom")))
		Expect(res).To(Equal("1("))
	})

	It("should compose without invoking any middleware", func() {
		invoked := false

		koa.Compose(func(c *koa.Context, next koa.Next) error {
			invoked = true
			return next()
		})

		Expect(invoked).To(BeFalse())
	})
})
