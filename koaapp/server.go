package koaapp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ppker/koa"
)

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	App        *koa.Application
	Logger     *zap.Logger
	TracerProv trace.TracerProvider `optional:"true"`
}

// NewApplication creates the koa application with the environment-selected
// reporting mode and the zap-backed logger.
func NewApplication(env Environment, logs *zap.Logger) *koa.Application {
	opts := []koa.Option{koa.WithLogger(NewKoaLogger(logs))}
	if env.silent() {
		opts = append(opts, koa.WithSilent())
	}

	return koa.New(opts...)
}

// NewServer creates an HTTP server serving the application's request handler,
// wrapped with tracing when a tracer provider is available.
func NewServer(params ServerParams) *http.Server {
	handler := params.App.Handler()

	if params.TracerProv != nil {
		handler = otelhttp.NewHandler(handler, params.Env.serviceName(),
			otelhttp.WithTracerProvider(params.TracerProv))
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.port()),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting server", zap.String("addr", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}
