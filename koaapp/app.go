package koaapp

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	FxOptions []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// NewApp creates a batteries-included app with dependency injection.
//
// The setup function can request any types that are provided via fx options.
// At minimum, it should accept *koa.Application to register middleware.
//
// Example:
//
//	koaapp.NewApp[Env](func(app *koa.Application, h *Handlers) {
//	    app.Use(h.Authenticate)
//	    app.Use(h.Serve)
//	},
//	    koaapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
func NewApp[E Environment](setup any, opts ...Option) *App {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 8+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(NewApplication),
		fx.Provide(NewServer),
		fx.Invoke(startServerHook),
		fx.Invoke(setup),
	}...)

	baseOpts = append(baseOpts, cfg.FxOptions...)
	return &App{
		app: fx.New(baseOpts...),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application with the given context and blocks until the
// context is canceled, then stops it.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
