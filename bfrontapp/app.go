package bfrontapp

import (
	"context"
	"net/http"

	"github.com/advdv/bfront"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	ServerConfig
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

// WithHealthHandler sets a custom health check handler.
// If not set, a default handler returning 200 OK is used.
func WithHealthHandler(h func(http.ResponseWriter, *http.Request)) Option {
	return func(c *AppConfig) {
		c.HealthHandler = h
	}
}

// NewApp creates a batteries-included app with dependency injection.
//
// The routing function can request any types that are provided via fx options.
// It usually registers handlers and adds routes:
//
//	bfrontapp.NewApp[Env](func(reg *bfront.Registry, rt *router.Router) error {
//	    reg.MustRegister("Article", func() bfront.Handler { return &Article{} })
//	    return rt.Add("GET /articles/{id}", "Article", nil, "article")
//	}).Run()
func NewApp[E Environment](routing any, opts ...Option) *App {
	return &App{
		app: fx.New(FxOptions[E](routing, opts...)...),
	}
}

// FxOptions returns the options of the dependency graph [NewApp] builds. Test helpers use it to build the
// identical graph with fxtest.
func FxOptions[E Environment](routing any, opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 18+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(func(e E) *Metrics { return NewMetrics(e.maxLoop()) }),
		fx.Provide(func(l *zap.Logger, m *Metrics) bfront.Logger { return newZapFrontLogger(l, m) }),
		fx.Provide(bfront.NewRegistry),
		fx.Provide(func(r *bfront.Registry) bfront.Factory { return r }),
		fx.Provide(NewRouter),
		fx.Provide(NewFront),
		fx.Provide(NewMux),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Supply(cfg.ServerConfig),
		fx.Provide(NewServer),
		fx.Provide(NewRuntime[E]),
		fx.Invoke(routing),
		fx.Invoke(checkFrontHook),
		fx.Invoke(startServerHook),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application with the given context and stops it when the context is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}

// Err returns any error encountered while building the dependency graph.
func (a *App) Err() error {
	return a.app.Err()
}
