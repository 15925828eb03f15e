package bfrontapp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/advdv/bfront"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Mux is an alias for bfront.ServeMux.
type Mux = bfront.ServeMux

// NewMux creates the mux with the buffer limit from the environment. The request scoped middleware is
// installed right away so the routing function may register extra endpoints on the mux.
func NewMux(env Environment, logs bfront.Logger, logger *zap.Logger) *Mux {
	mux := bfront.NewServeMuxWith(env.bufferLimit(), logs, http.NewServeMux())
	mux.Use(withRequestDep(&requestDep{logger: logger}))
	mux.Use(WithRequestTimeout(env.requestTimeout()))

	return mux
}

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler func(http.ResponseWriter, *http.Request)
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	Mux        *Mux
	Front      *bfront.Front
	Metrics    *Metrics
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer creates an HTTP server with all middleware and routing configured. The front serves every path
// that is not claimed by the health check or the metrics endpoint.
func NewServer(params ServerParams, cfg ServerConfig) *http.Server {
	// Probes and scrapes are not traced to avoid noisy orphan traces.
	healthPath := params.Env.readinessCheckPath()
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}

	params.Mux.HandleStd(healthPath, http.HandlerFunc(healthHandler))
	params.Mux.HandleStd("GET "+params.Env.metricsPath(), params.Metrics.Handler())
	params.Mux.HandleBare("/", params.Front.Middleware()(params.Metrics.ObserveTrail()))

	handler := withTracing(params.TracerProv, params.Propagator, params.Env.serviceName(),
		healthPath, params.Env.metricsPath())(params.Mux)

	readHeaderTimeout, readTimeout, writeTimeout, idleTimeout := ServerTimeouts(params.Env.requestTimeout())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.port()),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting server", zap.String("addr", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
