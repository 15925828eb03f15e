// Package bfrontapp provides a batteries-included application around a [bfront.Front].
//
// It wires the front stage with structured logging (zap), tracing (OpenTelemetry),
// metrics (Prometheus) and configuration from environment variables, and manages
// the lifecycle with fx.
//
// # Environment
//
// Embed [BaseEnvironment] in an application specific struct:
//
//	type Env struct {
//	    bfrontapp.BaseEnvironment
//	    DatabaseURL string `env:"DATABASE_URL,required"`
//	}
//
// The base environment reads:
//
//   - BF_PORT (required): port the server listens on
//   - BF_SERVICE_NAME (required): service name for tracing
//   - BF_READINESS_CHECK_PATH: health check path, default "/health"
//   - BF_METRICS_PATH: prometheus scrape path, default "/metrics"
//   - BF_LOG_LEVEL: zap level, default "info"
//   - BF_OTEL_EXPORTER: "stdout" (default) or "none"
//   - BF_ERROR_HANDLER: handler that renders failed dispatches, recovery is off when empty
//   - BF_CATCH_ERRORS: set to false to return every error to the pipeline, default true
//   - BF_MAX_LOOP: forwards allowed per request, default 20
//   - BF_BUFFER_LIMIT: response buffer limit in bytes, default -1 (unlimited)
//   - BF_REQUEST_TIMEOUT: deadline of the request context, default 30s
//   - BF_ROUTES_FILE: optional YAML route table
//
// # Routing
//
// The routing function passed to [NewApp] is invoked with any dependency from
// the graph, typically the [bfront.Registry] and the [router.Router]:
//
//	bfrontapp.NewApp[Env](func(reg *bfront.Registry, rt *router.Router) error {
//	    if err := example.Register(reg); err != nil {
//	        return err
//	    }
//	    return rt.Add("GET /", "Home", nil, "home")
//	}).Run()
//
// Handlers that were never registered, but are named by a route or by
// BF_ERROR_HANDLER, fail the start of the app.
//
// # Request scope
//
// Inside handlers, [Log] returns a zap logger that is correlated with the trace
// and with the request the dispatcher is processing. [Span] returns the current
// span.
package bfrontapp
