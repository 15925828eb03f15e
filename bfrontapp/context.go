package bfrontapp

import (
	"context"
	"net/http"

	"github.com/advdv/bfront"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ctxKey is the key type for context values.
type ctxKey int

const (
	ctxKeyRequestDep ctxKey = iota
)

// requestDep holds request-scoped dependencies available via context.
// App-scoped dependencies (env, router, registry) are accessed via Runtime instead.
type requestDep struct {
	logger *zap.Logger
}

// withRequestDep injects dependencies into the request context.
func withRequestDep(d *requestDep) bfront.Middleware {
	return func(next bfront.BareHandler) bfront.BareHandler {
		return bfront.BareHandlerFunc(func(w bfront.ResponseWriter, r *http.Request) error {
			ctx := context.WithValue(r.Context(), ctxKeyRequestDep, d)
			return next.ServeBareBHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestDepFromContext(ctx context.Context) *requestDep {
	d, ok := ctx.Value(ctxKeyRequestDep).(*requestDep)
	if !ok {
		panic("bfrontapp: requestDep not found in context; is the middleware configured?")
	}
	return d
}

// Log returns a trace-correlated zap logger from the context. Inside a dispatch the logger also carries the
// request that is being processed.
func Log(ctx context.Context) *zap.Logger {
	d := requestDepFromContext(ctx)
	return d.logger.With(append(traceFields(ctx), dispatchFields(ctx)...)...)
}

// Span returns the current trace span from the context.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// traceFields extracts trace_id and span_id from the context for log correlation.
func traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	sc := span.SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

func dispatchFields(ctx context.Context) []zap.Field {
	d := bfront.DispatcherFrom(ctx)
	if d == nil {
		return nil
	}

	trail := d.Trail()
	if len(trail) == 0 {
		return nil
	}

	return []zap.Field{
		zap.Stringer("dispatch_request", trail[len(trail)-1]),
		zap.Int("dispatch_depth", len(trail)),
	}
}
