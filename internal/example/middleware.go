package example

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/advdv/bfront"
)

// ctxKey type scopes middlware values.
type ctxKey string

// Middleware provides an example for middleware that adds a logger to the context.
func Middleware(logs *slog.Logger) bfront.Middleware {
	return func(n bfront.BareHandler) bfront.BareHandler {
		return bfront.BareHandlerFunc(func(w bfront.ResponseWriter, r *http.Request) error {
			logs := logs.With(slog.String("method", r.Method))
			ctx := context.WithValue(r.Context(), ctxKey("slog"), logs)

			return n.ServeBareBHTTP(w, r.WithContext(ctx))
		})
	}
}

// Log returns the logger the middleware added, or nil.
func Log(ctx context.Context) *slog.Logger {
	v, _ := ctx.Value(ctxKey("slog")).(*slog.Logger)

	return v
}
