package bfrontapp

import (
	"context"
	"net/http"
	"time"

	"github.com/advdv/bfront"
)

// DefaultDeadlineBuffer is the time reserved after the request deadline for rendering an error response
// before the server gives up on the connection.
const DefaultDeadlineBuffer = 500 * time.Millisecond

// ServerTimeouts returns the http.Server timeout values for a request timeout. The write timeout leaves
// DefaultDeadlineBuffer on top of the request deadline so a recovered response can still be written.
func ServerTimeouts(requestTimeout time.Duration) (readHeaderTimeout, readTimeout, writeTimeout, idleTimeout time.Duration) {
	readHeaderTimeout = min(requestTimeout, 5*time.Second)
	readTimeout = requestTimeout
	writeTimeout = requestTimeout + DefaultDeadlineBuffer
	idleTimeout = 2 * requestTimeout

	return
}

// WithRequestTimeout returns middleware that bounds the request context. Handlers and their downstream
// calls observe the deadline through the context they are run with. A zero or negative timeout disables it.
func WithRequestTimeout(timeout time.Duration) bfront.Middleware {
	return func(next bfront.BareHandler) bfront.BareHandler {
		if timeout <= 0 {
			return next
		}

		return bfront.BareHandlerFunc(func(w bfront.ResponseWriter, r *http.Request) error {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			return next.ServeBareBHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestRemainingTime returns the duration until the request context deadline.
// Returns 0 if no deadline is set or if the deadline has passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}
