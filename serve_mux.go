package bfront

import (
	"log"
	"net/http"
)

// ServeMux is an HTTP multiplexer with buffered responses that hosts one or more [Front] stages next to plain
// endpoints such as health checks and metrics.
type ServeMux struct {
	logs        Logger
	bufLimit    int
	mux         *http.ServeMux
	middlewares struct {
		captured bool
		buffered []Middleware
	}
}

// NewServeMux creates a new ServeMux with default settings.
func NewServeMux() *ServeMux {
	return NewServeMuxWith(-1, NewStdLogger(log.Default()), http.NewServeMux())
}

// NewServeMuxWith creates a ServeMux with custom settings.
func NewServeMuxWith(bufLimit int, logger Logger, baseMux *http.ServeMux) *ServeMux {
	return &ServeMux{
		bufLimit: bufLimit,
		logs:     logger,
		mux:      baseMux,
	}
}

// Use allows providing of middleware.
func (m *ServeMux) Use(mw ...Middleware) {
	m.ensureNoUseAfterHandle()
	m.middlewares.buffered = append(m.middlewares.buffered, mw...)
}

// HandleFront registers the front stage for the pattern, usually the catch-all "/". The stage runs behind the
// middleware registered with [ServeMux.Use].
func (m *ServeMux) HandleFront(pattern string, front *Front) {
	m.HandleBare(pattern, front)
}

// HandleBare registers a bare handler for the pattern behind the middleware.
func (m *ServeMux) HandleBare(pattern string, handler BareHandler) {
	m.handle(pattern, ToStd(
		Wrap(handler, m.middlewares.buffered...),
		m.bufLimit,
		m.logs,
	))
}

// HandleStd registers a standard library [http.Handler] for the given pattern. Middleware
// registered via [ServeMux.Use] is applied. Errors are owned by the handler: whatever it
// writes is sent as-is.
func (m *ServeMux) HandleStd(pattern string, handler http.Handler) {
	m.HandleBare(pattern, BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
		handler.ServeHTTP(w, r)
		return nil
	}))
}

// ServeHTTP makes the server mux implement the http.Handler interface.
func (m *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}

func (m *ServeMux) handle(pattern string, handler http.Handler) {
	m.middlewares.captured = true
	m.mux.Handle(pattern, handler)
}

func (m *ServeMux) ensureNoUseAfterHandle() {
	if m.middlewares.captured {
		panic("bfront: cannot call Use() after calling Handle")
	}
}
