package bfront

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// Router resolves an inbound http request into a dispatch request. It returns nil when no route matches.
type Router interface {
	Match(r *http.Request) *Request
}

// Front is the pipeline stage that turns an inbound http request into a dispatch, recovers failed dispatches
// through the error handler and writes the resulting response. A Front can serve requests concurrently, it
// creates a [Dispatcher] for every request.
type Front struct {
	router       Router
	factory      Factory
	logs         Logger
	errorHandler string
	catchErrors  bool
	maxLoop      int
}

// Option configures a [Front].
type Option func(*Front)

// WithErrorHandler names the handler failed dispatches are recovered with. Without it, errors are returned.
func WithErrorHandler(name string) Option {
	return func(f *Front) { f.errorHandler = name }
}

// WithCatchErrors toggles recovery. When false every error is returned to the caller regardless of the error
// handler. It defaults to true.
func WithCatchErrors(catch bool) Option {
	return func(f *Front) { f.catchErrors = catch }
}

// WithMaxLoop overrides [DefaultMaxLoop] for the dispatchers of this stage.
func WithMaxLoop(n int) Option {
	return func(f *Front) { f.maxLoop = n }
}

// WithLogger sets the logger, the default logs to the standard library's default logger.
func WithLogger(logs Logger) Option {
	return func(f *Front) { f.logs = logs }
}

// New inits the stage.
func New(router Router, factory Factory, opts ...Option) *Front {
	f := &Front{
		router:      router,
		factory:     factory,
		logs:        NewStdLogger(nil),
		catchErrors: true,
		maxLoop:     DefaultMaxLoop,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// ErrorHandler returns the configured error handler name.
func (f *Front) ErrorHandler() string { return f.errorHandler }

// Handle dispatches r, writes the response onto w and passes both on to next. A nil next ends the pipeline.
func (f *Front) Handle(w http.ResponseWriter, r *http.Request, next BareHandler) error {
	if r == nil {
		return errors.Wrap(ErrInvalidState, "invalid request object given, it is nil")
	}

	bw, ok := w.(ResponseWriter)
	if !ok {
		return errors.Wrapf(ErrInvalidState, "invalid response object given, required bfront.ResponseWriter, got: %T", w)
	}

	dsp := NewDispatcher(f.factory, f.maxLoop, f.logs)
	ctx := context.WithValue(r.Context(), ctxKeyDispatcher, dsp)
	r = r.WithContext(ctx)

	resp, err := f.dispatch(ctx, dsp, r)
	if err != nil {
		if !f.catchErrors || f.errorHandler == "" {
			return err
		}

		status := StatusOf(err)
		f.logs.LogRecovering(err, status)
		bw.WriteHeader(status)

		resp, err = NewRecovery(dsp, f.errorHandler).Recover(ctx, err)
		if err != nil {
			return err
		}
	}

	if resp == nil {
		return errors.Wrap(ErrInvalidState, "dispatch ended without a response")
	}

	if err := writeResponse(bw, r, resp); err != nil {
		return err
	}

	if next == nil {
		return nil
	}

	return next.ServeBareBHTTP(bw, r)
}

// ServeBareBHTTP makes the stage a terminal [BareHandler].
func (f *Front) ServeBareBHTTP(w ResponseWriter, r *http.Request) error {
	return f.Handle(w, r, nil)
}

// Middleware returns the stage as middleware that passes on to the next handler after writing the response.
func (f *Front) Middleware() Middleware {
	return func(next BareHandler) BareHandler {
		return BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
			return f.Handle(w, r, next)
		})
	}
}

// InitialRequest resolves r into the first dispatch request.
func (f *Front) InitialRequest(r *http.Request) (*Request, error) {
	req := f.router.Match(r)
	if req == nil {
		return nil, BadRequest(errors.New("no route for HTTP request"))
	}

	if f.errorHandler != "" && strings.EqualFold(req.Handler(), f.errorHandler) {
		return nil, BadRequest(errors.Newf("invalid request, handler %q is not achievable", req.Handler()))
	}

	if err := f.factory.Lookup(req.Handler()); err != nil {
		return nil, BadRequest(err)
	}

	return req, nil
}

func (f *Front) dispatch(ctx context.Context, dsp *Dispatcher, r *http.Request) (Response, error) {
	req, err := f.InitialRequest(r)
	if err != nil {
		return nil, err
	}

	return dsp.Process(ctx, req)
}

type ctxKey int

const ctxKeyDispatcher ctxKey = iota

// DispatcherFrom returns the dispatcher serving the request the context belongs to, or nil. Handlers and the
// stages after the Front can use it to inspect the trail and the active handler.
func DispatcherFrom(ctx context.Context) *Dispatcher {
	d, _ := ctx.Value(ctxKeyDispatcher).(*Dispatcher)
	return d
}
