package bfront

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
)

// DefaultMaxLoop bounds the number of forwards a single dispatch may follow.
const DefaultMaxLoop = 20

// Dispatcher resolves requests to handlers, runs them and follows their forwards until one of them produces a
// response. A dispatcher keeps the trail of every request it processed and is meant to serve exactly one inbound
// request: it is not safe for concurrent use.
type Dispatcher struct {
	factory Factory
	maxLoop int
	logs    Logger

	trail  []*Request
	active Handler
}

// NewDispatcher inits a dispatcher. A maxLoop of zero or less selects [DefaultMaxLoop].
func NewDispatcher(factory Factory, maxLoop int, logs Logger) *Dispatcher {
	if maxLoop <= 0 {
		maxLoop = DefaultMaxLoop
	}

	return &Dispatcher{
		factory: factory,
		maxLoop: maxLoop,
		logs:    logs,
	}
}

// Process dispatches req and every request it forwards to. It returns the response of the first handler that
// terminates the chain. Errors from creating or running a handler end the dispatch immediately.
func (d *Dispatcher) Process(ctx context.Context, req *Request) (Response, error) {
	if req == nil {
		return nil, errors.Wrap(ErrInvalidState, "no request to process, it must be resolved before dispatching")
	}

	for {
		if len(d.trail) > d.maxLoop {
			return nil, errors.Wrapf(ErrTooManyLoops, "after %d requests", len(d.trail))
		}

		d.trail = append(d.trail, req)

		hdlr, err := d.factory.Create(req.Handler())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create handler %q", req.Handler())
		}

		d.active = hdlr

		res, err := hdlr.Run(ctx, req.Clone())
		if err != nil {
			next, ok := d.aborted(hdlr, err)
			if !ok {
				return nil, err
			}

			d.logs.LogForward(req, next)
			req = next

			continue
		}

		switch res := res.(type) {
		case ForwardResult:
			if res.Request == nil {
				return nil, errors.Wrapf(ErrInvalidState, "handler %q forwarded to a nil request", req.Handler())
			}

			d.logs.LogForward(req, res.Request)
			req = res.Request
		case TerminalResult:
			if res.Response == nil {
				return nil, nullResponse(req)
			}

			return res.Response, nil
		case nil:
			return nil, nullResponse(req)
		default:
			return nil, errors.Wrapf(ErrInvalidState, "handler %q returned unsupported result %T", req.Handler(), res)
		}
	}
}

// aborted reports whether err is the abort signal of a handler that recorded where to forward to.
func (d *Dispatcher) aborted(hdlr Handler, err error) (*Request, bool) {
	if !errors.Is(err, ErrAbort) {
		return nil, false
	}

	fwd, ok := hdlr.(Forwarder)
	if !ok || fwd.LastRequest() == nil {
		return nil, false
	}

	return fwd.LastRequest(), true
}

// Trail returns a copy of the requests processed so far, in order.
func (d *Dispatcher) Trail() []*Request {
	return slices.Clone(d.trail)
}

// Active returns the handler that was created last, or nil.
func (d *Dispatcher) Active() Handler {
	return d.active
}

func nullResponse(req *Request) error {
	return BadRequest(errors.Newf("invalid response from handler %q: nullable", req.Handler()))
}
