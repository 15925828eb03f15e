package bfront

import (
	"context"

	"github.com/cockroachdb/errors"
)

const (
	// ParamError is the parameter that carries the recovered error to the error handler.
	ParamError = "error"
	// ParamRequest is the parameter that carries the last request of the failed dispatch to the error handler.
	ParamRequest = "request"
)

// Recovery resolves a failed dispatch by dispatching to the error handler. It shares the trail, and with it the
// loop budget, of the dispatch that failed.
type Recovery struct {
	dispatcher   *Dispatcher
	errorHandler string
}

// NewRecovery inits a recovery controller that dispatches to the named error handler.
func NewRecovery(d *Dispatcher, errorHandler string) *Recovery {
	return &Recovery{dispatcher: d, errorHandler: errorHandler}
}

// Recover dispatches the fault to the error handler. When the active handler can forward by itself it is asked
// to do so, otherwise a forward request is created. Any error returned is final, there is no further fallback.
func (rc *Recovery) Recover(ctx context.Context, fault error) (Response, error) {
	var last *Request
	if trail := rc.dispatcher.trail; len(trail) > 0 {
		last = trail[len(trail)-1]
	}

	params := Params{ParamError: fault, ParamRequest: last}

	if fwd, ok := rc.dispatcher.Active().(Forwarder); ok {
		err := fwd.Forward(rc.errorHandler, params)
		switch {
		case errors.Is(err, ErrAbort):
			return rc.dispatcher.Process(ctx, fwd.LastRequest())
		case err != nil:
			return nil, errors.Wrapf(err, "failed to forward to error handler %q", rc.errorHandler)
		}
	}

	return rc.dispatcher.Process(ctx, NewRequest(rc.errorHandler, IntentForward, params))
}

// ErrorOf returns the error an error handler request carries, or nil.
func ErrorOf(req *Request) error {
	err, _ := req.Param(ParamError).(error)
	return err
}

// FailedRequestOf returns the last request of the failed dispatch an error handler request carries, or nil.
func FailedRequestOf(req *Request) *Request {
	last, _ := req.Param(ParamRequest).(*Request)
	return last
}
