package bfront

import "context"

// Handler runs a single dispatch request. It returns a [Result] that either ends the dispatch or forwards it.
type Handler interface {
	Run(ctx context.Context, req *Request) (Result, error)
}

// HandlerFunc allow casting a function to implement [Handler].
type HandlerFunc func(ctx context.Context, req *Request) (Result, error)

// Run implements the [Handler] interface.
func (f HandlerFunc) Run(ctx context.Context, req *Request) (Result, error) {
	return f(ctx, req)
}

// Forwarder is an optional capability of a handler. Forward records the request it would continue with and
// returns [ErrAbort] to short-circuit the caller; LastRequest retrieves the recorded request afterwards.
type Forwarder interface {
	Forward(target string, params Params) error
	LastRequest() *Request
}

// Controller implements [Forwarder] and can be embedded in handlers. A handler that embeds it can return the
// result of Forward as its error and the dispatcher continues with the recorded request.
//
//	type Article struct{ bfront.Controller }
//
//	func (a *Article) Run(ctx context.Context, req *bfront.Request) (bfront.Result, error) {
//	    if req.Param("id") == nil {
//	        return nil, a.Forward("Listing", nil)
//	    }
//	    ...
//	}
type Controller struct {
	last *Request
}

// Forward records a forward request to target and returns [ErrAbort].
func (c *Controller) Forward(target string, params Params) error {
	c.last = NewRequest(target, IntentForward, params)
	return ErrAbort
}

// LastRequest returns the request recorded by the latest Forward, or nil.
func (c *Controller) LastRequest() *Request {
	return c.last
}

var _ Forwarder = &Controller{}
