// Package bfront provides a front stage for HTTP pipelines that dispatches requests to named handlers.
//
// # Overview
//
// bfront sits inside a pipeline of buffered, error-returning HTTP handlers. It resolves the inbound
// request into a [Request] that names a [Handler], runs that handler and follows the forwards it asks
// for until one of the handlers produces a [Response]. Failed dispatches are recovered by forwarding
// to an error handler, which renders the response with a status derived from the error.
//
// A minimal example:
//
//	reg := bfront.NewRegistry()
//	reg.MustRegister("Item", func() bfront.Handler {
//	    return bfront.HandlerFunc(func(ctx context.Context, req *bfront.Request) (bfront.Result, error) {
//	        item, err := db.GetItem(req.Param("id"))
//	        if err != nil {
//	            return nil, bfront.NewError(bfront.CodeNotFound, err)
//	        }
//	        return bfront.Terminal(bfront.JSON(item)), nil
//	    })
//	})
//
//	rt := router.New()
//	rt.MustAdd("GET /items/{id}", "Item", nil, "get-item")
//
//	mux := bfront.NewServeMux()
//	mux.HandleFront("/", bfront.New(rt, reg, bfront.WithErrorHandler("Error")))
//
// # Handlers and Results
//
// A handler returns a [Result] that is one of two shapes:
//
//   - [TerminalResult], created with [Terminal], ends the dispatch with its response
//   - [ForwardResult], created with [Forward] or [ForwardTo], continues with another request
//
// Handlers are created by a [Factory] for every request they serve, so they may keep state. The
// [Registry] is the factory most applications need. Handlers that embed [Controller] can also
// forward by returning the error of [Controller.Forward], which short-circuits the handler with
// [ErrAbort] while the dispatcher picks up the recorded request.
//
// # Dispatch Loop
//
// The [Dispatcher] keeps the trail of every request it processed. A forward chain longer than the
// loop bound fails with [ErrTooManyLoops], see [DefaultMaxLoop] and [WithMaxLoop]. A handler that
// returns no response fails with a client error. The dispatcher serving the current request is
// available to handlers and to later pipeline stages through [DispatcherFrom].
//
// # Recovery
//
// When a dispatch fails and an error handler is configured, the [Front] sets the response status with
// [StatusOf] and hands the error to a [Recovery]:
//
//   - an [*Error] with a code renders with that code
//   - an [*Error] without code, as created by [BadRequest], renders as 404
//   - any other error renders as 500
//
// The error handler receives the error and the last request of the failed dispatch as parameters,
// see [ErrorOf] and [FailedRequestOf]. The recovery shares the trail and the loop bound of the failed
// dispatch. Errors during recovery are returned to the pipeline which renders a plain 500. The
// error handler itself can never be targeted by a route.
//
// # Buffered Response Writer
//
// The [ResponseWriter] interface extends http.ResponseWriter with buffering. All writes are held in
// memory until the pipeline flushes them. This allows the front to set the status of a recovered
// response and allows middleware to replace the response completely.
//
// Key methods:
//   - [ResponseWriter.Reset] clears the buffer and headers for a fresh response
//   - [ResponseWriter.FlushBuffer] writes buffered content to the underlying writer
//   - [ResponseWriter.Free] returns the buffer to a pool (called automatically by the mux)
//
// # Pipeline
//
// [Front.Handle] takes the next stage of the pipeline, [Front.Middleware] turns the front into
// [Middleware] so it can be composed with [Wrap]. The [ServeMux] hosts fronts next to plain
// handlers such as health checks, and [ServeMux.MountFront] mounts a front on a sub path.
//
// # Logging
//
// Implement [Logger] to observe forwards, recoveries and errors the pipeline could not handle.
// [NewStdLogger] logs to the standard library logger and [NewTestLogger] counts calls in tests.
package bfront
