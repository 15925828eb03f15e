package bfront

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidState is returned when the stage is used in a way that correct callers never do: a missing
	// request, an unbuffered response writer or a handler result of an unrecognized shape.
	ErrInvalidState = errors.New("bfront: invalid state")

	// ErrTooManyLoops is returned when a forward chain grows past the dispatcher's loop bound. It signals
	// either a misconfigured handler or an attempt to make the stage spin.
	ErrTooManyLoops = errors.New("bfront: too many loops detected in dispatch life cycle")

	// ErrInvalidHandler is returned by a [Factory] that cannot resolve a handler name.
	ErrInvalidHandler = errors.New("bfront: invalid handler")

	// ErrAbort is the control signal a [Forwarder] returns after it recorded a forward request. It is not a
	// fault: the dispatcher and the recovery controller catch it to retrieve the recorded request.
	ErrAbort = errors.New("bfront: abort")
)

// Code is an error code that mirrors the http status codes. It can be used to create errors to pass around across
// middleware layers to handle errors structurally.
type Code int

const (
	CodeUnknown                      Code = 0
	CodeBadRequest                   Code = http.StatusBadRequest                   // RFC 9110, 15.5.1
	CodeUnauthorized                 Code = http.StatusUnauthorized                 // RFC 9110, 15.5.2
	CodePaymentRequired              Code = http.StatusPaymentRequired              // RFC 9110, 15.5.3
	CodeForbidden                    Code = http.StatusForbidden                    // RFC 9110, 15.5.4
	CodeNotFound                     Code = http.StatusNotFound                     // RFC 9110, 15.5.5
	CodeMethodNotAllowed             Code = http.StatusMethodNotAllowed             // RFC 9110, 15.5.6
	CodeNotAcceptable                Code = http.StatusNotAcceptable                // RFC 9110, 15.5.7
	CodeRequestTimeout               Code = http.StatusRequestTimeout               // RFC 9110, 15.5.9
	CodeConflict                     Code = http.StatusConflict                     // RFC 9110, 15.5.10
	CodeGone                         Code = http.StatusGone                         // RFC 9110, 15.5.11
	CodePreconditionFailed           Code = http.StatusPreconditionFailed           // RFC 9110, 15.5.13
	CodeRequestEntityTooLarge        Code = http.StatusRequestEntityTooLarge        // RFC 9110, 15.5.14
	CodeUnsupportedMediaType         Code = http.StatusUnsupportedMediaType         // RFC 9110, 15.5.16
	CodeRequestedRangeNotSatisfiable Code = http.StatusRequestedRangeNotSatisfiable // RFC 9110, 15.5.17
	CodeTeapot                       Code = http.StatusTeapot                       // RFC 9110, 15.5.19 (Unused)
	CodeUnprocessableEntity          Code = http.StatusUnprocessableEntity          // RFC 9110, 15.5.21
	CodeTooManyRequests              Code = http.StatusTooManyRequests              // RFC 6585, 4
	CodeUnavailableForLegalReasons   Code = http.StatusUnavailableForLegalReasons   // RFC 7725, 3

	CodeInternalServerError Code = http.StatusInternalServerError // RFC 9110, 15.6.1
	CodeNotImplemented      Code = http.StatusNotImplemented      // RFC 9110, 15.6.2
	CodeBadGateway          Code = http.StatusBadGateway          // RFC 9110, 15.6.3
	CodeServiceUnavailable  Code = http.StatusServiceUnavailable  // RFC 9110, 15.6.4
	CodeGatewayTimeout      Code = http.StatusGatewayTimeout      // RFC 9110, 15.6.5
	CodeLoopDetected        Code = http.StatusLoopDetected        // RFC 5842, 7.2
)

// Error describes a client-attributable failure: the request could not be served as asked. Its code is optional,
// a zero code is rendered as 404 when the error reaches the error handler.
type Error struct {
	code Code
	err  error
}

// NewError inits a new error given the error code.
func NewError(c Code, underlying error) *Error {
	return &Error{c, underlying}
}

// BadRequest inits an error without an explicit code.
func BadRequest(underlying error) *Error {
	return &Error{CodeUnknown, underlying}
}

func (e *Error) Code() Code    { return e.code }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Error() string {
	status := http.StatusText(int(e.Code()))
	if status == "" {
		status = "Unknown"
	}

	return fmt.Sprintf("%s: %s", status, e.err.Error())
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if reqErr, ok := asError(err); ok {
		return reqErr.Code()
	}
	return CodeUnknown
}

// StatusOf returns the http status the error handler response is rendered with: the code of an [*Error], 404 for
// an [*Error] without code and 500 for anything else.
func StatusOf(err error) int {
	reqErr, ok := asError(err)
	switch {
	case !ok:
		return http.StatusInternalServerError
	case reqErr.Code() == CodeUnknown:
		return http.StatusNotFound
	default:
		return int(reqErr.Code())
	}
}

// asError uses errors.As to unwrap any error and look for an *Error.
func asError(err error) (*Error, bool) {
	var reqErr *Error
	ok := errors.As(err, &reqErr)
	return reqErr, ok
}
