package bfront

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Response is the application level outcome of a dispatch. It knows how to render itself onto the buffered
// response writer.
type Response interface {
	Send(w ResponseWriter, r *http.Request) error
}

// ResponseFunc allows a function to be used as a [Response].
type ResponseFunc func(w ResponseWriter, r *http.Request) error

// Send implements [Response].
func (f ResponseFunc) Send(w ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// Text returns a plain text response.
func Text(body string) Response {
	return ResponseFunc(func(w ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, err := io.WriteString(w, body)
		return err
	})
}

// JSON returns a response that encodes v as JSON.
func JSON(v any) Response {
	return ResponseFunc(func(w ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			return errors.Wrap(err, "failed to encode json response")
		}
		return nil
	})
}

// Redirect returns a response that redirects the client to url. A zero code defaults to 302.
func Redirect(url string, code int) Response {
	if code == 0 {
		code = http.StatusFound
	}

	return ResponseFunc(func(w ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, code)
		return nil
	})
}

// StdResponse is a response that is already a transport handler. It is served as-is.
type StdResponse struct{ http.Handler }

// Send implements [Response].
func (s StdResponse) Send(w ResponseWriter, r *http.Request) error {
	s.ServeHTTP(w, r)
	return nil
}

// Std wraps a standard library handler as a response.
func Std(h http.Handler) Response {
	return StdResponse{h}
}

// writeResponse renders resp onto w. Transport handlers are served directly, everything else is sent.
func writeResponse(w ResponseWriter, r *http.Request, resp Response) error {
	if h, ok := resp.(http.Handler); ok {
		h.ServeHTTP(w, r)
		return nil
	}

	if err := resp.Send(w, r); err != nil {
		return errors.Wrap(err, "failed to send response")
	}

	return nil
}
