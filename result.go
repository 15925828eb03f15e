package bfront

// Result is what a handler produces for a request: either a [TerminalResult] that ends the dispatch, or a
// [ForwardResult] that names the next request to dispatch.
type Result interface {
	result()
}

// TerminalResult ends the dispatch with a response.
type TerminalResult struct {
	Response Response
}

// ForwardResult makes the dispatcher continue with another request.
type ForwardResult struct {
	Request *Request
}

func (TerminalResult) result() {}
func (ForwardResult) result()  {}

// Terminal returns a result that ends the dispatch with resp.
func Terminal(resp Response) Result {
	return TerminalResult{Response: resp}
}

// Forward returns a result that makes the dispatcher continue with req.
func Forward(req *Request) Result {
	return ForwardResult{Request: req}
}

// ForwardTo returns a result that forwards to the named handler.
func ForwardTo(handler string, params Params) Result {
	return Forward(NewRequest(handler, IntentForward, params))
}
