package bfront

import (
	"fmt"
	"maps"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
)

// Intent tells whether a request came from the transport or from an internal forward.
type Intent int

const (
	// IntentNormal marks a request resolved from an inbound http request.
	IntentNormal Intent = iota
	// IntentForward marks a request produced by a forward inside the dispatch loop.
	IntentForward
)

func (i Intent) String() string {
	switch i {
	case IntentNormal:
		return "normal"
	case IntentForward:
		return "forward"
	default:
		return fmt.Sprintf("Intent(%d)", int(i))
	}
}

// Params are the named values a request carries to its handler.
type Params map[string]any

// Clone returns a shallow copy of the params. A nil receiver yields an empty map.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	return maps.Clone(p)
}

// Request identifies the handler that should run and the values it runs with. A Request is immutable, every
// modification returns a new value.
type Request struct {
	handler string
	intent  Intent
	method  string
	params  Params
	post    Params
}

// NewRequest inits a request targeting the named handler.
func NewRequest(handler string, intent Intent, params Params) *Request {
	return &Request{
		handler: handler,
		intent:  intent,
		params:  params.Clone(),
		post:    Params{},
	}
}

// Handler returns the name of the targeted handler.
func (r *Request) Handler() string { return r.handler }

// Intent returns whether the request is a normal or a forward request.
func (r *Request) Intent() Intent { return r.intent }

// IsForward reports whether the request was produced by a forward.
func (r *Request) IsForward() bool { return r.intent == IntentForward }

// Method returns the http method of the inbound request, it is empty for forward requests.
func (r *Request) Method() string { return r.method }

// Params returns a copy of the named parameters.
func (r *Request) Params() Params { return r.params.Clone() }

// Param returns a single named parameter, or nil.
func (r *Request) Param(name string) any { return r.params[name] }

// Post returns a copy of the values decoded from the request body.
func (r *Request) Post() Params { return r.post.Clone() }

// Clone returns a deep enough copy for a handler to work with: the parameter maps are copied, the values are not.
func (r *Request) Clone() *Request {
	return &Request{
		handler: r.handler,
		intent:  r.intent,
		method:  r.method,
		params:  r.params.Clone(),
		post:    r.post.Clone(),
	}
}

// WithMethod returns a copy with the http method set.
func (r *Request) WithMethod(method string) *Request {
	c := r.Clone()
	c.method = method
	return c
}

// WithParams returns a copy with the given params merged over the existing ones.
func (r *Request) WithParams(params Params) *Request {
	c := r.Clone()
	maps.Copy(c.params, params)
	return c
}

// WithPost returns a copy carrying the given body values.
func (r *Request) WithPost(post Params) *Request {
	c := r.Clone()
	c.post = post.Clone()
	return c
}

// Bind decodes the params, with the body values taking precedence, into the struct pointed to by v. String values
// are converted to the field types, so path parameters can be bound to numeric fields.
func (r *Request) Bind(v any) error {
	src := r.params.Clone()
	maps.Copy(src, r.post)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           v,
		WeaklyTypedInput: true,
		TagName:          "param",
	})
	if err != nil {
		return errors.Wrap(err, "failed to init decoder")
	}

	if err := dec.Decode(src); err != nil {
		return errors.Wrapf(err, "failed to bind params of %q", r.handler)
	}

	return nil
}

func (r *Request) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", r.handler, r.intent)
}
