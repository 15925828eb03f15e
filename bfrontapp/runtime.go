package bfrontapp

import (
	"github.com/advdv/bfront/router"
)

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
// Example:
//
//	type Article struct {
//	    bfront.Controller
//	    rt *bfrontapp.Runtime[Env]
//	}
//
//	func (a *Article) Run(ctx context.Context, req *bfront.Request) (bfront.Result, error) {
//	    url, _ := a.rt.Reverse("article", "42")
//	    return bfront.Terminal(bfront.Redirect(url, 0)), nil
//	}
type Runtime[E Environment] struct {
	env    E
	router *router.Router
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, rt *router.Router) *Runtime[E] {
	return &Runtime[E]{env: env, router: rt}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Reverse returns the URL for a named route with the given parameters.
func (r *Runtime[E]) Reverse(name string, params ...string) (string, error) {
	return r.router.Reverse(name, params...)
}
