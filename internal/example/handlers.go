// Package example implements example handlers in an outside package.
package example

import (
	"context"
	"fmt"
	"net/http"

	"github.com/advdv/bfront"
	"github.com/cockroachdb/errors"
)

// ErrorHandler is the name the error handler is registered under.
const ErrorHandler = "Error"

// Register adds the example handlers to reg.
func Register(reg *bfront.Registry) error {
	for name, ctor := range map[string]func() bfront.Handler{
		"Home":       func() bfront.Handler { return bfront.HandlerFunc(Home) },
		"Article":    func() bfront.Handler { return &Article{} },
		"Listing":    func() bfront.Handler { return bfront.HandlerFunc(Listing) },
		"Loop":       func() bfront.Handler { return bfront.HandlerFunc(Loop) },
		ErrorHandler: func() bfront.Handler { return &Error{} },
	} {
		if err := reg.Register(name, ctor); err != nil {
			return err
		}
	}

	return nil
}

// Home greets.
func Home(_ context.Context, req *bfront.Request) (bfront.Result, error) {
	return bfront.Terminal(bfront.Text(fmt.Sprintf("hello %v", req.Param("name")))), nil
}

// Listing lists articles.
func Listing(_ context.Context, _ *bfront.Request) (bfront.Result, error) {
	return bfront.Terminal(bfront.JSON([]string{"first", "second"})), nil
}

// Loop forwards to itself until the dispatcher gives up.
func Loop(_ context.Context, req *bfront.Request) (bfront.Result, error) {
	return bfront.ForwardTo("Loop", req.Params()), nil
}

// Article shows a single article, it forwards to the listing when no id is given.
type Article struct {
	bfront.Controller
}

type articleParams struct {
	ID int `param:"id"`
}

// Run implements [bfront.Handler].
func (a *Article) Run(_ context.Context, req *bfront.Request) (bfront.Result, error) {
	if req.Param("id") == nil {
		return nil, a.Forward("Listing", nil)
	}

	var p articleParams
	if err := req.Bind(&p); err != nil {
		return nil, bfront.NewError(bfront.CodeBadRequest, err)
	}

	if p.ID <= 0 {
		return nil, bfront.BadRequest(errors.Newf("article %d not found", p.ID))
	}

	return bfront.Terminal(bfront.JSON(map[string]any{"id": p.ID})), nil
}

// Error renders the error of a failed dispatch. The status was already set by the front stage.
type Error struct {
	bfront.Controller
}

// Run implements [bfront.Handler].
func (e *Error) Run(_ context.Context, req *bfront.Request) (bfront.Result, error) {
	err := bfront.ErrorOf(req)
	if err == nil {
		return nil, bfront.NewError(bfront.CodeNotFound, errors.New("nothing to recover from"))
	}

	return bfront.Terminal(bfront.ResponseFunc(func(w bfront.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, werr := fmt.Fprintf(w, "error %d: %s", bfront.StatusOf(err), http.StatusText(bfront.StatusOf(err)))
		return werr
	})), nil
}
