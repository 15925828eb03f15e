package bfront_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bfront"
	"github.com/stretchr/testify/require"
)

// render sends resp onto a recorder and returns it.
func render(t *testing.T, resp bfront.Response) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	w := bfront.NewResponseWriter(rec, -1)
	defer w.Free()

	require.NoError(t, resp.Send(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	require.NoError(t, w.FlushBuffer())

	return rec
}

// stepRegistry registers a "Step" handler that forwards to itself until it ran n+1 times. The returned counter
// holds the number of runs.
func stepRegistry(t *testing.T, n int) (*bfront.Registry, *int) {
	t.Helper()

	var runs int
	reg := bfront.NewRegistry()
	require.NoError(t, reg.RegisterFunc("Step", func(_ context.Context, req *bfront.Request) (bfront.Result, error) {
		runs++
		if runs > n {
			return bfront.Terminal(bfront.Text("done")), nil
		}

		return bfront.ForwardTo("Step", bfront.Params{"i": runs}), nil
	}))

	return reg, &runs
}

func mustRegisterFunc(t *testing.T, reg *bfront.Registry, name string, fn bfront.HandlerFunc) {
	t.Helper()
	require.NoError(t, reg.RegisterFunc(name, fn))
}
