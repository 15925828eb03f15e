package bfrontapptest

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/advdv/bfront"
)

// Dispatch processes req with a fresh dispatcher and renders the response. It handles the boilerplate of
// wrapping [httptest.ResponseRecorder] in a [bfront.ResponseWriter] and flushing the buffer afterward. The
// trail of the dispatch is returned next to the recording.
func Dispatch(ctx context.Context, factory bfront.Factory, req *bfront.Request) (*httptest.ResponseRecorder, []*bfront.Request, error) {
	dsp := bfront.NewDispatcher(factory, 0, bfront.NewStdLogger(nil))

	resp, err := dsp.Process(ctx, req)
	if err != nil {
		return nil, dsp.Trail(), err
	}

	return Render(resp, httptest.NewRequest(http.MethodGet, "/", nil)), dsp.Trail(), nil
}

// Render sends resp onto a recorder. It panics when sending fails.
func Render(resp bfront.Response, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	w := bfront.NewResponseWriter(rec, -1)
	defer w.Free()

	if err := resp.Send(w, r); err != nil {
		panic("bfrontapptest: response returned error: " + err.Error())
	}

	if err := w.FlushBuffer(); err != nil {
		panic("bfrontapptest: FlushBuffer failed: " + err.Error())
	}

	return rec
}
