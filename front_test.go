package bfront_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/advdv/bfront"
	"github.com/advdv/bfront/internal/example"
	"github.com/advdv/bfront/router"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFront(t *testing.T, opts ...bfront.Option) (*bfront.Front, *bfront.Registry, *bfront.TestLogger) {
	t.Helper()

	reg := bfront.NewRegistry()
	require.NoError(t, example.Register(reg))
	mustRegisterFunc(t, reg, "A", func(context.Context, *bfront.Request) (bfront.Result, error) {
		return bfront.ForwardTo("B", bfront.Params{"via": "A"}), nil
	})
	mustRegisterFunc(t, reg, "B", func(_ context.Context, req *bfront.Request) (bfront.Result, error) {
		return bfront.Terminal(bfront.Text("B via " + req.Param("via").(string))), nil
	})

	rt := router.New()
	rt.MustAdd("GET /", "Home", bfront.Params{"name": "world"})
	rt.MustAdd("GET /articles", "Article", nil)
	rt.MustAdd("GET /articles/{id}", "Article", nil)
	rt.MustAdd("/loop", "Loop", nil)
	rt.MustAdd("/a", "A", nil)
	rt.MustAdd("/error", "error", nil)
	rt.MustAdd("/missing", "Missing", nil)
	rt.MustAdd("/invalid", "not-a-name", nil)

	logs := bfront.NewTestLogger(t)
	opts = append([]bfront.Option{bfront.WithLogger(logs)}, opts...)

	return bfront.New(rt, reg, opts...), reg, logs
}

func serve(t *testing.T, h bfront.BareHandler, r *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()

	rec := httptest.NewRecorder()
	w := bfront.NewResponseWriter(rec, -1)
	defer w.Free()

	if err := h.ServeBareBHTTP(w, r); err != nil {
		return rec, err
	}

	require.NoError(t, w.FlushBuffer())
	return rec, nil
}

func TestFrontForwardEndToEnd(t *testing.T) {
	front, _, logs := setupFront(t)

	var trail []*bfront.Request
	next := bfront.BareHandlerFunc(func(_ bfront.ResponseWriter, r *http.Request) error {
		trail = bfront.DispatcherFrom(r.Context()).Trail()
		return nil
	})

	rec := httptest.NewRecorder()
	w := bfront.NewResponseWriter(rec, -1)
	defer w.Free()

	require.NoError(t, front.Handle(w, httptest.NewRequest(http.MethodGet, "/a", nil), next))
	require.NoError(t, w.FlushBuffer())

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "B via A", rec.Body.String())

	require.Len(t, trail, 2)
	assert.Equal(t, "A", trail[0].Handler())
	assert.Equal(t, bfront.IntentNormal, trail[0].Intent())
	assert.Equal(t, http.MethodGet, trail[0].Method())
	assert.Equal(t, "B", trail[1].Handler())
	assert.Equal(t, bfront.IntentForward, trail[1].Intent())
	assert.Equal(t, int64(1), logs.NumLogForward)
}

func TestFrontTerminal(t *testing.T) {
	front, _, _ := setupFront(t)

	rec, err := serve(t, front, httptest.NewRequest(http.MethodGet, "/?name=ignored", nil))
	require.NoError(t, err)
	require.Equal(t, "hello world", rec.Body.String())

	rec, err = serve(t, front, httptest.NewRequest(http.MethodGet, "/articles/12", nil))
	require.NoError(t, err)
	require.JSONEq(t, `{"id":12}`, rec.Body.String())
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestFrontControllerForward(t *testing.T) {
	front, _, _ := setupFront(t)

	rec, err := serve(t, front, httptest.NewRequest(http.MethodGet, "/articles", nil))
	require.NoError(t, err)
	require.JSONEq(t, `["first","second"]`, rec.Body.String())
}

func TestFrontRecovery(t *testing.T) {
	for _, tt := range []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"bad request without code", "/articles/0", http.StatusNotFound},
		{"bad request with code", "/articles/abc", http.StatusBadRequest},
		{"no route", "/nothing/here", http.StatusNotFound},
		{"unknown handler", "/missing", http.StatusNotFound},
		{"invalid handler name", "/invalid", http.StatusNotFound},
		{"error handler is not routable", "/error", http.StatusNotFound},
	} {
		t.Run(tt.name, func(t *testing.T) {
			front, _, logs := setupFront(t, bfront.WithErrorHandler(example.ErrorHandler))

			rec, err := serve(t, front, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, fmt.Sprintf("error %d: %s", tt.wantStatus, http.StatusText(tt.wantStatus)), rec.Body.String())
			require.Equal(t, int64(1), logs.NumLogRecovering)
		})
	}
}

func TestFrontRecoveryInternalError(t *testing.T) {
	errBoom := errors.New("boom")

	front, reg, _ := setupFront(t, bfront.WithErrorHandler(example.ErrorHandler))
	require.NoError(t, reg.RegisterFunc("Boom", func(context.Context, *bfront.Request) (bfront.Result, error) {
		return nil, errBoom
	}))

	rt := router.New()
	rt.MustAdd("/boom", "Boom", nil)
	front = bfront.New(rt, reg, bfront.WithErrorHandler(example.ErrorHandler), bfront.WithLogger(bfront.NewTestLogger(t)))

	rec, err := serve(t, front, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "error 500: Internal Server Error", rec.Body.String())
}

func TestFrontRecoveryLoopBudgetIsShared(t *testing.T) {
	front, _, _ := setupFront(t, bfront.WithErrorHandler(example.ErrorHandler))

	_, err := serve(t, front, httptest.NewRequest(http.MethodGet, "/loop", nil))
	require.ErrorIs(t, err, bfront.ErrTooManyLoops)
}

func TestFrontWithoutErrorHandler(t *testing.T) {
	front, _, logs := setupFront(t)

	_, err := serve(t, front, httptest.NewRequest(http.MethodGet, "/articles/0", nil))
	require.Error(t, err)
	require.EqualError(t, err, "Unknown: article 0 not found")
	require.Zero(t, logs.NumLogRecovering)

	var reqErr *bfront.Error
	require.ErrorAs(t, err, &reqErr)
}

func TestFrontCatchErrorsDisabled(t *testing.T) {
	front, _, logs := setupFront(t,
		bfront.WithErrorHandler(example.ErrorHandler),
		bfront.WithCatchErrors(false))

	_, err := serve(t, front, httptest.NewRequest(http.MethodGet, "/loop", nil))
	require.ErrorIs(t, err, bfront.ErrTooManyLoops)
	require.Zero(t, logs.NumLogRecovering)
}

func TestFrontInitialRequest(t *testing.T) {
	front, _, _ := setupFront(t, bfront.WithErrorHandler(example.ErrorHandler))

	t.Run("resolves", func(t *testing.T) {
		req, err := front.InitialRequest(httptest.NewRequest(http.MethodGet, "/articles/5", nil))
		require.NoError(t, err)
		require.Equal(t, "Article", req.Handler())
		require.Equal(t, "5", req.Param("id"))
	})

	t.Run("error handler in any case", func(t *testing.T) {
		_, err := front.InitialRequest(httptest.NewRequest(http.MethodGet, "/error", nil))
		require.ErrorContains(t, err, "not achievable")
		require.Equal(t, http.StatusNotFound, bfront.StatusOf(err))
	})

	t.Run("unknown handler", func(t *testing.T) {
		_, err := front.InitialRequest(httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.ErrorIs(t, err, bfront.ErrInvalidHandler)
		require.Equal(t, http.StatusNotFound, bfront.StatusOf(err))
	})

	t.Run("no route", func(t *testing.T) {
		_, err := front.InitialRequest(httptest.NewRequest(http.MethodPost, "/articles", nil))
		require.ErrorContains(t, err, "no route")
	})
}

func TestFrontInvalidState(t *testing.T) {
	front, _, _ := setupFront(t)

	err := front.Handle(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.ErrorIs(t, err, bfront.ErrInvalidState)

	w := bfront.NewResponseWriter(httptest.NewRecorder(), -1)
	defer w.Free()

	err = front.Handle(w, nil, nil)
	require.ErrorIs(t, err, bfront.ErrInvalidState)
}

func TestFrontAsMiddleware(t *testing.T) {
	front, _, _ := setupFront(t)

	h := bfront.Wrap(bfront.BareHandlerFunc(func(w bfront.ResponseWriter, r *http.Request) error {
		names := lo.Map(bfront.DispatcherFrom(r.Context()).Trail(), func(req *bfront.Request, _ int) string {
			return req.Handler()
		})

		w.Header().Set("X-Trail", strings.Join(names, ","))
		return nil
	}), front.Middleware())

	rec, err := serve(t, h, httptest.NewRequest(http.MethodGet, "/articles", nil))
	require.NoError(t, err)
	require.Equal(t, "Article,Listing", rec.Header().Get("X-Trail"))
	require.JSONEq(t, `["first","second"]`, rec.Body.String())
}

func TestDispatcherFromEmptyContext(t *testing.T) {
	require.Nil(t, bfront.DispatcherFrom(t.Context()))
}
