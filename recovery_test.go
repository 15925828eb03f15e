package bfront_test

import (
	"context"
	"testing"

	"github.com/advdv/bfront"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// recordingErrorHandler registers an "Error" handler that stores the request it got.
func recordingErrorHandler(t *testing.T, reg *bfront.Registry) **bfront.Request {
	t.Helper()

	var got *bfront.Request
	mustRegisterFunc(t, reg, "Error", func(_ context.Context, req *bfront.Request) (bfront.Result, error) {
		got = req
		return bfront.Terminal(bfront.Text("recovered: " + bfront.ErrorOf(req).Error())), nil
	})

	return &got
}

type failingController struct {
	bfront.Controller
	forwardErr error
}

func (h *failingController) Run(context.Context, *bfront.Request) (bfront.Result, error) {
	return nil, errors.New("controller failed")
}

func (h *failingController) Forward(target string, params bfront.Params) error {
	if h.forwardErr != nil {
		return h.forwardErr
	}
	return h.Controller.Forward(target, params)
}

func TestRecoverSyntheticRequest(t *testing.T) {
	errBoom := errors.New("boom")

	reg := bfront.NewRegistry()
	mustRegisterFunc(t, reg, "A", func(context.Context, *bfront.Request) (bfront.Result, error) {
		return nil, errBoom
	})
	got := recordingErrorHandler(t, reg)

	dsp := bfront.NewDispatcher(reg, 0, bfront.NewTestLogger(t))
	first := bfront.NewRequest("A", bfront.IntentNormal, nil)
	_, err := dsp.Process(t.Context(), first)
	require.ErrorIs(t, err, errBoom)

	resp, err := bfront.NewRecovery(dsp, "Error").Recover(t.Context(), err)
	require.NoError(t, err)
	require.Equal(t, "recovered: boom", render(t, resp).Body.String())

	require.NotNil(t, *got)
	require.True(t, (*got).IsForward())
	require.Equal(t, errBoom, bfront.ErrorOf(*got))
	require.Same(t, first, bfront.FailedRequestOf(*got))

	trail := dsp.Trail()
	require.Len(t, trail, 2)
	require.Equal(t, "Error", trail[1].Handler())
}

func TestRecoverNativeForward(t *testing.T) {
	ctrl := &failingController{}

	reg := bfront.NewRegistry()
	require.NoError(t, reg.Register("A", func() bfront.Handler { return ctrl }))
	got := recordingErrorHandler(t, reg)

	dsp := bfront.NewDispatcher(reg, 0, bfront.NewTestLogger(t))
	_, err := dsp.Process(t.Context(), bfront.NewRequest("A", bfront.IntentNormal, nil))
	require.Error(t, err)

	resp, err := bfront.NewRecovery(dsp, "Error").Recover(t.Context(), err)
	require.NoError(t, err)
	require.Equal(t, "recovered: controller failed", render(t, resp).Body.String())

	trail := dsp.Trail()
	require.Len(t, trail, 2)
	require.Same(t, ctrl.LastRequest(), trail[1])
	require.Equal(t, "A", bfront.FailedRequestOf(*got).Handler())
}

func TestRecoverForwardFails(t *testing.T) {
	errForward := errors.New("cannot forward")

	reg := bfront.NewRegistry()
	require.NoError(t, reg.Register("A", func() bfront.Handler {
		return &failingController{forwardErr: errForward}
	}))
	got := recordingErrorHandler(t, reg)

	dsp := bfront.NewDispatcher(reg, 0, bfront.NewTestLogger(t))
	_, err := dsp.Process(t.Context(), bfront.NewRequest("A", bfront.IntentNormal, nil))
	require.Error(t, err)

	_, err = bfront.NewRecovery(dsp, "Error").Recover(t.Context(), err)
	require.ErrorIs(t, err, errForward)
	require.Nil(t, *got)
}

type nopForwarder struct{ bfront.Controller }

func (h *nopForwarder) Run(context.Context, *bfront.Request) (bfront.Result, error) {
	return nil, errors.New("failed")
}

func (h *nopForwarder) Forward(string, bfront.Params) error { return nil }

func TestRecoverForwardWithoutAbortFallsBack(t *testing.T) {
	reg := bfront.NewRegistry()
	require.NoError(t, reg.Register("A", func() bfront.Handler { return &nopForwarder{} }))
	got := recordingErrorHandler(t, reg)

	dsp := bfront.NewDispatcher(reg, 0, bfront.NewTestLogger(t))
	_, err := dsp.Process(t.Context(), bfront.NewRequest("A", bfront.IntentNormal, nil))
	require.Error(t, err)

	_, err = bfront.NewRecovery(dsp, "Error").Recover(t.Context(), err)
	require.NoError(t, err)
	require.NotNil(t, *got)
}

func TestRecoverErrorHandlerFails(t *testing.T) {
	errSecond := errors.New("error handler broke")

	reg := bfront.NewRegistry()
	mustRegisterFunc(t, reg, "A", func(context.Context, *bfront.Request) (bfront.Result, error) {
		return nil, errors.New("first")
	})
	mustRegisterFunc(t, reg, "Error", func(context.Context, *bfront.Request) (bfront.Result, error) {
		return nil, errSecond
	})

	dsp := bfront.NewDispatcher(reg, 0, bfront.NewTestLogger(t))
	_, err := dsp.Process(t.Context(), bfront.NewRequest("A", bfront.IntentNormal, nil))
	require.Error(t, err)

	_, err = bfront.NewRecovery(dsp, "Error").Recover(t.Context(), err)
	require.Equal(t, errSecond, err)
}

func TestRecoverWithEmptyTrail(t *testing.T) {
	reg := bfront.NewRegistry()
	got := recordingErrorHandler(t, reg)

	dsp := bfront.NewDispatcher(reg, 0, bfront.NewTestLogger(t))
	_, err := bfront.NewRecovery(dsp, "Error").Recover(t.Context(), errors.New("before dispatch"))
	require.NoError(t, err)
	require.Nil(t, bfront.FailedRequestOf(*got))
	require.Len(t, dsp.Trail(), 1)
}

func TestRecoverSharesLoopBudget(t *testing.T) {
	reg := bfront.NewRegistry()
	mustRegisterFunc(t, reg, "A", func(_ context.Context, req *bfront.Request) (bfront.Result, error) {
		if req.IsForward() {
			return nil, errors.New("gave up")
		}
		return bfront.ForwardTo("A", nil), nil
	})
	got := recordingErrorHandler(t, reg)

	dsp := bfront.NewDispatcher(reg, 1, bfront.NewTestLogger(t))
	_, err := dsp.Process(t.Context(), bfront.NewRequest("A", bfront.IntentNormal, nil))
	require.EqualError(t, err, "gave up")
	require.Len(t, dsp.Trail(), 2)

	_, err = bfront.NewRecovery(dsp, "Error").Recover(t.Context(), err)
	require.ErrorIs(t, err, bfront.ErrTooManyLoops)
	require.Nil(t, *got)
}
