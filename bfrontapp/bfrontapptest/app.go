// Package bfrontapptest provides test helpers for bfrontapp applications.
//
// It constructs the identical DI graph as [bfrontapp.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	bfrontapptest.SetBaseEnv(t, 18081).ErrorHandler("Error")
//	app := bfrontapptest.New[TestEnv](t, routing)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package bfrontapptest

import (
	"testing"

	"github.com/advdv/bfront/bfrontapp"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing bfrontapp applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [bfrontapp.NewApp].
func New[E bfrontapp.Environment](t testing.TB, routing any, opts ...bfrontapp.Option) *App {
	return &App{App: fxtest.New(t, bfrontapp.FxOptions[E](routing, opts...)...)}
}
