package bfrontapp

import (
	"context"

	"github.com/advdv/bfront"
	"github.com/advdv/bfront/router"
	"github.com/cockroachdb/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewRouter creates the router, pre-filled with the route table of BF_ROUTES_FILE when it is set.
func NewRouter(env Environment) (*router.Router, error) {
	if env.routesFile() == "" {
		return router.New(), nil
	}

	rt, err := router.LoadFile(env.routesFile())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load routes from %q", env.routesFile())
	}

	return rt, nil
}

// FrontParams holds the dependencies for creating the front stage.
type FrontParams struct {
	fx.In

	Env     Environment
	Router  *router.Router
	Factory bfront.Factory
	Logs    bfront.Logger
}

// NewFront creates the front stage configured from the environment.
func NewFront(p FrontParams) *bfront.Front {
	return bfront.New(p.Router, p.Factory,
		bfront.WithLogger(p.Logs),
		bfront.WithErrorHandler(p.Env.errorHandler()),
		bfront.WithCatchErrors(p.Env.catchErrors()),
		bfront.WithMaxLoop(p.Env.maxLoop()),
	)
}

// checkFrontHook fails the start when a route or the error handler names a handler that was never
// registered. It runs after the routing function populated the router and the registry.
func checkFrontHook(lc fx.Lifecycle, env Environment, rt *router.Router, factory bfront.Factory, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if name := env.errorHandler(); name != "" {
				if err := factory.Lookup(name); err != nil {
					return errors.Wrap(err, "error handler is not registered")
				}
			}

			for _, route := range rt.Routes() {
				if err := factory.Lookup(route.Handler); err != nil {
					return errors.Wrapf(err, "route %q", route.Pattern)
				}
			}

			logger.Info("front configured",
				zap.Int("routes", len(rt.Routes())),
				zap.String("error_handler", env.errorHandler()))

			return nil
		},
	})
}
