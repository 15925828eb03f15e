package main

import (
	"os/signal"
	"syscall"

	"github.com/advdv/bfront"
	"github.com/advdv/bfront/bfrontapp"
	"github.com/advdv/bfront/internal/example"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the example handlers",
		Long: `Serve the example handlers on BF_PORT. Routes are read from the table in BF_ROUTES_FILE,
the remaining BF_* variables configure the front stage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app := bfrontapp.NewApp[bfrontapp.BaseEnvironment](func(reg *bfront.Registry) error {
				return example.Register(reg)
			})
			if err := app.Err(); err != nil {
				return err
			}

			return app.Start(ctx)
		},
	}
}
