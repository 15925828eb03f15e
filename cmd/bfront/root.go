package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bfront",
		Short:         "bfront dispatches HTTP requests to named handlers",
		Long:          `bfront resolves HTTP requests through a route table and dispatches them to named handlers that may forward to each other.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd(), newRoutesCmd())

	return cmd
}
