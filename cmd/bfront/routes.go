package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/advdv/bfront/router"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes <file>",
		Short: "Validate a route table and print its routes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.LoadFile(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMETHOD\tPATTERN\tHANDLER")

			for _, r := range rt.Routes() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					lo.Ternary(r.Name == "", "-", r.Name),
					lo.Ternary(r.Method == "", "*", r.Method),
					r.Pattern, r.Handler)
			}

			return tw.Flush()
		},
	}
}
