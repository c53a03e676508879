package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/guarzo/cardrip/internal/manifest"
	"github.com/spf13/cobra"
)

func newSetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List the sets cardrip knows how to rip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}

			ripped := manifest.New(a.cfg.OutputDir)
			code := color.New(color.FgCyan).SprintFunc()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range reg.Names() {
				info, err := reg.Lookup(name)
				if err != nil {
					return err
				}
				last := "-"
				if s, ok := ripped.Lookup(name); ok {
					last = fmt.Sprintf("%d cards, %s", s.CardCount, s.LastUpdated.Local().Format(time.DateTime))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", code(info.Code), info.Name, info.ReleaseDate, info.Type, last)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d sets\n", reg.Len())
			return err
		},
	}
}
