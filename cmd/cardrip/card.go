package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/guarzo/cardrip/internal/collector"
	"github.com/guarzo/cardrip/internal/diag"
	"github.com/spf13/cobra"
)

func newCardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "card <multiverseid>",
		Short:   "Fetch and parse a single detail page and print it as JSON",
		Example: "  cardrip card 386490",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid multiverseid %q", args[0])
			}

			reg, err := a.registry()
			if err != nil {
				return err
			}
			src, err := a.source()
			if err != nil {
				return err
			}

			sink := diag.SlogSink{Logger: a.logger.With("multiverseid", id)}
			cards, err := collector.New(src, reg, collector.WithSink(sink)).CollectCard(cmd.Context(), id)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(cards)
		},
	}
}
