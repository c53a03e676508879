package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/guarzo/cardrip/internal/collector"
	"github.com/guarzo/cardrip/internal/pipeline"
	"github.com/guarzo/cardrip/internal/progress"
	"github.com/spf13/cobra"
)

func newRipCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rip <set name>...",
		Short: "Collect one or more sets and write them to the output directory",
		Example: `  cardrip rip "Fate Reforged"
  cardrip rip --format csv "Khans of Tarkir" "Dragons of Tarkir"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.rip(cmd.Context(), "rip", cmd.ErrOrStderr(), cmd.OutOrStdout(), args)
			return err
		},
	}
}

// rip runs every set through a fresh runner and prints a summary.
func (a *app) rip(ctx context.Context, source string, progressOut, out io.Writer, sets []string) ([]pipeline.Result, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}
	src, err := a.source()
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner(src, reg, pipeline.Config{
		OutputDir: a.cfg.OutputDir,
		Format:    a.cfg.OutputFormat,
		Source:    source,
		Logger:    a.logger,
		Progress: func(set string) collector.Progress {
			return progress.NewIndicator(progressOut, set, !a.quiet)
		},
	})

	results, err := runner.Run(ctx, sets)
	printSummary(out, results)
	if stats, ok := src.CacheStats(); ok {
		a.logger.Debug("page cache stats", "hits", stats.Hits, "misses", stats.Misses, "writes", stats.Writes)
		fmt.Fprintf(out, "page cache: %d hits, %d fetched, %d stored\n", stats.Hits, stats.Misses, stats.Writes)
	}
	return results, err
}

func printSummary(w io.Writer, results []pipeline.Result) {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()

	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", bad("✗"), res.Set, res.Err)
			continue
		}
		line := fmt.Sprintf("%s %s: %d cards -> %s", ok("✓"), res.Set, res.Cards, res.Path)
		if n := len(res.Warnings); n > 0 {
			line += " " + warn(fmt.Sprintf("(%d warnings)", n))
		}
		fmt.Fprintln(w, line)
	}
}
