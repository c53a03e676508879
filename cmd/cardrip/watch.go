package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/guarzo/cardrip/internal/manifest"
	"github.com/guarzo/cardrip/internal/schedule"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		now       bool
		skipFresh time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [set name]...",
		Short: "Re-rip sets on the configured cron schedule",
		Long: `watch re-rips the given sets, or the configured watch_sets, every time
the cron schedule fires. Detail pages already in the page cache are not
downloaded again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sets := args
			if len(sets) == 0 {
				sets = a.cfg.WatchSets
			}
			if len(sets) == 0 {
				return errors.New("no sets to watch: pass set names or configure watch_sets")
			}

			// Progress bars would interleave with the log output of a
			// long-running process.
			job := func(ctx context.Context) error {
				due := staleSets(manifest.New(a.cfg.OutputDir), sets, skipFresh, time.Now())
				if len(due) == 0 {
					a.logger.Info("all watched sets are fresh, nothing to rip")
					return nil
				}
				_, err := a.rip(ctx, "watch", io.Discard, cmd.OutOrStdout(), due)
				return err
			}

			s, err := schedule.New(a.cfg.Schedule, job, a.logger)
			if err != nil {
				return err
			}
			if now {
				// A failed first run is logged; the schedule still starts.
				_, _ = s.RunOnce(cmd.Context())
			}

			err = s.Run(cmd.Context())
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&now, "now", false, "run once immediately before waiting for the schedule")
	cmd.Flags().DurationVar(&skipFresh, "skip-fresh", 0, "skip sets ripped into the output directory within this long")
	return cmd
}

// staleSets filters out sets ripped within maxAge. A zero maxAge keeps all.
func staleSets(m *manifest.Manifest, sets []string, maxAge time.Duration, now time.Time) []string {
	if maxAge <= 0 {
		return sets
	}
	var due []string
	for _, name := range sets {
		if m.IsStale(name, maxAge, now) {
			due = append(due, name)
		}
	}
	return due
}
