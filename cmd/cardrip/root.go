package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/guarzo/cardrip/internal/cache"
	"github.com/guarzo/cardrip/internal/config"
	"github.com/guarzo/cardrip/internal/gatherer"
	"github.com/guarzo/cardrip/internal/registry"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// app carries the global flags and everything built from them.
type app struct {
	configPath string
	outDir     string
	format     string
	quiet      bool
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cardrip",
		Short: "Rip Magic card sets from the Gatherer catalogue",
		Long: `cardrip reads a set's checklist and every card detail page from the
Gatherer catalogue and writes one normalized record per card face.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cardrip/config.toml)")
	flags.StringVarP(&a.outDir, "out", "o", "", "output directory")
	flags.StringVarP(&a.format, "format", "f", "", "output format: json or csv")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only log warnings and errors, no progress bars")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log every page fetch")

	root.AddCommand(newRipCmd(a), newCardCmd(a), newSetsCmd(a), newWatchCmd(a), newCacheCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.outDir != "" {
		cfg.OutputDir = a.outDir
	}
	if a.format != "" {
		cfg.OutputFormat = a.format
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	level := slog.LevelInfo
	switch {
	case a.verbose:
		level = slog.LevelDebug
	case a.quiet:
		level = slog.LevelWarn
	}
	a.logger = slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    color.NoColor,
	}))
	return nil
}

func (a *app) registry() (*registry.Registry, error) {
	reg := registry.Default()
	if a.cfg.RegistryFile != "" {
		if err := reg.LoadFile(a.cfg.RegistryFile); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (a *app) pageCache() (*cache.Cache, error) {
	pages, err := cache.New(a.cfg.CacheDir, a.cfg.CacheTTL.Duration)
	if err != nil {
		return nil, fmt.Errorf("opening page cache: %w", err)
	}
	return pages, nil
}

func (a *app) source() (*gatherer.Client, error) {
	pages, err := a.pageCache()
	if err != nil {
		return nil, err
	}
	return gatherer.NewClient(gatherer.Config{
		BaseURL:           a.cfg.BaseURL,
		UserAgent:         a.cfg.UserAgent,
		Timeout:           a.cfg.Timeout.Duration,
		RequestsPerSecond: a.cfg.RequestsPerSecond,
		Logger:            a.logger,
	}, pages), nil
}
