// Package cli defines the bookfinder command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/entrypoint"
	"github.com/mrlokans/bookfinder/internal/logging"
)

// runtime carries what PersistentPreRunE resolved for the subcommands.
type runtime struct {
	version  string
	dbPath   string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	rt := &runtime{version: version}

	root := &cobra.Command{
		Use:   "bookfinder",
		Short: "Search OpenLibrary and keep a list of favorite books",
		Long: `bookfinder searches the OpenLibrary catalogue by title, author, year and
language, shows book details and keeps favorites in a local SQLite database.

Run "bookfinder serve" for the web interface or "bookfinder tui" for the
terminal interface.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&rt.dbPath, "db", "", "database path (overrides DATABASE_PATH)")
	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	root.AddCommand(
		newServeCommand(rt),
		newSearchCommand(rt),
		newDetailsCommand(rt),
		newFavoritesCommand(rt),
		newTUICommand(rt),
		newAnalyticsCommand(rt),
	)
	return root
}

func (rt *runtime) init(cmd *cobra.Command) error {
	rt.cfg = config.NewConfig()
	if rt.dbPath != "" {
		rt.cfg.Database.Path = rt.dbPath
	}

	switch {
	case rt.logLevel != "":
		rt.cfg.Log.Level = rt.logLevel
	case cmd.Name() != "serve":
		// one-shot commands print results; keep the log quiet
		rt.cfg.Log.Level = "warn"
	}

	logger, err := logging.New(rt.cfg.Log)
	if err != nil {
		return err
	}
	rt.logger = logger
	return nil
}

// app opens the shared services. Callers must Close it.
func (rt *runtime) app() (*entrypoint.App, error) {
	app, err := entrypoint.NewApp(rt.cfg, rt.logger)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return app, nil
}

func newServeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(rt.cfg, rt.logger, rt.version)
		},
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, version string, args []string) int {
	root := NewRootCommand(version)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}
