// Command taskctl runs board maintenance jobs from the shell or cron.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/internal/app"
	"github.com/fastygo/taskboard/internal/config"
	pgInfra "github.com/fastygo/taskboard/internal/infrastructure/postgres"
	"github.com/fastygo/taskboard/pkg/calendar"
	"github.com/fastygo/taskboard/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var level string
	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Task board maintenance",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&level, "log-level", "", "override LOG_LEVEL")

	setup := func() (*config.Config, *zap.Logger, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		if level != "" {
			cfg.Logger.Level = level
		}
		zl, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: "console"})
		if err != nil {
			return nil, nil, err
		}
		return cfg, zl, nil
	}

	root.AddCommand(newSweepCmd(setup), newMigrateCmd(setup), newStatusCmd(setup))
	return root
}

type setupFunc func() (*config.Config, *zap.Logger, error)

func newSweepCmd(setup setupFunc) *cobra.Command {
	var today string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Move every overdue open task to VENCIDA",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer zl.Sync()

			var opts app.Options
			if today != "" {
				d, err := calendar.Parse(today)
				if err != nil {
					return fmt.Errorf("--today: %w", err)
				}
				opts.Clock = calendar.FixedClock(d)
			}

			board, err := app.Build(cmd.Context(), cfg, zl, opts)
			defer board.Manager.Shutdown(context.Background())
			if err != nil {
				return err
			}

			result, err := board.Sweeper.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d task(s)\n", result.UpdatedCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "sweep as if today were this date (YYYY-MM-DD)")
	return cmd
}

func newMigrateCmd(setup setupFunc) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	withMigrator := func(fn func(cmd *cobra.Command, mg *pgInfra.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer zl.Sync()
			if !cfg.UsesPostgres() {
				return fmt.Errorf("migrate: STORE_DRIVER is %q, nothing to migrate", cfg.Store.Driver)
			}
			mg, err := pgInfra.NewMigrator(cfg, zl)
			if err != nil {
				return err
			}
			defer mg.Close()
			return fn(cmd, mg)
		}
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, mg *pgInfra.Migrator) error {
			return mg.Up()
		}),
	}

	down := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (one step by default)",
		Args:  cobra.MaximumNArgs(1),
	}
	down.RunE = func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("migrate down: steps must be a positive integer")
			}
			steps = n
		}
		return withMigrator(func(cmd *cobra.Command, mg *pgInfra.Migrator) error {
			return mg.Down(steps)
		})(cmd, args)
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: withMigrator(func(cmd *cobra.Command, mg *pgInfra.Migrator) error {
			v, dirty, err := mg.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", v, dirty)
			return nil
		}),
	}

	migrate.AddCommand(up, down, version)
	return migrate
}

func newStatusCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe every backing service and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer zl.Sync()

			board, err := app.Build(cmd.Context(), cfg, zl, app.Options{})
			defer board.Manager.Shutdown(context.Background())
			if err != nil {
				return err
			}

			status := board.Monitor.Refresh(cmd.Context())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(status); err != nil {
				return err
			}
			if !status.Online {
				return fmt.Errorf("store unreachable")
			}
			return nil
		},
	}
}
