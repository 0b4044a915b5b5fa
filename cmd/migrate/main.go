// Package main applies schema migrations and data upgrades.
//
//	migrate up | down | steps N | version | force V | backfill
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"oflo/internal/app"
	"oflo/internal/config"
	"oflo/internal/infrastructure/storage/postgres/migrations"
	"oflo/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the oflo PostgreSQL schema",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger.New(logger.Config{Level: "info", Development: true})
		if err != nil {
			return err
		}
		logger.SetDefault(log.WithComponent("migrate"))
		return nil
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *migrations.Migrator) (bool, error) {
			return m.Up()
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *migrations.Migrator) (bool, error) {
			return m.Down()
		})
	},
}

var stepsCmd = &cobra.Command{
	Use:     "steps N",
	Short:   "Apply N migrations (negative N rolls back)",
	Example: "  migrate steps 1\n  migrate steps -- -1",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return withMigrator(cmd.Context(), func(m *migrations.Migrator) (bool, error) {
			return m.Steps(n)
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force V",
	Short: "Mark version V as applied and clean",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(cmd.Context(), func(m *migrations.Migrator) (bool, error) {
			return true, m.Force(v)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *migrations.Migrator) (bool, error) {
			return false, nil
		})
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Derive missing summary rows and normalise invoice status",
	Long: `Backfill runs the data upgrades that follow the schema migrations:
versions stored without a summary row get one derived from their items, and
empty or unknown statuses become "final". Present values are never overwritten,
so the command is safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Storage.AutoMigrate = true

		a, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.Upgrader.Run(ctx); err != nil {
			return fmt.Errorf("backfill: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path(), "path to the config file")
	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, forceCmd, versionCmd, backfillCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("migrations need storage.driver=%s, got %q", config.DriverPostgres, cfg.Storage.Driver)
	}
	return cfg, nil
}

func withMigrator(ctx context.Context, fn func(m *migrations.Migrator) (bool, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := migrations.New(cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer m.Close()

	changed, err := fn(m)
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	logger.Info(ctx, "schema",
		"version", version,
		"latest", migrations.Latest,
		"dirty", dirty,
		"changed", changed)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}
