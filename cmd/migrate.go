package main

import (
	"fmt"
	"strconv"

	"payment-reconciler/internal/infra/db"
	"payment-reconciler/internal/pkg/config"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

// loadDBConfig reads only the DB_* settings so migrations run without gateway secrets.
func loadDBConfig() (config.DBConfig, error) {
	var cfg config.DBConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return config.DBConfig{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, err := loadDBConfig()
				if err != nil {
					return err
				}
				return db.MigrateUp(cfg)
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid steps %q: %w", args[0], err)
					}
					steps = n
				}
				cfg, err := loadDBConfig()
				if err != nil {
					return err
				}
				return db.MigrateDown(cfg, steps)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadDBConfig()
				if err != nil {
					return err
				}
				version, dirty, err := db.MigrateVersion(cfg)
				if err != nil {
					return err
				}
				cmd.Printf("version=%d dirty=%t\n", version, dirty)
				return nil
			},
		},
	)
	return cmd
}
