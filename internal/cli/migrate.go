package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dinnerbell/internal/config"
	"dinnerbell/internal/infrastructure/database"
	"dinnerbell/internal/infrastructure/sqlite"
)

// NewMigrateCommand creates the migrate command with its up and down
// subcommands.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg, nil)
			if cfg.IsSQLite() {
				// Open applies the embedded schema.
				store, err := sqlite.Open(cfg.SQLitePath())
				if err != nil {
					return err
				}
				log.Info().Str("path", cfg.SQLitePath()).Msg("sqlite schema ready")
				return store.Close()
			}
			return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.IsSQLite() {
				return fmt.Errorf("migrate down is only supported on postgres")
			}
			return database.RollbackMigrations(cfg.DatabaseURL, cfg.MigrationsPath, newLogger(cfg, nil))
		},
	})

	return cmd
}
