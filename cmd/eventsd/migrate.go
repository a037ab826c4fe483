package main

import (
	"errors"

	"github.com/spf13/cobra"

	"eventcore/internal/config"
	"eventcore/internal/infrastructure/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store != config.StorePostgres {
				return errors.New("migrate: STORE is not postgres")
			}
			return database.RunMigrations(cfg.DatabaseURL)
		},
	}
}
