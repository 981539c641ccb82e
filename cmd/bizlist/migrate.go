package main

import (
	"github.com/deppfellow/bizlist/internal/config"
	"github.com/deppfellow/bizlist/internal/database"
	"github.com/deppfellow/bizlist/internal/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLogger(cfg.Observability)
			return database.Migrate(cmd.Context(), &log, cfg.Database.DSN())
		},
	}
}
