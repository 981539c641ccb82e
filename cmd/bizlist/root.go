package main

import (
	"github.com/deppfellow/bizlist/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bizlist",
		Short:        "Bizlist serves business listings and their images",
		SilenceUsage: true,
	}

	cmd.Version = version

	cmd.AddCommand(
		newServeCmd(cfg),
		newMigrateCmd(cfg),
	)

	return cmd
}
