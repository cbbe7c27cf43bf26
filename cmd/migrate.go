package main

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SalonBooking/internal/migrate"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|drop]",
		Short:     "Apply embedded database migrations",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{string(migrate.ActionUp), string(migrate.ActionDown), string(migrate.ActionDrop)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			log.Info("Running migrations: action=%s, host=%s, db=%s", args[0], cfg.Database.Host, cfg.Database.DBName)
			return migrate.Run(cfg.Database.DSN(), migrate.Action(args[0]), log)
		},
	}
}
