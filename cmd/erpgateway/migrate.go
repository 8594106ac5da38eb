package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garyjia/erp-gateway/internal/container"
	"github.com/garyjia/erp-gateway/pkg/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dbCfg := a.cfg.Database

			db, err := database.New(ctx, database.Config{
				Path:            dbCfg.Path,
				MaxOpenConns:    dbCfg.MaxOpenConns,
				MaxIdleConns:    dbCfg.MaxIdleConns,
				ConnMaxLifetime: dbCfg.ConnMaxLifetime,
			}, a.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.NewMigrator(db, a.logger).RunMigrations(ctx, container.MigrationsFS(&dbCfg))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) to %s\n", applied, dbCfg.Path)
			return nil
		},
	}
}
