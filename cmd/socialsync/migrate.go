package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JackVitick/Socialync/internal/connections/pg"
	migrations "github.com/JackVitick/Socialync/migrations/postgres"
)

func newMigrateCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones Postgres embebidas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return errors.New("migrate requires STORAGE_DRIVER=postgres")
			}

			ctx := cmd.Context()
			pool, err := pg.Connect(ctx, cfg.Storage.DSN, cfg.Storage.Postgres.MaxOpenConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := pg.Migrate(ctx, pool, migrations.FS)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
}
