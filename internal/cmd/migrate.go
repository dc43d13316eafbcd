package cmd

import (
	"context"
	"log/slog"

	"reelfeed/internal/cmd/flags"
	"reelfeed/internal/store/postgres"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Create or update the database schema",
	Flags: []cli.Flag{
		flags.PostgresDSN,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			pal.Provide(&postgres.DB{}),
			pal.Provide(&migrator{}),
		)
	},
}

type migrator struct {
	Logger *slog.Logger
	DB     *postgres.DB
}

func (m *migrator) Run(context.Context) error {
	if err := m.DB.Migrate(); err != nil {
		return err
	}
	m.Logger.Info("database migrated")
	return nil
}
