package cmd

import (
	"context"
	"log/slog"

	"reelfeed/internal/cmd/flags"
	"reelfeed/internal/store/postgres"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"
)

var seedCmd = &cli.Command{
	Name:  "seed",
	Usage: "Fill the database with generated users and video posts",
	Flags: []cli.Flag{
		flags.PostgresDSN,
		flags.SeedPosts,
		flags.SeedUsers,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			pal.Provide(&postgres.DB{}),
			pal.Provide(&postgres.Seeder{}),
			pal.Provide(&seedRunner{
				posts: int(c.Int("posts")),
				users: int(c.Int("users")),
			}),
		)
	},
}

type seedRunner struct {
	Logger *slog.Logger
	Seeder *postgres.Seeder

	posts int
	users int
}

func (s *seedRunner) Run(ctx context.Context) error {
	if err := s.Seeder.Seed(ctx, s.posts, s.users); err != nil {
		return err
	}
	s.Logger.Info("database seeded", "posts", s.posts, "users", s.users)
	return nil
}
