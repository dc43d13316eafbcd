package cmd

import (
	"context"
	"log/slog"

	"reelfeed/internal/cmd/flags"
	"reelfeed/internal/core"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"
)

var dumpCmd = &cli.Command{
	Name:  "dump",
	Usage: "Fetch the video feed and pretty-print it",
	Flags: []cli.Flag{
		flags.APIURL,
		flags.Store,
		flags.PostgresDSN,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		services := storeServices(c)
		services = append(services, pal.Provide(&dumper{}))

		return run(ctx, c, services...)
	},
}

type dumper struct {
	Logger *slog.Logger
	Store  core.Store
}

func (d *dumper) Run(ctx context.Context) error {
	items, err := d.Store.ListVideoPosts(ctx)
	if err != nil {
		return err
	}

	pp.Println(items)
	return nil
}
