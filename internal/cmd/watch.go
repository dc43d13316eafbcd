package cmd

import (
	"context"

	"reelfeed/internal/cmd/flags"
	"reelfeed/internal/core"
	"reelfeed/internal/feed"
	"reelfeed/internal/metrics"
	"reelfeed/internal/realtime"
	"reelfeed/internal/store/postgres"
	"reelfeed/internal/store/rest"
	"reelfeed/internal/tui"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"
)

var watchCmd = &cli.Command{
	Name:  "watch",
	Usage: "Open the video feed in the terminal",
	Flags: []cli.Flag{
		flags.APIURL,
		flags.Store,
		flags.PostgresDSN,
		flags.NATSUrl,
		flags.GatewayURL,
		flags.Realtime,
		flags.User,
		flags.MetricsAddr,
		flags.Threshold,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		services := []pal.ServiceDef{
			pal.Provide[core.MetricsServer](&metrics.HTTPServer{}),
			pal.Provide(&feed.Screen{}),
			pal.Provide(&tui.App{}),
		}

		services = append(services, storeServices(c)...)

		switch c.String("realtime") {
		case "websocket":
			services = append(services, pal.Provide[core.CommentSource](&realtime.Gateway{}))
		default:
			services = append(services, pal.Provide[core.CommentSource](&realtime.NATS{}))
		}

		return run(ctx, c, services...)
	},
}

// storeServices picks the core.Store implementation for the --store flag.
func storeServices(c *cli.Command) []pal.ServiceDef {
	switch c.String("store") {
	case "postgres":
		return []pal.ServiceDef{
			pal.Provide(&postgres.DB{}),
			pal.Provide[core.Store](&postgres.Repository{}),
		}
	default:
		return []pal.ServiceDef{
			pal.Provide[core.Store](&rest.Client{}),
		}
	}
}
