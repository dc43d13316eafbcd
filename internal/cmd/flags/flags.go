package flags

import (
	"fmt"
	"slices"

	libnats "github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"reelfeed/internal/viewport"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validStores    = []string{"rest", "postgres"}
	validRealtime  = []string{"nats", "websocket"}
)

func oneOf(allowed []string) func(string) error {
	return func(value string) error {
		if !slices.Contains(allowed, value) {
			return fmt.Errorf("invalid value: %s, allowed values are: %s", value, allowed)
		}
		return nil
	}
}

var APIURL = &cli.StringFlag{
	Name:    "api-url",
	Usage:   "Base URL of the feed API",
	Value:   "http://localhost:8080",
	Sources: cli.EnvVars("API_URL"),
}

var Store = &cli.StringFlag{
	Name:      "store",
	Aliases:   []string{"s"},
	Usage:     "Backend to read the feed from",
	Value:     "rest",
	Validator: oneOf(validStores),
	Sources:   cli.EnvVars("STORE"),
}

var PostgresDSN = &cli.StringFlag{
	Name:    "postgres-dsn",
	Usage:   "Postgres connection string, used when --store=postgres",
	Value:   "postgres://localhost:5432/reelfeed",
	Sources: cli.EnvVars("POSTGRES_DSN"),
}

var NATSUrl = &cli.StringFlag{
	Name:    "nats-url",
	Aliases: []string{"n"},
	Usage:   "The URL of the NATS server",
	Value:   libnats.DefaultURL,
	Sources: cli.EnvVars("NATS_URL"),
}

var GatewayURL = &cli.StringFlag{
	Name:    "gateway-url",
	Usage:   "Websocket comment gateway URL, used when --realtime=websocket",
	Value:   "ws://localhost:8081/realtime",
	Sources: cli.EnvVars("GATEWAY_URL"),
}

var Realtime = &cli.StringFlag{
	Name:      "realtime",
	Usage:     "Transport for live comment notifications",
	Value:     "nats",
	Validator: oneOf(validRealtime),
	Sources:   cli.EnvVars("REALTIME"),
}

var User = &cli.StringFlag{
	Name:    "user",
	Aliases: []string{"u"},
	Usage:   "ID of the signed-in user, empty browses signed out",
	Sources: cli.EnvVars("REELFEED_USER"),
}

var MetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "Address to serve Prometheus metrics on, empty disables the server",
	Sources: cli.EnvVars("METRICS_ADDR"),
}

var Threshold = &cli.Float64Flag{
	Name:    "threshold",
	Usage:   "Fraction of a card that must be visible to make it active",
	Value:   viewport.DefaultThreshold,
	Sources: cli.EnvVars("THRESHOLD"),
}

// TODO: extract custom EnumFlag
var LogLevel = &cli.StringFlag{
	Name:      "log-level",
	Aliases:   []string{"l"},
	Usage:     "The level of the logs",
	Value:     "info",
	Validator: oneOf(validLogLevels),
	Sources:   cli.EnvVars("LOG_LEVEL"),
}

var SeedPosts = &cli.IntFlag{
	Name:  "posts",
	Usage: "Number of video posts to generate",
	Value: 25,
}

var SeedUsers = &cli.IntFlag{
	Name:  "users",
	Usage: "Number of users to generate",
	Value: 10,
}

var Post = &cli.StringFlag{
	Name:     "post",
	Usage:    "ID of the post to comment on",
	Required: true,
}

var Author = &cli.StringFlag{
	Name:     "author",
	Usage:    "ID of the commenting user",
	Required: true,
}

var Body = &cli.StringFlag{
	Name:     "body",
	Usage:    "Comment text",
	Required: true,
}
