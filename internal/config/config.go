package config

// Config is populated from cli flags (see internal/cmd/flags and pkg/clicfg).
type Config struct {
	APIURL      string  `flag:"api-url"`
	Store       string  `flag:"store"`
	PostgresDSN string  `flag:"postgres-dsn"`
	NATSURL     string  `flag:"nats-url"`
	GatewayURL  string  `flag:"gateway-url"`
	Realtime    string  `flag:"realtime"`
	UserID      string  `flag:"user"`
	MetricsAddr string  `flag:"metrics-addr"`
	Threshold   float64 `flag:"threshold"`
	LogLevel    string  `flag:"log-level"`
}
