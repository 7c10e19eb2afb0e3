// Package config loads Ariadne's process configuration from the
// environment, the way the teacher's config package does with
// go-envconfig rather than flags or a config file.
package config

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every tunable named in spec §9 "Configuration".
type Config struct {
	Host              string        `env:"HOST,default=127.0.0.1"`
	Port              string        `env:"PORT,default=5175"`
	MaxEvents         int           `env:"MAX_EVENTS,default=10000"`
	CORSOrigin        string        `env:"CORS_ORIGIN,default=http://localhost:5173"`
	QueueCapacity     int           `env:"QUEUE_CAPACITY,default=5000"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=15s"`
	LogLevel          string        `env:"LOG_LEVEL,default=info"`
}

// Load reads Config from the environment, applying defaults for anything
// unset.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}
	return &cfg, nil
}

// WriteHelp prints the environment variables and flags ariadned accepts.
func WriteHelp(w io.Writer, version string) {
	fmt.Fprintf(w, "ariadned %s\n\n", version)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  HOST=127.0.0.1")
	fmt.Fprintln(w, "  PORT=5175")
	fmt.Fprintln(w, "  MAX_EVENTS=10000")
	fmt.Fprintln(w, "  CORS_ORIGIN=http://localhost:5173")
	fmt.Fprintln(w, "  QUEUE_CAPACITY=5000")
	fmt.Fprintln(w, "  HEARTBEAT_INTERVAL=15s")
	fmt.Fprintln(w, "  LOG_LEVEL=info")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --help")
	fmt.Fprintln(w, "  --version")
}
