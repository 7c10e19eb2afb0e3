// Command ariadned runs the Ariadne telemetry-ingest and live-streaming
// backend: POST /ingest, GET /events, GET /healthz on one loopback-bound
// HTTP listener.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariadne-dev/ariadne/internal/app"
	"github.com/ariadne-dev/ariadne/internal/config"
	"github.com/ariadne-dev/ariadne/internal/logging"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ariadned", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "print usage and exit")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showHelp {
		config.WriteHelp(out, version)
		return nil
	}
	if *showVersion {
		fmt.Fprintln(out, version)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.Setup(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	rt := app.New(cfg, logger, version)
	return rt.Run(ctx)
}
