package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/stackconf/stackconf/pkg/host"
	"github.com/stackconf/stackconf/pkg/logging"
)

const name = "stackconf"

var (
	// overridden during build with ldflags, e.g.
	// -X "github.com/stackconf/stackconf/pkg/cli.version=1.0.0"
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// hostCollector supplies the concurrency hint. Tests swap it for a static one.
var hostCollector host.Collector = host.LocalCollector{}

// Execute runs the CLI with os.Args and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Resolve and render deployment metadata for Rails application stacks",
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "emit logs as JSON",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "engine settings file (yaml, json or toml); STACKCONF_* variables override it",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureLogging(cmd.Bool("debug"), cmd.Bool("log-json"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			resolveCmd(),
			renderCmd(),
			driversCmd(),
			serveCmd(),
		},
	}
}

func configureLogging(debug, json bool) {
	level := ""
	if debug {
		level = "debug"
	}
	if !json {
		logging.SetDefaultCLILogger(level)
		return
	}
	if debug {
		slog.SetDefault(logging.NewStructuredLogger(os.Stderr, name, version, slog.LevelDebug))
		return
	}
	logging.SetDefaultStructuredLogger(name, version)
}
