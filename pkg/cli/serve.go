package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/stackconf/stackconf/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve plan resolution over HTTP",
		Description: `Starts the API server:

  POST /v1/resolve   inventory JSON in, plan JSON out (?app= to select)
  GET  /v1/drivers   registered drivers
  GET  /health, /ready, /metrics`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "listen port (default: $PORT or 8080)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := buildConfig(ctx, cmd, hostCollector)
			if err != nil {
				return err
			}
			return api.Serve(ctx, int(cmd.Int("port")), cfg)
		},
	}
}
