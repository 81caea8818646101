package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/stackconf/stackconf/pkg/serializer"
)

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "resolve",
		EnableShellCompletion: true,
		Usage:                 "Resolve an inventory into a deployment plan without touching the host",
		Description: `Resolves every application of an inventory (or those named with --app)
and prints the plan: normalized attributes, the mapping each driver produced,
the artifacts it would render and any per-concern failures.

Exits non-zero when any application failed; the plan is still printed.

# Examples

  stackconf resolve -i inventory.yaml
  stackconf resolve -i cm://deploy/inventory --app dummy_project --format json
  stackconf resolve -i inventory.json -o cm://deploy/plan`,
		Flags: []cli.Flag{
			inventoryFlag,
			appFlag,
			outputFlag,
			formatFlag,
			kubeconfigFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := buildConfig(ctx, cmd, hostCollector)
			if err != nil {
				return err
			}

			plan, err := resolvePlan(ctx, cmd, cfg)
			if err != nil {
				return err
			}

			ser, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if err != nil {
				return err
			}
			if c, ok := ser.(serializer.Closer); ok {
				defer c.Close()
			}
			if err := ser.Serialize(ctx, plan); err != nil {
				return fmt.Errorf("failed to write plan: %w", err)
			}

			return failedError(plan.Failed())
		},
	}
}
