package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/render"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:                  "render",
		EnableShellCompletion: true,
		Usage:                 "Resolve an inventory and write its artifacts to the host",
		Description: `Resolves the inventory and renders, for every application:

  - shared/{config,log,pids,scripts,sockets} under the deploy root
  - config/database.yml (or mongoid.yml) per environment
  - the app server config and control script
  - the nginx site, enabled by symlink
  - TLS material when SSL is enabled

Concerns that fail to resolve are reported and skipped; the rest of that
application is still rendered. Unchanged files are left untouched.

With --dry-run nothing is written; a line diff of every change is printed.

# Examples

  stackconf render -i inventory.yaml
  stackconf render -i inventory.yaml --root /tmp/stage --dry-run
  stackconf render -i inventory.yaml --systemd-unit-dir /etc/systemd/system`,
		Flags: []cli.Flag{
			inventoryFlag,
			appFlag,
			kubeconfigFlag,
			&cli.StringFlag{
				Name:  "root",
				Usage: "prefix every host path with this directory (default: paths.root_prefix, else /)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print diffs instead of writing",
			},
			&cli.StringFlag{
				Name:  "systemd-unit-dir",
				Usage: "also write a systemd unit per app server into this directory",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			extra := []config.Option{config.WithDryRun(cmd.Bool("dry-run"))}
			if cmd.IsSet("root") {
				root, err := filepath.Abs(cmd.String("root"))
				if err != nil {
					return fmt.Errorf("invalid --root: %w", err)
				}
				extra = append(extra, config.WithRootPrefix(root))
			}
			if dir := cmd.String("systemd-unit-dir"); dir != "" {
				extra = append(extra, config.WithSystemdUnitDir(dir))
			}

			cfg, err := buildConfig(ctx, cmd, hostCollector, extra...)
			if err != nil {
				return err
			}

			plan, err := resolvePlan(ctx, cmd, cfg)
			if err != nil {
				return err
			}

			out, err := render.NewApplier(cfg, render.WithDiffOutput(cmd.Root().Writer)).Apply(ctx, plan)
			if err != nil {
				return err
			}

			for _, res := range out.Results {
				for _, e := range res.Errors {
					slog.Error("render failed", "app", res.App, "error", e)
				}
			}
			fmt.Fprintln(cmd.Root().ErrWriter, out.Summary())

			return failedError(out.FailedApps())
		},
	}
}
