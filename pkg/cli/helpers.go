package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/descriptor"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/driver/builtin"
	"github.com/stackconf/stackconf/pkg/engine"
	"github.com/stackconf/stackconf/pkg/host"
	"github.com/stackconf/stackconf/pkg/serializer"
)

var (
	inventoryFlag = &cli.StringFlag{
		Name:     "inventory",
		Aliases:  []string{"i"},
		Required: true,
		Usage:    "inventory file path or ConfigMap URI (cm://namespace/name)",
	}

	appFlag = &cli.StringSliceFlag{
		Name:    "app",
		Aliases: []string{"a"},
		Usage:   "limit to the given application shortname (can be repeated)",
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path or ConfigMap URI (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}

	kubeconfigFlag = &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "kubeconfig used for cm:// inventories (default: $KUBECONFIG, ~/.kube/config or in-cluster)",
	}
)

// parseOutputFormat extracts and validates the output format from CLI flags.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %s",
			outFormat, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return outFormat, nil
}

// buildConfig layers host facts, the --config file with STACKCONF_*
// variables, then command-specific options, later layers winning. Systemd
// wrapper units are disabled when the host does not run systemd.
func buildConfig(ctx context.Context, cmd *cli.Command, collector host.Collector, extra ...config.Option) (*config.Config, error) {
	opts := []config.Option{config.WithVersion(version)}

	facts, err := collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect host facts: %w", err)
	}
	opts = append(opts, config.WithConcurrency(facts.CPUs))

	loaded, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	opts = append(opts, loaded...)
	opts = append(opts, extra...)

	cfg := config.NewConfig(opts...)
	if dir := cfg.SystemdUnitDir(); dir != "" && !facts.Systemd {
		slog.Warn("host is not running systemd, skipping wrapper units",
			"host", facts.Hostname, "systemd_unit_dir", dir)
		cfg = config.NewConfig(append(opts, config.WithSystemdUnitDir(""))...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("configuration built",
		"host", facts.Hostname,
		"systemd", facts.Systemd,
		"concurrency", cfg.Concurrency(),
		"parallelism", cfg.Parallelism(),
		"root", cfg.RootPrefix(),
		"dry_run", cfg.DryRun())
	return cfg, nil
}

func loadInventory(cmd *cli.Command) (*descriptor.Inventory, error) {
	path := cmd.String("inventory")
	inv, err := serializer.FromFileWithKubeconfig[descriptor.Inventory](path, cmd.String("kubeconfig"))
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory %s: %w", path, err)
	}
	return inv, nil
}

func resolvePlan(ctx context.Context, cmd *cli.Command, cfg *config.Config) (*engine.Plan, error) {
	inv, err := loadInventory(cmd)
	if err != nil {
		return nil, err
	}

	registry, err := newRegistry()
	if err != nil {
		return nil, err
	}
	return engine.New(cfg, registry, engine.WithApplications(cmd.StringSlice("app")...)).Resolve(ctx, inv)
}

func newRegistry() (*driver.Registry, error) {
	registry, err := builtin.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build driver registry: %w", err)
	}
	return registry, nil
}

// failedError reports failed applications once their output is written.
func failedError(failed []string) error {
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d application(s) failed: %s", len(failed), strings.Join(failed, ", "))
}
