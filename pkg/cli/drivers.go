package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/stackconf/stackconf/pkg/serializer"
)

func driversCmd() *cli.Command {
	return &cli.Command{
		Name:  "drivers",
		Usage: "List the registered drivers and the discriminators that select them",
		Flags: []cli.Flag{formatFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			registry, err := newRegistry()
			if err != nil {
				return err
			}
			return serializer.NewWriter(outFormat, cmd.Root().Writer).Serialize(ctx, registry.Describe())
		},
	}
}
