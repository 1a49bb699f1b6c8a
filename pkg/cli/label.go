/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cns-ops/pkg/cluster"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
	"github.com/NVIDIA/cns-ops/pkg/labeler"
)

const labelName = "cns-label"

func labelCmd() *cli.Command {
	return &cli.Command{
		Name:      labelName,
		Usage:     "Add a label to Kubernetes nodes",
		Version:   versionString(),
		ArgsUsage: "<key=value>",
		Description: `Apply one label to an explicit list of nodes or to the first N nodes
the cluster lists. Existing values are overwritten.

Exactly one of --names or --count is required. A count larger than the
number of nodes fails before any node is labeled. The first failed label
stops the run.

# Examples

Label two named nodes:
  cns-label --names node1,node2 benchmark=true

Label the first three nodes through the API server:
  cns-label --backend api --count 3 benchmark=true`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "names",
				Usage: "Comma-separated list of node names to add the label to",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of nodes to label, in cluster order",
			},
		}, clusterFlags()...),
		Before:       before(labelName),
		OnUsageError: usageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return cnserrors.Newf(cnserrors.ErrCodeInvalidRequest,
					"exactly one label argument (key=value) is required, got %d", cmd.NArg())
			}

			opts := labeler.Options{
				Label:    cmd.Args().First(),
				Count:    int(cmd.Int("count")),
				NamesSet: cmd.IsSet("names"),
				CountSet: cmd.IsSet("count"),
			}
			if opts.NamesSet {
				names, err := labeler.ParseNames(cmd.String("names"))
				if err != nil {
					return err
				}
				opts.Names = names
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			return withExecutor(ctx, cmd, func(exec cluster.Executor) error {
				return labeler.New(exec, cmd.Root().Writer).Run(ctx, opts)
			})
		},
	}
}
