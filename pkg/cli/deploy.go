/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cns-ops/pkg/cluster"
	"github.com/NVIDIA/cns-ops/pkg/defaults"
	"github.com/NVIDIA/cns-ops/pkg/deployer"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
)

const deployName = "cns-deploy"

func deployCmd() *cli.Command {
	return &cli.Command{
		Name:      deployName,
		Usage:     "Deploy services using a template and configuration file",
		Version:   versionString(),
		ArgsUsage: "<config_file> <template_file>",
		Description: `Render a manifest template into the configured namespace, apply every
manifest document, then scale each configured service.

The configuration file has the shape:

  namespace: bench
  services:
    frontend:
      replicas: 3
    backend: {}        # replicas defaults to 1

The template may reference {{ namespace }} and separate documents with
lines consisting of exactly "---". The namespace is created when missing.
The first failing step stops the run and nothing is rolled back.

# Examples

  cns-deploy config.yaml deployment_template.yaml
  cns-deploy --template-root ./templates --dry-run config.yaml bench.yaml`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "template-root",
				Usage:   "Directory relative template paths are resolved against",
				Sources: cli.EnvVars("CNS_TEMPLATE_ROOT"),
				Value:   defaults.TemplateRoot,
			},
		}, clusterFlags()...),
		Before:       before(deployName),
		OnUsageError: usageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return cnserrors.Newf(cnserrors.ErrCodeInvalidRequest,
					"expected <config_file> <template_file>, got %d arguments", cmd.NArg())
			}

			opts := deployer.Options{
				ConfigPath:   cmd.Args().Get(0),
				TemplatePath: cmd.Args().Get(1),
				TemplateRoot: cmd.String("template-root"),
			}

			return withExecutor(ctx, cmd, func(exec cluster.Executor) error {
				return deployer.New(exec, cmd.Root().Writer).Run(ctx, opts)
			})
		},
	}
}
