/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cns-ops/pkg/cluster"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
	"github.com/NVIDIA/cns-ops/pkg/k8s/client"
)

// newBackend builds the executor selected by --backend. Tests replace it.
var newBackend = func(_ context.Context, cmd *cli.Command) (cluster.Executor, error) {
	backend, err := cluster.ParseBackend(cmd.String(flagBackend))
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid --backend", err)
	}

	switch backend {
	case cluster.BackendAPI:
		clients, err := client.BuildClients(client.Options{
			Kubeconfig: cmd.String(flagKubeconfig),
			Context:    cmd.String(flagContext),
		})
		if err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeCommandFailed, "failed to build kubernetes clients", err)
		}
		return cluster.NewAPIExecutor(clients), nil
	default:
		return cluster.NewKubectlExecutor(cluster.KubectlConfig{
			Binary:     cmd.String(flagKubectl),
			Kubeconfig: cmd.String(flagKubeconfig),
			Context:    cmd.String(flagContext),
		}), nil
	}
}

// withExecutor builds the decorated executor, runs fn with it, and exports
// metrics when --metrics-file is set. Dry-run sits outside instrumentation so
// only operations that reach the cluster are measured.
func withExecutor(ctx context.Context, cmd *cli.Command, fn func(cluster.Executor) error) error {
	backend, err := newBackend(ctx, cmd)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	var exec cluster.Executor = cluster.Instrument(backend, cluster.InstrumentOptions{
		Timeout: cmd.Duration(flagTimeout),
		Rate:    cmd.Float(flagRate),
		Metrics: cluster.NewMetrics(reg),
		RunID:   runIDFrom(ctx),
	})
	if cmd.Bool(flagDryRun) {
		exec = cluster.NewDryRunExecutor(exec, cmd.Root().Writer)
	}

	runErr := fn(exec)

	if path := cmd.String(flagMetricsFile); path != "" {
		if err := prometheus.WriteToTextfile(path, reg); err != nil {
			slog.Warn("failed to write metrics file", "path", path, "error", err)
		} else {
			slog.Debug("metrics written", "path", path)
		}
	}

	return runErr
}
