/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cns-ops/pkg/cluster"
	"github.com/NVIDIA/cns-ops/pkg/defaults"
	"github.com/NVIDIA/cns-ops/pkg/logging"
)

const (
	flagKubeconfig  = "kubeconfig"
	flagContext     = "context"
	flagBackend     = "backend"
	flagKubectl     = "kubectl"
	flagTimeout     = "timeout"
	flagRate        = "rate"
	flagDryRun      = "dry-run"
	flagMetricsFile = "metrics-file"
	flagLogLevel    = "log-level"
)

// clusterFlags returns the flags shared by both commands. Flags hold parsed
// state, so every command gets its own instances.
func clusterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagKubeconfig,
			Aliases: []string{"k"},
			Usage:   "Path to kubeconfig file (defaults to the KUBECONFIG list, then ~/.kube/config, then in-cluster)",
		},
		&cli.StringFlag{
			Name:    flagContext,
			Usage:   "Kubeconfig context to use instead of the current context",
			Sources: cli.EnvVars("CNS_KUBE_CONTEXT"),
		},
		&cli.StringFlag{
			Name:    flagBackend,
			Usage:   fmt.Sprintf("How to reach the cluster %v", cluster.SupportedBackends()),
			Sources: cli.EnvVars("CNS_BACKEND"),
			Value:   string(cluster.BackendKubectl),
		},
		&cli.StringFlag{
			Name:    flagKubectl,
			Usage:   "kubectl binary used by the kubectl backend",
			Sources: cli.EnvVars("CNS_KUBECTL"),
			Value:   defaults.KubectlBinary,
		},
		&cli.DurationFlag{
			Name:    flagTimeout,
			Usage:   "Timeout for each cluster operation (0 disables)",
			Sources: cli.EnvVars("CNS_TIMEOUT"),
			Value:   defaults.ClusterOperationTimeout,
		},
		&cli.FloatFlag{
			Name:    flagRate,
			Usage:   "Maximum cluster operations per second (0 means unlimited)",
			Sources: cli.EnvVars("CNS_RATE"),
		},
		&cli.BoolFlag{
			Name:  flagDryRun,
			Usage: "Print mutating operations instead of performing them",
		},
		&cli.StringFlag{
			Name:    flagMetricsFile,
			Usage:   "Write operation metrics in Prometheus textfile format to this path",
			Sources: cli.EnvVars("CNS_METRICS_FILE"),
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.EnvVars(logging.EnvVarLogLevel),
			Value:   "info",
		},
	}
}
