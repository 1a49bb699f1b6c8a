// Package cli implements the command-line interfaces of the cns-ops tools.
//
// # Overview
//
// Two single-purpose commands share one set of cluster flags:
//
// cns-label - Add a label to Kubernetes nodes:
//
//	cns-label (--names n1,n2 | --count N) key=value
//
// Labels the listed nodes, or the first N nodes in cluster order, with
// overwrite semantics. Stops at the first node that fails.
//
// cns-deploy - Deploy services from a template:
//
//	cns-deploy [--template-root DIR] config.yaml template.yaml
//
// Ensures the configured namespace exists, applies every manifest rendered
// from the template and scales each configured service.
//
// # Cluster Flags
//
//	--kubeconfig, -k  Kubeconfig path (otherwise kubectl rules: KUBECONFIG list)
//	--context         Kubeconfig context (CNS_KUBE_CONTEXT)
//	--backend         kubectl or api (CNS_BACKEND, default kubectl)
//	--kubectl         kubectl binary (CNS_KUBECTL)
//	--timeout         Per-operation timeout (CNS_TIMEOUT, default 0 = none)
//	--rate            Operations per second, 0 = unlimited (CNS_RATE)
//	--dry-run         Print mutating operations instead of running them
//	--metrics-file    Prometheus textfile output (CNS_METRICS_FILE)
//	--log-level       debug, info, warn, error (LOG_LEVEL)
//
// Flags may appear before or after positional arguments:
//
//	cns-label tier=gpu --names n1,n2
//
// # Output
//
// Progress lines go to stdout. Structured JSON logs go to stderr.
//
// # Exit Codes
//
//	0    Success
//	1    Execution failure (config, render or cluster operation)
//	2    Invalid arguments, including a count larger than the cluster
//	130  Interrupted
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/cns-ops/pkg/cli.version=1.0.0'"
package cli
