// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cluster issues the cluster-management operations used by the
// labeler and the deployer.
//
// # Executor
//
// Executor is the single seam between domain logic and the cluster. Two
// backends implement it:
//
//   - KubectlExecutor shells out to kubectl, one process per operation.
//   - APIExecutor talks to the API server through client-go.
//
// Both report failures as errors carrying the COMMAND_FAILED code (NOT_FOUND
// for missing objects on the API backend); callers decide whether a failure
// ends the run.
//
// # Decorators
//
// DryRunExecutor forwards reads and prints writes. InstrumentedExecutor adds
// a per-operation timeout, a client-side rate limit, debug logs and
// Prometheus metrics:
//
//	exec := cluster.Instrument(cluster.NewKubectlExecutor(cluster.KubectlConfig{}),
//	    cluster.InstrumentOptions{
//	        Timeout: 30 * time.Second,
//	        Metrics: cluster.NewMetrics(prometheus.NewRegistry()),
//	    })
//
// Operations run sequentially; no executor issues calls concurrently.
package cluster
