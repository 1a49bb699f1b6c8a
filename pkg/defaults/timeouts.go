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

package defaults

import "time"

// Cluster operation timeouts.
const (
	// ClusterOperationTimeout bounds a single cluster operation (one kubectl
	// invocation or one API round trip). Zero leaves operations bounded only
	// by the parent context and whatever kubectl enforces itself.
	ClusterOperationTimeout time.Duration = 0

	// ClusterDiscoveryTimeout bounds API group discovery when building the
	// REST mapper for the API backend.
	ClusterDiscoveryTimeout = 30 * time.Second
)

// Executor defaults.
const (
	// KubectlBinary is the default cluster CLI looked up on PATH.
	KubectlBinary = "kubectl"

	// FieldManager identifies writes made through the API backend.
	FieldManager = "cns-ops"

	// RateLimitBurst is the burst size used when an operation rate is set.
	RateLimitBurst = 1
)

// Deployer defaults.
const (
	// DefaultReplicas is used for services that do not declare replicas.
	DefaultReplicas int32 = 1

	// TemplateRoot is the directory template paths are resolved against.
	TemplateRoot = "."

	// StagingFilePattern names the transient manifest file.
	StagingFilePattern = "cns-deploy-*.yaml"
)
