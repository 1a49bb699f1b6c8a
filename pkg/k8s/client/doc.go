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

// Package client builds Kubernetes API clients for the cns-ops API backend.
//
// # Kubeconfig Discovery
//
// The kubeconfig is resolved in this order:
//   - an explicit path (the --kubeconfig flag)
//   - the KUBECONFIG environment variable
//   - ~/.kube/config, if it exists
//   - in-cluster service account credentials
//
// A context override (the --context flag) selects a non-current context from
// the resolved kubeconfig.
//
// # Usage
//
//	clients, err := client.BuildClients(client.Options{Kubeconfig: path})
//	if err != nil {
//	    return fmt.Errorf("failed to build kubernetes clients: %w", err)
//	}
//	nodes, err := clients.Typed.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
//
// Clients bundles the typed clientset, a dynamic client for arbitrary manifest
// kinds, and a discovery-backed REST mapper that resolves a manifest's
// GroupVersionKind to its resource.
//
// # Testing
//
// Use k8s.io/client-go/kubernetes/fake and k8s.io/client-go/dynamic/fake in
// place of real clients; Clients is a plain struct for that reason.
package client
