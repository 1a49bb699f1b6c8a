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

package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/NVIDIA/cns-ops/pkg/defaults"
)

// Interface is an alias for kubernetes.Interface to allow easier mocking in tests.
type Interface = kubernetes.Interface

// Options selects the kubeconfig source.
type Options struct {
	// Kubeconfig is an explicit kubeconfig path. Empty means KUBECONFIG,
	// which may list several files, then ~/.kube/config.
	Kubeconfig string
	// Context overrides the kubeconfig's current-context.
	Context string
}

// Clients bundles everything the API backend needs to talk to one cluster.
type Clients struct {
	Typed   Interface
	Dynamic dynamic.Interface
	Mapper  meta.RESTMapper
}

// ResolveKubeconfig returns the kubeconfig files that would be loaded for the
// given explicit path:
//  1. the explicit path, if set
//  2. the existing files listed in KUBECONFIG, in order
//  3. ~/.kube/config, if it exists
//
// An empty result means in-cluster configuration.
func ResolveKubeconfig(kubeconfig string) []string {
	if kubeconfig != "" {
		return []string{kubeconfig}
	}
	var paths []string
	for _, path := range clientcmd.NewDefaultClientConfigLoadingRules().GetLoadingPrecedence() {
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		}
	}
	return paths
}

// BuildRESTConfig creates a rest.Config from the resolved kubeconfig files,
// merged the way kubectl merges them, honoring a context override. Without
// any kubeconfig it falls back to the in-cluster service account.
func BuildRESTConfig(opts Options) (*rest.Config, error) {
	paths := ResolveKubeconfig(opts.Kubeconfig)

	// InClusterConfig directly avoids "Neither --kubeconfig nor --master was specified"
	if len(paths) == 0 {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
		return config, nil
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	rules.ExplicitPath = opts.Kubeconfig
	overrides := &clientcmd.ConfigOverrides{CurrentContext: opts.Context}
	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config from %s: %w",
			strings.Join(paths, string(filepath.ListSeparator)), err)
	}
	return config, nil
}

// BuildKubeClient creates a typed Kubernetes client for the given options.
func BuildKubeClient(opts Options) (*kubernetes.Clientset, *rest.Config, error) {
	config, err := BuildRESTConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return client, config, nil
}

// BuildRESTMapper discovers the server's API groups once and returns a mapper
// from GroupVersionKind to resource.
func BuildRESTMapper(dc discovery.DiscoveryInterface) (meta.RESTMapper, error) {
	groups, err := restmapper.GetAPIGroupResources(dc)
	if err != nil {
		return nil, fmt.Errorf("failed to discover API resources: %w", err)
	}
	return restmapper.NewDiscoveryRESTMapper(groups), nil
}

// BuildClients creates the typed, dynamic and mapper clients for one cluster.
func BuildClients(opts Options) (*Clients, error) {
	typed, config, err := BuildKubeClient(opts)
	if err != nil {
		return nil, err
	}

	dyn, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	dcConfig := rest.CopyConfig(config)
	dcConfig.Timeout = defaults.ClusterDiscoveryTimeout
	dc, err := discovery.NewDiscoveryClientForConfig(dcConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	mapper, err := BuildRESTMapper(dc)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Typed:   typed,
		Dynamic: dyn,
		Mapper:  mapper,
	}, nil
}
