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

package cluster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
)

// Executor issues cluster-management operations. Every operation blocks
// until the cluster answers and reports failure as an error; callers decide
// whether a failure ends the run.
type Executor interface {
	// ListNodes returns node names in the order the cluster returns them.
	ListNodes(ctx context.Context) ([]string, error)

	// LabelNode sets key=value on the node, overwriting any existing value.
	LabelNode(ctx context.Context, node, key, value string) error

	// NamespaceExists probes for the namespace.
	NamespaceExists(ctx context.Context, namespace string) (bool, error)

	// CreateNamespace creates the namespace.
	CreateNamespace(ctx context.Context, namespace string) error

	// ApplyManifest applies the single manifest document stored at path
	// into namespace.
	ApplyManifest(ctx context.Context, namespace, path string) error

	// ScaleDeployment sets the deployment's replica count.
	ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) error
}

// Operation names an Executor method in logs and metrics.
type Operation string

const (
	OpListNodes       Operation = "list_nodes"
	OpLabelNode       Operation = "label_node"
	OpNamespaceExists Operation = "namespace_exists"
	OpCreateNamespace Operation = "create_namespace"
	OpApplyManifest   Operation = "apply_manifest"
	OpScaleDeployment Operation = "scale_deployment"
)

// Backend selects how operations reach the cluster.
type Backend string

const (
	// BackendKubectl shells out to the kubectl binary.
	BackendKubectl Backend = "kubectl"
	// BackendAPI talks to the Kubernetes API server through client-go.
	BackendAPI Backend = "api"
)

// SupportedBackends lists the valid Backend values.
func SupportedBackends() []Backend {
	return []Backend{BackendKubectl, BackendAPI}
}

// ParseBackend converts a flag value to a Backend.
func ParseBackend(s string) (Backend, error) {
	for _, b := range SupportedBackends() {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q (supported values: %v)", s, SupportedBackends())
}

// decodeManifest reads one YAML or JSON manifest document from path.
func decodeManifest(path string) (*unstructured.Unstructured, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", path, err)
	}
	defer f.Close()

	obj := &unstructured.Unstructured{}
	err = utilyaml.NewYAMLOrJSONDecoder(f, 4096).Decode(&obj.Object)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	if len(obj.Object) == 0 {
		return nil, fmt.Errorf("manifest %s contains no object", path)
	}
	if obj.GetKind() == "" || obj.GetAPIVersion() == "" {
		return nil, fmt.Errorf("manifest %s is missing apiVersion or kind", path)
	}
	return obj, nil
}
