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
	"fmt"
	"io"
	"os"
)

// DryRunExecutor forwards read-only operations to an underlying executor and
// prints mutating ones instead of performing them.
type DryRunExecutor struct {
	inner Executor
	out   io.Writer
}

var _ Executor = (*DryRunExecutor)(nil)

// NewDryRunExecutor wraps inner. A nil out writes to stdout.
func NewDryRunExecutor(inner Executor, out io.Writer) *DryRunExecutor {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunExecutor{inner: inner, out: out}
}

func (d *DryRunExecutor) ListNodes(ctx context.Context) ([]string, error) {
	return d.inner.ListNodes(ctx)
}

func (d *DryRunExecutor) NamespaceExists(ctx context.Context, namespace string) (bool, error) {
	return d.inner.NamespaceExists(ctx, namespace)
}

func (d *DryRunExecutor) LabelNode(_ context.Context, node, key, value string) error {
	d.printf("label node %s %s=%s", node, key, value)
	return nil
}

func (d *DryRunExecutor) CreateNamespace(_ context.Context, namespace string) error {
	d.printf("create namespace %s", namespace)
	return nil
}

// ApplyManifest prints the manifest's kind and name, or its path when the
// staged document cannot be decoded.
func (d *DryRunExecutor) ApplyManifest(_ context.Context, namespace, path string) error {
	obj, err := decodeManifest(path)
	if err != nil {
		d.printf("apply %s -n %s", path, namespace)
		return nil
	}
	d.printf("apply %s/%s -n %s", obj.GetKind(), obj.GetName(), namespace)
	return nil
}

func (d *DryRunExecutor) ScaleDeployment(_ context.Context, namespace, name string, replicas int32) error {
	d.printf("scale deployment %s --replicas=%d -n %s", name, replicas, namespace)
	return nil
}

func (d *DryRunExecutor) printf(format string, args ...any) {
	fmt.Fprintf(d.out, "[dry-run] "+format+"\n", args...)
}
