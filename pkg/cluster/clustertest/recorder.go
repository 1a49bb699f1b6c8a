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

// Package clustertest provides an in-memory cluster.Executor that records
// every call, for testing code built on top of the executor.
package clustertest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/NVIDIA/cns-ops/pkg/cluster"
)

// Call is one recorded executor invocation.
type Call struct {
	Op        cluster.Operation
	Node      string
	Key       string
	Value     string
	Namespace string
	Name      string
	Replicas  int32
	// Manifest holds the content of the staged file at the time of the call.
	Manifest string
	// Path is the staged file path passed to ApplyManifest.
	Path string
}

func (c Call) String() string {
	switch c.Op {
	case cluster.OpLabelNode:
		return fmt.Sprintf("%s %s %s=%s", c.Op, c.Node, c.Key, c.Value)
	case cluster.OpNamespaceExists, cluster.OpCreateNamespace:
		return fmt.Sprintf("%s %s", c.Op, c.Namespace)
	case cluster.OpApplyManifest:
		return fmt.Sprintf("%s %s", c.Op, c.Namespace)
	case cluster.OpScaleDeployment:
		return fmt.Sprintf("%s %s/%s=%d", c.Op, c.Namespace, c.Name, c.Replicas)
	default:
		return string(c.Op)
	}
}

// Recorder is a fake cluster.Executor. The zero value is a cluster with no
// nodes and no namespaces.
type Recorder struct {
	mu sync.Mutex

	// Nodes is returned by ListNodes.
	Nodes []string
	// Namespaces holds namespaces that exist. CreateNamespace adds to it.
	Namespaces map[string]bool
	// FailOn makes the first call for the operation fail; when FailAt is
	// non-zero, the FailAt-th call of that operation fails instead.
	FailOn cluster.Operation
	FailAt int
	// Err is the error returned for the failing call.
	Err error

	calls  []Call
	counts map[cluster.Operation]int
}

var _ cluster.Executor = (*Recorder)(nil)

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many times op was invoked.
func (r *Recorder) Count(op cluster.Operation) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[op]
}

// Trace renders the recorded calls, one per line.
func (r *Recorder) Trace() string {
	calls := r.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, "\n")
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.counts == nil {
		r.counts = map[cluster.Operation]int{}
	}
	r.counts[c.Op]++
	r.calls = append(r.calls, c)

	if c.Op != r.FailOn {
		return nil
	}
	at := r.FailAt
	if at == 0 {
		at = 1
	}
	if r.counts[c.Op] != at {
		return nil
	}
	if r.Err != nil {
		return r.Err
	}
	return fmt.Errorf("%s failed", c.Op)
}

func (r *Recorder) ListNodes(_ context.Context) ([]string, error) {
	if err := r.record(Call{Op: cluster.OpListNodes}); err != nil {
		return nil, err
	}
	return append([]string(nil), r.Nodes...), nil
}

func (r *Recorder) LabelNode(_ context.Context, node, key, value string) error {
	return r.record(Call{Op: cluster.OpLabelNode, Node: node, Key: key, Value: value})
}

func (r *Recorder) NamespaceExists(_ context.Context, namespace string) (bool, error) {
	if err := r.record(Call{Op: cluster.OpNamespaceExists, Namespace: namespace}); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Namespaces[namespace], nil
}

func (r *Recorder) CreateNamespace(_ context.Context, namespace string) error {
	if err := r.record(Call{Op: cluster.OpCreateNamespace, Namespace: namespace}); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Namespaces == nil {
		r.Namespaces = map[string]bool{}
	}
	r.Namespaces[namespace] = true
	return nil
}

func (r *Recorder) ApplyManifest(_ context.Context, namespace, path string) error {
	c := Call{Op: cluster.OpApplyManifest, Namespace: namespace, Path: path}
	if b, err := os.ReadFile(path); err == nil {
		c.Manifest = string(b)
	}
	return r.record(c)
}

func (r *Recorder) ScaleDeployment(_ context.Context, namespace, name string, replicas int32) error {
	return r.record(Call{Op: cluster.OpScaleDeployment, Namespace: namespace, Name: name, Replicas: replicas})
}
