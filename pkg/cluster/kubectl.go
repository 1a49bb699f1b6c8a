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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/NVIDIA/cns-ops/pkg/defaults"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
)

// CommandRunner runs name with args and returns captured stdout and stderr.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// ExecRunner runs the command as a child process.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// KubectlConfig configures a KubectlExecutor.
type KubectlConfig struct {
	// Binary is the kubectl executable. Defaults to "kubectl" on PATH.
	Binary string
	// Kubeconfig is passed as --kubeconfig when set.
	Kubeconfig string
	// Context is passed as --context when set.
	Context string
	// Runner overrides process execution; tests use it to capture commands.
	Runner CommandRunner
}

// KubectlExecutor implements Executor by invoking kubectl.
type KubectlExecutor struct {
	binary     string
	globalArgs []string
	runner     CommandRunner
}

var _ Executor = (*KubectlExecutor)(nil)

// NewKubectlExecutor creates a KubectlExecutor.
func NewKubectlExecutor(cfg KubectlConfig) *KubectlExecutor {
	k := &KubectlExecutor{
		binary: cfg.Binary,
		runner: cfg.Runner,
	}
	if k.binary == "" {
		k.binary = defaults.KubectlBinary
	}
	if k.runner == nil {
		k.runner = ExecRunner
	}
	if cfg.Kubeconfig != "" {
		k.globalArgs = append(k.globalArgs, "--kubeconfig", cfg.Kubeconfig)
	}
	if cfg.Context != "" {
		k.globalArgs = append(k.globalArgs, "--context", cfg.Context)
	}
	return k
}

// ListNodes runs `kubectl get nodes -o json`.
func (k *KubectlExecutor) ListNodes(ctx context.Context) ([]string, error) {
	out, err := k.run(ctx, "get", "nodes", "-o", "json")
	if err != nil {
		return nil, err
	}

	var list corev1.NodeList
	if err := json.Unmarshal(out, &list); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeCommandFailed, "failed to decode node list", err)
	}

	names := make([]string, 0, len(list.Items))
	for _, n := range list.Items {
		names = append(names, n.Name)
	}
	return names, nil
}

// LabelNode runs `kubectl label node <node> <key>=<value> --overwrite`.
func (k *KubectlExecutor) LabelNode(ctx context.Context, node, key, value string) error {
	_, err := k.run(ctx, "label", "node", node, key+"="+value, "--overwrite")
	return err
}

// NamespaceExists runs `kubectl get namespace <ns>`. Any failure is
// reported as absence; a real problem resurfaces when creation is attempted.
func (k *KubectlExecutor) NamespaceExists(ctx context.Context, namespace string) (bool, error) {
	if _, err := k.run(ctx, "get", "namespace", namespace); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, nil
	}
	return true, nil
}

// CreateNamespace runs `kubectl create namespace <ns>`.
func (k *KubectlExecutor) CreateNamespace(ctx context.Context, namespace string) error {
	_, err := k.run(ctx, "create", "namespace", namespace)
	return err
}

// ApplyManifest runs `kubectl apply -f <path> -n <ns>`.
func (k *KubectlExecutor) ApplyManifest(ctx context.Context, namespace, path string) error {
	_, err := k.run(ctx, "apply", "-f", path, "-n", namespace)
	return err
}

// ScaleDeployment runs `kubectl scale deployment <name> --replicas=<n> -n <ns>`.
func (k *KubectlExecutor) ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) error {
	_, err := k.run(ctx, "scale", "deployment", name, "--replicas="+strconv.Itoa(int(replicas)), "-n", namespace)
	return err
}

func (k *KubectlExecutor) run(ctx context.Context, args ...string) ([]byte, error) {
	full := make([]string, 0, len(k.globalArgs)+len(args))
	full = append(full, k.globalArgs...)
	full = append(full, args...)

	stdout, stderr, err := k.runner(ctx, k.binary, full...)
	if err == nil {
		return stdout, nil
	}

	command := k.binary + " " + strings.Join(args, " ")
	detail := strings.TrimSpace(string(stderr))

	code := cnserrors.ErrCodeCommandFailed
	if ctxErr := ctx.Err(); ctxErr != nil {
		// exec reports a killed process, not the context error.
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			code = cnserrors.ErrCodeTimeout
		}
		err = errors.Join(err, ctxErr)
	}

	msg := fmt.Sprintf("%s failed", command)
	if detail != "" {
		msg = fmt.Sprintf("%s failed: %s", command, detail)
	}

	return nil, cnserrors.WrapWithContext(code, msg, err, map[string]any{
		"command": command,
		"stderr":  detail,
	})
}
