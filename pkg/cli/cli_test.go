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

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cns-ops/pkg/cluster"
	"github.com/NVIDIA/cns-ops/pkg/cluster/clustertest"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
)

// useRecorder routes executor construction to rec and counts how often a
// backend was requested.
func useRecorder(t *testing.T, rec *clustertest.Recorder) *int {
	t.Helper()
	built := 0
	orig := newBackend
	newBackend = func(context.Context, *cli.Command) (cluster.Executor, error) {
		built++
		return rec, nil
	}
	t.Cleanup(func() { newBackend = orig })
	return &built
}

func runCmd(cmd *cli.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.Writer = &out
	cmd.ErrWriter = &bytes.Buffer{}
	err := cmd.Run(context.Background(), append([]string{cmd.Name}, args...))
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "invalid request", err: cnserrors.New(cnserrors.ErrCodeInvalidRequest, "bad"), want: 2},
		{name: "parse error", err: cnserrors.New(cnserrors.ErrCodeParse, "bad"), want: 1},
		{name: "command failed", err: cnserrors.New(cnserrors.ErrCodeCommandFailed, "bad"), want: 1},
		{name: "plain error", err: errors.New("bad"), want: 1},
		{name: "canceled", err: fmt.Errorf("wrapped: %w", context.Canceled), want: 130},
		{name: "canceled inside structured", err: cnserrors.Wrap(cnserrors.ErrCodeTimeout, "wait", context.Canceled), want: 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestLabelCmd(t *testing.T) {
	t.Run("names", func(t *testing.T) {
		rec := &clustertest.Recorder{}
		useRecorder(t, rec)

		out, err := runCmd(labelCmd(), "--names", "n2,n1", "tier=gpu")
		require.NoError(t, err)
		assert.Equal(t, "label_node n2 tier=gpu\nlabel_node n1 tier=gpu", rec.Trace())
		assert.Contains(t, out, "Label tier=gpu added to node n1 successfully.")
	})

	t.Run("label before flags", func(t *testing.T) {
		rec := &clustertest.Recorder{}
		useRecorder(t, rec)

		_, err := runCmd(labelCmd(), "tier=gpu", "--names", "n1,n2")
		require.NoError(t, err)
		assert.Equal(t, "label_node n1 tier=gpu\nlabel_node n2 tier=gpu", rec.Trace())
	})

	t.Run("count", func(t *testing.T) {
		rec := &clustertest.Recorder{Nodes: []string{"a", "b", "c"}}
		useRecorder(t, rec)

		_, err := runCmd(labelCmd(), "--count", "2", "tier=gpu")
		require.NoError(t, err)
		assert.Equal(t, "list_nodes\nlabel_node a tier=gpu\nlabel_node b tier=gpu", rec.Trace())
	})

	t.Run("count exceeds nodes", func(t *testing.T) {
		rec := &clustertest.Recorder{Nodes: []string{"a"}}
		useRecorder(t, rec)

		_, err := runCmd(labelCmd(), "--count", "2", "tier=gpu")
		require.Error(t, err)
		assert.Equal(t, 2, ExitCode(err))
		assert.Zero(t, rec.Count(cluster.OpLabelNode))
	})

	t.Run("dry run", func(t *testing.T) {
		rec := &clustertest.Recorder{}
		useRecorder(t, rec)

		out, err := runCmd(labelCmd(), "--dry-run", "--names", "n1", "tier=gpu")
		require.NoError(t, err)
		assert.Zero(t, rec.Count(cluster.OpLabelNode))
		assert.Contains(t, out, "[dry-run] label node n1 tier=gpu")
	})
}

func TestLabelCmd_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no selector", args: []string{"tier=gpu"}},
		{name: "both selectors", args: []string{"--names", "a", "--count", "1", "tier=gpu"}},
		{name: "zero count", args: []string{"--count", "0", "tier=gpu"}},
		{name: "empty name", args: []string{"--names", "a,,b", "tier=gpu"}},
		{name: "missing label", args: []string{"--names", "a"}},
		{name: "extra argument", args: []string{"--names", "a", "tier=gpu", "extra"}},
		{name: "malformed label", args: []string{"--names", "a", "tier"}},
		{name: "unknown flag", args: []string{"--bogus", "tier=gpu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &clustertest.Recorder{Nodes: []string{"a"}}
			built := useRecorder(t, rec)

			_, err := runCmd(labelCmd(), tt.args...)
			require.Error(t, err)
			assert.Equal(t, 2, ExitCode(err), "error: %v", err)
			assert.Zero(t, *built, "input errors must be reported before any cluster access")
			assert.Empty(t, rec.Calls())
		})
	}
}

func TestLabelCmd_InvalidBackend(t *testing.T) {
	_, err := runCmd(labelCmd(), "--backend", "ssh", "--names", "a", "tier=gpu")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestDeployCmd(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("namespace: bench\nservices:\n  web:\n    replicas: 2\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmpl.yaml"),
		[]byte("kind: ConfigMap\nmetadata:\n  namespace: {{ namespace }}\n---\nkind: Secret\n"), 0o600))

	t.Run("deploys", func(t *testing.T) {
		rec := &clustertest.Recorder{}
		useRecorder(t, rec)

		out, err := runCmd(deployCmd(), "--template-root", dir, configPath, "tmpl.yaml")
		require.NoError(t, err)
		assert.Equal(t, `namespace_exists bench
create_namespace bench
apply_manifest bench
apply_manifest bench
scale_deployment bench/web=2`, rec.Trace())
		assert.Contains(t, out, "Namespace 'bench' does not exist. Creating it...")
		assert.Contains(t, out, "Scaling 'web' to 2 replicas...")
	})

	t.Run("writes metrics file", func(t *testing.T) {
		rec := &clustertest.Recorder{Namespaces: map[string]bool{"bench": true}}
		useRecorder(t, rec)
		metricsPath := filepath.Join(t.TempDir(), "cns.prom")

		_, err := runCmd(deployCmd(), "--template-root", dir, "--metrics-file", metricsPath, configPath, "tmpl.yaml")
		require.NoError(t, err)

		data, err := os.ReadFile(metricsPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), `cns_ops_cluster_operations_total{operation="apply_manifest",result="success"} 2`)
		assert.Contains(t, string(data), `cns_ops_cluster_operations_total{operation="scale_deployment",result="success"} 1`)
	})

	t.Run("render failure exits 1", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("{{ .image }}"), 0o600))
		rec := &clustertest.Recorder{}
		useRecorder(t, rec)

		_, err := runCmd(deployCmd(), "--template-root", dir, configPath, "broken.yaml")
		require.Error(t, err)
		assert.Equal(t, 1, ExitCode(err))
		assert.Equal(t, cnserrors.ErrCodeRender, cnserrors.CodeOf(err))
		assert.Empty(t, rec.Calls())
	})

	t.Run("cluster failure exits 1", func(t *testing.T) {
		rec := &clustertest.Recorder{FailOn: cluster.OpApplyManifest}
		useRecorder(t, rec)

		_, err := runCmd(deployCmd(), "--template-root", dir, configPath, "tmpl.yaml")
		require.Error(t, err)
		assert.Equal(t, 1, ExitCode(err))
		assert.Zero(t, rec.Count(cluster.OpScaleDeployment))
	})

	t.Run("wrong argument count", func(t *testing.T) {
		rec := &clustertest.Recorder{}
		built := useRecorder(t, rec)

		_, err := runCmd(deployCmd(), configPath)
		require.Error(t, err)
		assert.Equal(t, 2, ExitCode(err))
		assert.Zero(t, *built)
	})
}

func TestClusterFlags_KubeconfigOnlyFromFlag(t *testing.T) {
	t.Setenv("KUBECONFIG", "/a/config:/b/config")

	var got []string
	orig := newBackend
	newBackend = func(_ context.Context, cmd *cli.Command) (cluster.Executor, error) {
		got = append(got, cmd.String(flagKubeconfig))
		return &clustertest.Recorder{}, nil
	}
	t.Cleanup(func() { newBackend = orig })

	_, err := runCmd(labelCmd(), "--names", "n1", "tier=gpu")
	require.NoError(t, err)
	_, err = runCmd(labelCmd(), "-k", "/ops/config", "--names", "n1", "tier=gpu")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "/ops/config"}, got)
}

func TestClusterFlags_Independent(t *testing.T) {
	a, b := clusterFlags(), clusterFlags()
	require.Len(t, b, len(a))
	for i := range a {
		assert.NotSame(t, a[i], b[i], a[i].Names()[0])
	}
}
