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

package deployer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/cns-ops/pkg/cluster"
	"github.com/NVIDIA/cns-ops/pkg/cluster/clustertest"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
)

const (
	testConfigDoc = `namespace: bench
services:
  web:
    replicas: 3
  worker:
`
	testTemplate = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
  namespace: {{ namespace }}
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: worker
  namespace: {{ .namespace }}
---
`
)

type fixture struct {
	opts Options
	rec  *clustertest.Recorder
	out  *bytes.Buffer
}

func newFixture(t *testing.T, configDoc, tmpl string) *fixture {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "template.yaml", tmpl)
	return &fixture{
		opts: Options{
			ConfigPath:   writeFile(t, dir, "config.yaml", configDoc),
			TemplatePath: "template.yaml",
			TemplateRoot: dir,
		},
		rec: &clustertest.Recorder{},
		out: &bytes.Buffer{},
	}
}

func (f *fixture) run() error {
	return New(f.rec, f.out).Run(context.Background(), f.opts)
}

func assertStagingRemoved(t *testing.T, rec *clustertest.Recorder) {
	t.Helper()
	for _, c := range rec.Calls() {
		if c.Op != cluster.OpApplyManifest {
			continue
		}
		_, err := os.Stat(c.Path)
		assert.True(t, os.IsNotExist(err), "staging file %s must be removed", c.Path)
	}
}

func TestRun_CreatesMissingNamespace(t *testing.T) {
	f := newFixture(t, testConfigDoc, testTemplate)

	require.NoError(t, f.run())

	assert.Equal(t, `namespace_exists bench
create_namespace bench
apply_manifest bench
apply_manifest bench
scale_deployment bench/web=3
scale_deployment bench/worker=1`, f.rec.Trace())

	calls := f.rec.Calls()
	assert.Contains(t, calls[2].Manifest, "name: web\n  namespace: bench")
	assert.Contains(t, calls[3].Manifest, "name: worker\n  namespace: bench")
	assert.Equal(t, calls[2].Path, calls[3].Path, "one staging file is reused")

	assert.Equal(t, `Namespace 'bench' does not exist. Creating it...
Scaling 'web' to 3 replicas...
Scaling 'worker' to 1 replicas...
`, f.out.String())

	assertStagingRemoved(t, f.rec)
}

func TestRun_ExistingNamespace(t *testing.T) {
	f := newFixture(t, testConfigDoc, testTemplate)
	f.rec.Namespaces = map[string]bool{"bench": true}

	require.NoError(t, f.run())

	assert.Zero(t, f.rec.Count(cluster.OpCreateNamespace))
	assert.Equal(t, 2, f.rec.Count(cluster.OpApplyManifest))
	assert.NotContains(t, f.out.String(), "does not exist")
}

func TestRun_ScaleOrderFollowsDocument(t *testing.T) {
	cfg := "namespace: bench\nservices:\n  zeta: {}\n  alpha:\n    replicas: 0\n  mid:\n    replicas: 2\n"
	f := newFixture(t, cfg, "kind: ConfigMap\n")

	require.NoError(t, f.run())

	var scaled []string
	var replicas []int32
	for _, c := range f.rec.Calls() {
		if c.Op == cluster.OpScaleDeployment {
			scaled = append(scaled, c.Name)
			replicas = append(replicas, c.Replicas)
		}
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, scaled)
	assert.Equal(t, []int32{1, 0, 2}, replicas)
}

func TestRun_EmptyServicesAndTemplate(t *testing.T) {
	f := newFixture(t, "namespace: bench\nservices: {}\n", "---\n\n---\n")
	f.rec.Namespaces = map[string]bool{"bench": true}

	require.NoError(t, f.run())
	assert.Equal(t, "namespace_exists bench", f.rec.Trace())
}

func TestRun_FailuresBeforeClusterCalls(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		template string
		code     cnserrors.ErrorCode
	}{
		{
			name:     "bad config",
			config:   "namespace: bench\n",
			template: testTemplate,
			code:     cnserrors.ErrCodeParse,
		},
		{
			name:     "undefined template variable",
			config:   testConfigDoc,
			template: "image: {{ .image }}\n",
			code:     cnserrors.ErrCodeRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.config, tt.template)

			err := f.run()
			require.Error(t, err)
			assert.Equal(t, tt.code, cnserrors.CodeOf(err))
			assert.Empty(t, f.rec.Calls(), "no cluster call may precede a config or render failure")
		})
	}
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("apply rejected")

	tests := []struct {
		name      string
		failOn    cluster.Operation
		failAt    int
		wantTrace string
	}{
		{
			name:      "namespace creation",
			failOn:    cluster.OpCreateNamespace,
			wantTrace: "namespace_exists bench\ncreate_namespace bench",
		},
		{
			name:   "second apply",
			failOn: cluster.OpApplyManifest,
			failAt: 2,
			wantTrace: `namespace_exists bench
create_namespace bench
apply_manifest bench
apply_manifest bench`,
		},
		{
			name:   "first scale",
			failOn: cluster.OpScaleDeployment,
			wantTrace: `namespace_exists bench
create_namespace bench
apply_manifest bench
apply_manifest bench
scale_deployment bench/web=3`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testConfigDoc, testTemplate)
			f.rec.FailOn = tt.failOn
			f.rec.FailAt = tt.failAt
			f.rec.Err = boom

			err := f.run()
			require.ErrorIs(t, err, boom)
			assert.Equal(t, tt.wantTrace, f.rec.Trace())
			assertStagingRemoved(t, f.rec)
		})
	}
}

func TestRun_NamespaceProbeError(t *testing.T) {
	boom := errors.New("connection refused")
	f := newFixture(t, testConfigDoc, testTemplate)
	f.rec.FailOn = cluster.OpNamespaceExists
	f.rec.Err = boom

	require.ErrorIs(t, f.run(), boom)
	assert.Equal(t, "namespace_exists bench", f.rec.Trace())
}
