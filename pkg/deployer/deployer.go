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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/NVIDIA/cns-ops/pkg/cluster"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
)

// Options names the inputs of a deployment.
type Options struct {
	// ConfigPath is the deployment configuration document.
	ConfigPath string
	// TemplatePath is the manifest template, relative to TemplateRoot unless
	// absolute.
	TemplatePath string
	// TemplateRoot defaults to the working directory.
	TemplateRoot string
}

// Deployer renders manifests into a namespace and scales its services.
type Deployer struct {
	executor cluster.Executor
	out      io.Writer
}

// New creates a Deployer. Progress lines go to out, or stdout when nil.
func New(executor cluster.Executor, out io.Writer) *Deployer {
	if out == nil {
		out = os.Stdout
	}
	return &Deployer{executor: executor, out: out}
}

// Run loads the config, renders the template, ensures the namespace exists,
// applies every manifest and scales every service, in that order. The first
// failure ends the run; nothing already applied is rolled back.
func (d *Deployer) Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	rendered, err := Render(opts.TemplateRoot, opts.TemplatePath, cfg)
	if err != nil {
		return err
	}
	manifests := SplitManifests(rendered)

	slog.Debug("deployment prepared",
		"namespace", cfg.Namespace,
		"manifests", len(manifests),
		"services", cfg.Services.Names())

	if err := d.ensureNamespace(ctx, cfg.Namespace); err != nil {
		return err
	}

	if err := d.applyManifests(ctx, cfg.Namespace, manifests); err != nil {
		return err
	}

	return d.scaleServices(ctx, cfg)
}

func (d *Deployer) ensureNamespace(ctx context.Context, namespace string) error {
	exists, err := d.executor.NamespaceExists(ctx, namespace)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	fmt.Fprintf(d.out, "Namespace '%s' does not exist. Creating it...\n", namespace)
	return d.executor.CreateNamespace(ctx, namespace)
}

func (d *Deployer) applyManifests(ctx context.Context, namespace string, manifests []string) error {
	if len(manifests) == 0 {
		return nil
	}

	stage, err := newStagingFile()
	if err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to create staging file", err)
	}
	defer func() {
		if err := stage.remove(); err != nil {
			slog.Warn("failed to remove staging file", "path", stage.path, "error", err)
		}
	}()

	for i, doc := range manifests {
		if err := stage.write(doc); err != nil {
			return cnserrors.WrapWithContext(cnserrors.ErrCodeInternal,
				"failed to write staging file", err, map[string]any{"path": stage.path})
		}
		if err := d.executor.ApplyManifest(ctx, namespace, stage.path); err != nil {
			slog.Error("apply stopped", "manifest", i+1, "total", len(manifests))
			return err
		}
		slog.Info("manifest applied", "manifest", i+1, "total", len(manifests), "namespace", namespace)
	}
	return nil
}

func (d *Deployer) scaleServices(ctx context.Context, cfg *Config) error {
	for _, svc := range cfg.Services {
		replicas := svc.DesiredReplicas()
		fmt.Fprintf(d.out, "Scaling '%s' to %d replicas...\n", svc.Name, replicas)
		if err := d.executor.ScaleDeployment(ctx, cfg.Namespace, svc.Name, replicas); err != nil {
			return err
		}
	}
	return nil
}
