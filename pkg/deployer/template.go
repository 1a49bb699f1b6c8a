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
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/NVIDIA/cns-ops/pkg/defaults"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
)

// ResolveTemplatePath joins a relative template path to root. Absolute
// paths are returned unchanged; an empty root is the working directory.
func ResolveTemplatePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if root == "" {
		root = defaults.TemplateRoot
	}
	return filepath.Join(root, path)
}

// Render loads the template and renders it for cfg. Templates see the
// namespace both as a function ({{ namespace }}) and as data
// ({{ .namespace }}); {{ .services }} maps each service name to its
// effective replica count. Referencing an undefined key fails.
func Render(root, path string, cfg *Config) (string, error) {
	full := ResolveTemplatePath(root, path)

	content, err := os.ReadFile(full)
	if err != nil {
		return "", cnserrors.WrapWithContext(cnserrors.ErrCodeRender,
			fmt.Sprintf("failed to load template %s", path), err,
			map[string]any{"path": full})
	}

	tmpl, err := template.New(filepath.Base(full)).
		Option("missingkey=error").
		Funcs(templateFuncs(cfg)).
		Parse(string(content))
	if err != nil {
		return "", cnserrors.WrapWithContext(cnserrors.ErrCodeRender,
			fmt.Sprintf("failed to parse template %s", path), err,
			map[string]any{"path": full})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData(cfg)); err != nil {
		return "", cnserrors.WrapWithContext(cnserrors.ErrCodeRender,
			fmt.Sprintf("failed to render template %s", path), err,
			map[string]any{"path": full})
	}

	return buf.String(), nil
}

func templateFuncs(cfg *Config) template.FuncMap {
	return template.FuncMap{
		"namespace": func() string { return cfg.Namespace },
	}
}

func templateData(cfg *Config) map[string]any {
	services := make(map[string]any, len(cfg.Services))
	for _, svc := range cfg.Services {
		services[svc.Name] = map[string]any{"replicas": svc.DesiredReplicas()}
	}
	return map[string]any{
		"namespace": cfg.Namespace,
		"services":  services,
	}
}
