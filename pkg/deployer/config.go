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
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/cns-ops/pkg/defaults"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
)

const (
	tagNull = "!!null"
	tagInt  = "!!int"
)

// Config is the deployment configuration document.
//
//	namespace: bench
//	services:
//	  frontend:
//	    replicas: 3
//	  backend: {}
type Config struct {
	Namespace string
	Services  Services
}

// Service is one entry of the services mapping.
type Service struct {
	Name string
	// Replicas is nil when the document omits it.
	Replicas *int32
}

// DesiredReplicas returns the configured replica count, or the default of 1.
func (s Service) DesiredReplicas() int32 {
	return ptr.Deref(s.Replicas, defaults.DefaultReplicas)
}

// Services keeps the services mapping in document order.
type Services []Service

// Names returns service names in document order.
func (s Services) Names() []string {
	names := make([]string, 0, len(s))
	for _, svc := range s {
		names = append(names, svc.Name)
	}
	return names
}

// UnmarshalYAML decodes a mapping of service name to service body. A null
// body is an empty body. Unknown body keys are ignored, repeated ones are not.
func (s *Services) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: services must be a mapping", node.Line)
	}

	seen := make(map[string]bool, len(node.Content)/2)
	out := make(Services, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, body := node.Content[i], node.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode || keyNode.ShortTag() == tagNull {
			return fmt.Errorf("line %d: service name must be a string", keyNode.Line)
		}

		name := keyNode.Value
		if seen[name] {
			return fmt.Errorf("line %d: service %q is defined more than once", keyNode.Line, name)
		}
		seen[name] = true

		if errs := validation.IsDNS1123Subdomain(name); len(errs) > 0 {
			return fmt.Errorf("line %d: invalid service name %q: %s", keyNode.Line, name, strings.Join(errs, "; "))
		}

		svc := Service{Name: name}
		switch {
		case body.Kind == yaml.ScalarNode && body.ShortTag() == tagNull:
		case body.Kind == yaml.MappingNode:
			replicas, err := decodeReplicas(name, body)
			if err != nil {
				return err
			}
			svc.Replicas = replicas
		default:
			return fmt.Errorf("line %d: service %q must be a mapping", body.Line, name)
		}
		out = append(out, svc)
	}

	*s = out
	return nil
}

func decodeReplicas(service string, body *yaml.Node) (*int32, error) {
	var v *yaml.Node
	seen := make(map[string]bool, len(body.Content)/2)
	for i := 0; i+1 < len(body.Content); i += 2 {
		key := body.Content[i]
		if seen[key.Value] {
			return nil, fmt.Errorf("line %d: service %q: duplicate key %q", key.Line, service, key.Value)
		}
		seen[key.Value] = true
		if key.Value == "replicas" {
			v = body.Content[i+1]
		}
	}
	if v == nil {
		return nil, nil
	}

	if v.Kind == yaml.ScalarNode && v.ShortTag() == tagNull {
		return nil, nil
	}
	if v.Kind != yaml.ScalarNode || v.ShortTag() != tagInt {
		return nil, fmt.Errorf("line %d: service %q: replicas must be an integer, got %q", v.Line, service, v.Value)
	}

	var n int64
	if err := v.Decode(&n); err != nil {
		return nil, fmt.Errorf("line %d: service %q: replicas: %w", v.Line, service, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("line %d: service %q: replicas must be >= 0, got %d", v.Line, service, n)
	}
	if n > math.MaxInt32 {
		return nil, fmt.Errorf("line %d: service %q: replicas %d is out of range", v.Line, service, n)
	}
	return ptr.To(int32(n)), nil
}

// rawConfig keeps presence information the typed Config cannot express.
type rawConfig struct {
	Namespace yaml.Node `yaml:"namespace"`
	Services  yaml.Node `yaml:"services"`
}

// LoadConfig reads and validates the configuration document at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeParse,
			"failed to read config file", err, map[string]any{"path": path})
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeParse,
			fmt.Sprintf("invalid config file %s", path), err, map[string]any{"path": path})
	}
	return cfg, nil
}

// ParseConfig decodes and validates a configuration document.
func ParseConfig(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("config document is empty")
		}
		return nil, err
	}

	ns := raw.Namespace
	if ns.Kind == 0 || ns.ShortTag() == tagNull {
		return nil, errors.New("namespace is required")
	}
	if ns.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: namespace must be a string", ns.Line)
	}
	if errs := validation.IsDNS1123Label(ns.Value); len(errs) > 0 {
		return nil, fmt.Errorf("line %d: invalid namespace %q: %s", ns.Line, ns.Value, strings.Join(errs, "; "))
	}

	if raw.Services.Kind == 0 || raw.Services.ShortTag() == tagNull {
		return nil, errors.New("services is required")
	}
	var services Services
	if err := raw.Services.Decode(&services); err != nil {
		return nil, err
	}

	return &Config{Namespace: ns.Value, Services: services}, nil
}
