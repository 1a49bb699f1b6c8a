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

package labeler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/NVIDIA/cns-ops/pkg/cluster"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
)

// Label is a node label in key=value form.
type Label struct {
	Key   string
	Value string
}

func (l Label) String() string {
	return l.Key + "=" + l.Value
}

// ParseLabel parses a key=value label. The key must be a qualified name and
// the value a valid label value (which may be empty).
func ParseLabel(s string) (Label, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return Label{}, cnserrors.Newf(cnserrors.ErrCodeInvalidRequest,
			"invalid label %q: expected key=value", s)
	}
	if errs := validation.IsQualifiedName(key); len(errs) > 0 {
		return Label{}, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid label key %q: %s", key, strings.Join(errs, "; ")),
			map[string]any{"label": s})
	}
	if errs := validation.IsValidLabelValue(value); len(errs) > 0 {
		return Label{}, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid label value %q: %s", value, strings.Join(errs, "; ")),
			map[string]any{"label": s})
	}
	return Label{Key: key, Value: value}, nil
}

// ParseNames splits a comma-separated node list, keeping order and values
// as given.
func ParseNames(csv string) ([]string, error) {
	names := strings.Split(csv, ",")
	for i, n := range names {
		if n == "" {
			return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("empty node name at position %d in %q", i+1, csv),
				map[string]any{"names": csv})
		}
	}
	return names, nil
}

// Options selects the label and the target nodes.
type Options struct {
	// Label is the raw key=value label.
	Label string
	// Names lists target nodes explicitly.
	Names []string
	// Count labels the first Count nodes in cluster order.
	Count int

	// NamesSet and CountSet record which selector the caller supplied.
	NamesSet bool
	CountSet bool
}

// Validate checks the options without touching the cluster.
func (o Options) Validate() error {
	if o.Label == "" {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "label is required")
	}
	if _, err := ParseLabel(o.Label); err != nil {
		return err
	}

	switch {
	case o.NamesSet && o.CountSet:
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "--names and --count are mutually exclusive")
	case !o.NamesSet && !o.CountSet:
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "one of --names or --count is required")
	case o.NamesSet && len(o.Names) == 0:
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "--names must list at least one node")
	case o.CountSet && o.Count <= 0:
		return cnserrors.Newf(cnserrors.ErrCodeInvalidRequest, "--count must be a positive integer, got %d", o.Count)
	}
	return nil
}

// Labeler applies a label to a resolved set of nodes.
type Labeler struct {
	executor cluster.Executor
	out      io.Writer
}

// New creates a Labeler. Progress lines go to out, or stdout when nil.
func New(executor cluster.Executor, out io.Writer) *Labeler {
	if out == nil {
		out = os.Stdout
	}
	return &Labeler{executor: executor, out: out}
}

// Resolve returns the nodes to label. Explicit names are returned verbatim.
// A count takes the first N nodes in the order the cluster lists them, and
// fails without labeling anything when fewer than N are available.
func (l *Labeler) Resolve(ctx context.Context, opts Options) ([]string, error) {
	if opts.NamesSet {
		return opts.Names, nil
	}

	nodes, err := l.executor.ListNodes(ctx)
	if err != nil {
		return nil, err
	}
	if opts.Count > len(nodes) {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("node count exceeds the number of available nodes (%d available)", len(nodes)),
			map[string]any{"requested": opts.Count, "available": len(nodes)})
	}
	return nodes[:opts.Count], nil
}

// Run validates, resolves and labels each node in order. The first failure
// ends the run; nodes already labeled keep the label.
func (l *Labeler) Run(ctx context.Context, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	label, err := ParseLabel(opts.Label)
	if err != nil {
		return err
	}

	nodes, err := l.Resolve(ctx, opts)
	if err != nil {
		return err
	}
	slog.Debug("resolved target nodes", "count", len(nodes), "label", label.String())

	for i, node := range nodes {
		fmt.Fprintf(l.out, "Labeling node %s with %s...\n", node, label)
		if err := l.executor.LabelNode(ctx, node, label.Key, label.Value); err != nil {
			slog.Error("labeling stopped", "node", node, "labeled", i, "remaining", len(nodes)-i)
			return err
		}
		fmt.Fprintf(l.out, "Label %s added to node %s successfully.\n", label, node)
	}
	return nil
}
