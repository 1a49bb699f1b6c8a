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
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/cns-ops/pkg/defaults"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
)

// InstrumentOptions configures Instrument.
type InstrumentOptions struct {
	// Timeout bounds each operation. Zero disables the bound.
	Timeout time.Duration
	// Rate caps operations per second. Zero or less means unlimited.
	Rate float64
	// Metrics records operation counts and durations when set.
	Metrics *Metrics
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// RunID is attached to every log record.
	RunID string
}

// InstrumentedExecutor decorates an Executor with a per-operation timeout,
// client-side rate limiting, debug logging and metrics.
type InstrumentedExecutor struct {
	inner   Executor
	timeout time.Duration
	limiter *rate.Limiter
	metrics *Metrics
	logger  *slog.Logger
}

var _ Executor = (*InstrumentedExecutor)(nil)

// Instrument wraps inner.
func Instrument(inner Executor, opts InstrumentOptions) *InstrumentedExecutor {
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RunID != "" {
		logger = logger.With("run_id", opts.RunID)
	}

	return &InstrumentedExecutor{
		inner:   inner,
		timeout: opts.Timeout,
		limiter: rate.NewLimiter(limit, defaults.RateLimitBurst),
		metrics: opts.Metrics,
		logger:  logger,
	}
}

func (e *InstrumentedExecutor) ListNodes(ctx context.Context) ([]string, error) {
	var names []string
	err := e.do(ctx, OpListNodes, nil, func(ctx context.Context) error {
		var err error
		names, err = e.inner.ListNodes(ctx)
		return err
	})
	return names, err
}

func (e *InstrumentedExecutor) LabelNode(ctx context.Context, node, key, value string) error {
	return e.do(ctx, OpLabelNode, []any{"node", node, "label", key + "=" + value}, func(ctx context.Context) error {
		return e.inner.LabelNode(ctx, node, key, value)
	})
}

func (e *InstrumentedExecutor) NamespaceExists(ctx context.Context, namespace string) (bool, error) {
	var exists bool
	err := e.do(ctx, OpNamespaceExists, []any{"namespace", namespace}, func(ctx context.Context) error {
		var err error
		exists, err = e.inner.NamespaceExists(ctx, namespace)
		return err
	})
	return exists, err
}

func (e *InstrumentedExecutor) CreateNamespace(ctx context.Context, namespace string) error {
	return e.do(ctx, OpCreateNamespace, []any{"namespace", namespace}, func(ctx context.Context) error {
		return e.inner.CreateNamespace(ctx, namespace)
	})
}

func (e *InstrumentedExecutor) ApplyManifest(ctx context.Context, namespace, path string) error {
	return e.do(ctx, OpApplyManifest, []any{"namespace", namespace, "manifest", path}, func(ctx context.Context) error {
		return e.inner.ApplyManifest(ctx, namespace, path)
	})
}

func (e *InstrumentedExecutor) ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) error {
	return e.do(ctx, OpScaleDeployment, []any{"namespace", namespace, "deployment", name, "replicas", replicas}, func(ctx context.Context) error {
		return e.inner.ScaleDeployment(ctx, namespace, name, replicas)
	})
}

func (e *InstrumentedExecutor) do(ctx context.Context, op Operation, attrs []any, fn func(context.Context) error) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeTimeout, "rate limiter wait aborted", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	if e.metrics != nil {
		e.metrics.observe(op, duration.Seconds(), err)
	}

	args := append([]any{"operation", string(op), "duration", duration}, attrs...)
	if err != nil {
		args = append(args, "error", err)
	}
	e.logger.Debug("cluster operation", args...)

	return err
}
