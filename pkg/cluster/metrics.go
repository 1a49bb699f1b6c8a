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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
)

const (
	resultSuccess = "success"
	resultError   = "error"
	resultTimeout = "timeout"
)

// Metrics holds the executor collectors.
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewMetrics registers the executor collectors with reg. Each run uses its
// own registry so the textfile export only holds that run's samples.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cns_ops_cluster_operations_total",
				Help: "Total number of cluster operations",
			},
			[]string{"operation", "result"}, // result: success, error or timeout
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cns_ops_cluster_operation_duration_seconds",
				Help:    "Time taken by individual cluster operations",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 120},
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) observe(op Operation, seconds float64, err error) {
	result := resultSuccess
	switch {
	case cnserrors.IsCode(err, cnserrors.ErrCodeTimeout):
		result = resultTimeout
	case err != nil:
		result = resultError
	}
	m.operationsTotal.WithLabelValues(string(op), result).Inc()
	m.operationDuration.WithLabelValues(string(op)).Observe(seconds)
}
