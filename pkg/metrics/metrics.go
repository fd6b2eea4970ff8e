// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-keymaster.
//
// go-keymaster is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package metrics exposes Prometheus metrics for the keymaster proxy.
// All metrics are registered with the default registry via promauto.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jeremyhahn/go-keymaster/pkg/types"
)

const (
	// Namespace is the Prometheus namespace for all keymaster metrics
	Namespace = "keymaster"

	// Label names
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelError     = "error"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// OperationsTotal tracks the total number of keymaster operations by
	// name and outcome.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of keymaster operations by name and status",
		},
		[]string{LabelOperation, LabelStatus},
	)

	// OperationDuration tracks the duration of keymaster round trips in
	// seconds. Buckets cover typical secure-world call latencies.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of keymaster round trips in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{LabelOperation},
	)

	// TransportErrorsTotal tracks transport-level failures by the domain
	// error they translate to. Remote application errors are not counted
	// here; they are successful round trips at the transport layer.
	TransportErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "transport_errors_total",
			Help:      "Total number of transport-level failures by translated error",
		},
		[]string{LabelError},
	)
)

// RecordOperation increments the operation counter with the outcome of a
// completed call.
func RecordOperation(operation string, code types.ErrorCode) {
	status := StatusSuccess
	if code != types.ErrorOK {
		status = StatusError
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveDuration records the duration of a completed round trip.
func ObserveDuration(operation string, d time.Duration) {
	OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordTransportError increments the transport failure counter.
func RecordTransportError(code types.ErrorCode) {
	TransportErrorsTotal.WithLabelValues(code.Error()).Inc()
}
