// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package trace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the trace service.
var (
	traceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracecraft_trace_requests_total",
			Help: "Total trace enumeration requests by outcome.",
		},
		[]string{"outcome"},
	)

	tracePathsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tracecraft_trace_paths_returned",
			Help:    "Number of maximal paths returned per trace request.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
		},
	)

	traceDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tracecraft_trace_duration_seconds",
			Help:    "Wall time of trace enumeration.",
			Buckets: prometheus.DefBuckets,
		},
	)

	graphReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracecraft_graph_reloads_total",
			Help: "Graph load attempts by outcome.",
		},
		[]string{"outcome"},
	)

	graphNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracecraft_graph_nodes",
			Help: "Node count of the currently loaded graph.",
		},
	)

	graphEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracecraft_graph_edges",
			Help: "Edge count of the currently loaded graph.",
		},
	)
)

// Metric label values for the "outcome" dimension.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)
