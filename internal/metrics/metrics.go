// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

// Package metrics provides Prometheus metrics collection for observability.
//
// Exposed at /metrics in Prometheus text format:
//   - http_requests_total{method,endpoint,status}
//   - http_request_duration_seconds{method,endpoint}
//   - http_requests_in_flight
//   - resolver_failures_total{kind}
//   - gate_decisions_total{gate,outcome}
//   - replica_query_duration_seconds{operation}
//   - replica_query_errors_total{operation}
//   - circuit_breaker_state{name}
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Pipeline metrics
	ResolverFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_failures_total",
			Help: "Total number of entity resolution failures",
		},
		[]string{"kind"}, // "invalid_project", "user_not_found", ...
	)

	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_decisions_total",
			Help: "Total number of gate decisions by outcome",
		},
		[]string{"gate", "outcome"}, // gate: "edit_count", "restricted_stats"
	)

	// Replica database metrics
	ReplicaQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "replica_query_duration_seconds",
			Help:    "Duration of replica database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "project", "user", "page", "revisions"
	)

	ReplicaQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replica_query_errors_total",
			Help: "Total number of failed replica database queries",
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackInFlight adjusts the in-flight request gauge.
func TrackInFlight(start bool) {
	if start {
		HTTPRequestsInFlight.Inc()
	} else {
		HTTPRequestsInFlight.Dec()
	}
}

// RecordResolverFailure records one entity resolution failure by kind.
func RecordResolverFailure(kind string) {
	ResolverFailures.WithLabelValues(kind).Inc()
}

// RecordGateDecision records one gate decision.
func RecordGateDecision(gate, outcome string) {
	GateDecisions.WithLabelValues(gate, outcome).Inc()
}

// RecordReplicaQuery records one replica query with its duration; failed
// queries additionally bump the error counter.
func RecordReplicaQuery(operation string, duration time.Duration, err error) {
	ReplicaQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		ReplicaQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetCircuitBreakerState publishes a breaker state transition.
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}
