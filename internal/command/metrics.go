// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for command execution metrics.
const (
	StatusSuccess      = "success"
	StatusError        = "error"
	StatusNotFound     = "not_found"
	StatusBadArguments = "bad_arguments"
)

// Executions is the counter for command dispatches.
// Use RegisterMetrics to register this with a Prometheus registry.
var Executions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "plugsh_command_executions_total",
		Help: "Total number of command dispatches",
	},
	[]string{"command", "source", "status"},
)

// Duration is the histogram for plugin invocation duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var Duration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "plugsh_command_duration_seconds",
		Help:    "Plugin command invocation duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"command", "source"},
)

// PluginsLoaded is the gauge for currently loaded plugins.
// Use RegisterMetrics to register this with a Prometheus registry.
var PluginsLoaded = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "plugsh_plugins_loaded",
		Help: "Number of currently loaded plugins",
	},
)

// RegisterMetrics registers command package metrics with the given
// Prometheus registry. Panics if registration fails (prometheus
// convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Executions)
	reg.MustRegister(Duration)
	reg.MustRegister(PluginsLoaded)
}

// RecordExecution increments the dispatch counter.
func RecordExecution(command, source, status string) {
	Executions.WithLabelValues(command, source, status).Inc()
}

// RecordDuration records how long a plugin invocation took.
func RecordDuration(command, source string, d time.Duration) {
	Duration.WithLabelValues(command, source).Observe(d.Seconds())
}
