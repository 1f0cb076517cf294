// Package observability provides observability utilities
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// RefsCompiledTotal tracks the number of references compiled per model
	RefsCompiledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sift_refs_compiled_total",
			Help: "Total number of dataset references compiled",
		},
		[]string{"model", "sampled"},
	)

	// SampleSkipsTotal counts references emitted unfiltered in sample mode
	// because the dataset declares no event-time column
	SampleSkipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sift_sample_skips_total",
			Help: "References skipped by sample mode for lack of an event-time column",
		},
		[]string{"model", "reference"},
	)

	// RenderDuration measures model render duration in seconds
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sift_render_duration_seconds",
			Help:    "Model render duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"model", "status"},
	)

	// RunsTotal tracks the number of model executions by status
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sift_runs_total",
			Help: "Total number of model executions",
		},
		[]string{"model", "status"}, // status: success, failed
	)

	// RunDuration measures model execution duration in seconds
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sift_run_duration_seconds",
			Help:    "Model execution duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"model", "status"},
	)
)
