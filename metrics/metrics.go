// Package metrics provides Prometheus observability metrics for the sheet
// ingestion engine. It includes Critical and Important metrics for business
// and operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// RepsParsed tracks the number of reps produced by the most recent query.
// A sudden drop to zero usually means the sheet layout changed underneath us.
var RepsParsed = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "ingest",
	Name:      "reps_parsed",
	Help:      "Number of reps produced by the most recent ingestion query",
})

// AuxDegradedTotal counts queries that completed without skill or rank data.
var AuxDegradedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ingest",
	Name:      "aux_degraded_total",
	Help:      "Auxiliary data retrievals that degraded to an empty mapping",
}, []string{"source"})

// FallbackActivationsTotal counts substitutions of the synthetic dataset.
var FallbackActivationsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "ingest",
	Name:      "fallback_activations_total",
	Help:      "Queries that substituted the synthetic fallback dataset after live retrieval failed",
})

// SheetFallbackTotal counts sheet selections that fell back to the first
// prefixed title because no date range covered the target date.
var SheetFallbackTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "ingest",
	Name:      "sheet_selection_fallback_total",
	Help:      "Sheet selections that fell back to the first prefixed title",
})

// EmptyResultsTotal counts well-formed responses that parsed to zero reps.
var EmptyResultsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "ingest",
	Name:      "empty_results_total",
	Help:      "Successful queries that yielded zero reps",
})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// FetchAttemptsTotal tracks fetch attempts by final outcome.
var FetchAttemptsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fetch",
	Name:      "attempts_total",
	Help:      "HTTP fetch attempts by outcome (ok, refused, retryable, transport_error)",
}, []string{"outcome"})

// FetchRetriesTotal tracks backoff retries across all fetches.
var FetchRetriesTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "fetch",
	Name:      "retries_total",
	Help:      "Total retry attempts performed by the resilient fetcher",
})

// ParseDurationSeconds tracks time to parse the availability grid.
var ParseDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse the availability grid",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
})

// ParserRowsTotal tracks grid rows by how the row scan classified them.
var ParserRowsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "rows_total",
	Help:      "Grid rows consumed by classification (slot, name, divider, blank, dropped)",
}, []string{"kind"})

// QueryDurationSeconds tracks end-to-end ingestion query latency.
var QueryDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "ingest",
	Name:      "query_duration_seconds",
	Help:      "End-to-end time for one ingestion query including all fetches",
	Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
})
