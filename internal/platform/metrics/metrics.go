// Package metrics holds the Prometheus collectors for the cutoff and
// ranking engine, registered on a private registry served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the registry /metrics exposes.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// RankingRunsTotal counts ranking runs by outcome (ok, error, cancelled).
var RankingRunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fulfillment",
	Name:      "ranking_runs_total",
	Help:      "Ranking runs by outcome",
}, []string{"outcome"})

// RankingCandidates tracks how many candidates each run scored.
var RankingCandidates = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "fulfillment",
	Name:      "ranking_candidates",
	Help:      "Candidates scored per ranking run",
	Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
})

// CandidateFetchFailuresTotal counts per-candidate fetches that degraded
// to unknown facts instead of failing the run.
var CandidateFetchFailuresTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fulfillment",
	Name:      "candidate_fetch_failures_total",
	Help:      "Candidate fact fetches that degraded to unknown, by source",
}, []string{"source"})

// CutoffEvaluationsTotal counts cutoff evaluations by presented indicator.
var CutoffEvaluationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cutoff",
	Name:      "evaluations_total",
	Help:      "Cutoff status evaluations by indicator",
}, []string{"indicator"})

// RuleWritesRejectedTotal counts rule-set writes refused by validation.
var RuleWritesRejectedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "cutoff",
	Name:      "rule_writes_rejected_total",
	Help:      "Cutoff rule-set writes rejected as misconfigured",
})

// OperationDurationSeconds records timed operations by name.
var OperationDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "fulfillment",
	Name:      "operation_duration_seconds",
	Help:      "Duration of timed operations",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
}, []string{"op"})
