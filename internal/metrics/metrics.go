// Package metrics records per-run Prometheus metrics and writes them to a textfile for
// node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/amishk599/jobscout/internal/model"
)

const namespace = "jobscout"

// Recorder holds one run's metrics in a private registry. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	queries        *prometheus.CounterVec
	stageErrors    *prometheus.CounterVec
	scoringSeconds prometheus.Histogram

	collectedBytes prometheus.Gauge
	postings       prometheus.Gauge
	topScore       prometheus.Gauge
	avgScore       prometheus.Gauge
	newPostings    prometheus.Gauge
	qualifying     prometheus.Gauge
	runDuration    prometheus.Gauge
	lastRun        prometheus.Gauge
}

// New creates a recorder with its own registry, so Go runtime metrics stay out of
// the textfile.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Search queries run, by outcome.",
		}, []string{"outcome"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Stage errors that degraded the run.",
		}, []string{"stage"}),
		scoringSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Latency of the scoring request.",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 120, 300},
		}),
		collectedBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collected_bytes",
			Help:      "Size of the merged search results before truncation.",
		}),
		postings: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "postings",
			Help:      "Postings returned by the scorer.",
		}),
		topScore: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "top_score",
			Help:      "Highest normalized posting score.",
		}),
		avgScore: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "avg_score",
			Help:      "Average normalized posting score.",
		}),
		newPostings: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "new_postings",
			Help:      "Links appended to history this run.",
		}),
		qualifying: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "qualifying_postings",
			Help:      "Postings at or above the alert threshold.",
		}),
		runDuration: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		lastRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
}

func (r *Recorder) Queries(ok, failed int) {
	if r == nil {
		return
	}
	r.queries.WithLabelValues("ok").Add(float64(ok))
	r.queries.WithLabelValues("failed").Add(float64(failed))
}

func (r *Recorder) StageError(stage string) {
	if r == nil {
		return
	}
	r.stageErrors.WithLabelValues(stage).Inc()
}

func (r *Recorder) ScoringLatency(d time.Duration) {
	if r == nil {
		return
	}
	r.scoringSeconds.Observe(d.Seconds())
}

// Run records the outcome gauges of a finished run.
func (r *Recorder) Run(sum model.RunSummary, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.collectedBytes.Set(float64(sum.Bytes))
	r.postings.Set(float64(sum.Analysis.Total))
	r.topScore.Set(sum.Analysis.TopScore)
	r.avgScore.Set(sum.Analysis.AvgScore)
	r.newPostings.Set(float64(sum.Appended))
	r.qualifying.Set(float64(len(sum.Decision.Qualifying)))
	r.runDuration.Set(elapsed.Seconds())
	r.lastRun.Set(float64(sum.StartedAt.Add(elapsed).Unix()))
}

// WriteTextfile writes every metric in text exposition format to path, atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
