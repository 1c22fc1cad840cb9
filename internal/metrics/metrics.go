// Package metrics counts import activity in a Prometheus registry. A run
// is a short-lived process, so the registry is written once to a file for
// the node_exporter textfile collector instead of being scraped.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fjacquet/bank-import/internal/fileutils"
)

const namespace = "bank_import"

// File statuses.
const (
	StatusImported = "imported"
	StatusFailed   = "failed"
)

// Recorder collects the counters of one run. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	rows         *prometheus.CounterVec
	files        *prometheus.CounterVec
	inserted     *prometheus.CounterVec
	lastDuration prometheus.Gauge
	lastSuccess  prometheus.Gauge
}

// NewRecorder registers the importer's collectors in a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "CSV rows read, by institution and normalization outcome.",
		}, []string{"institution", "outcome"}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Input files processed, by status.",
		}, []string{"status"}),
		inserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_inserted_total",
			Help:      "Transactions committed to the store, by institution.",
		}, []string{"institution"}),
		lastDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last import run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last import run finished.",
		}),
	}
	r.registry.MustRegister(r.rows, r.files, r.inserted, r.lastDuration, r.lastSuccess)
	return r
}

// Row counts one row outcome.
func (r *Recorder) Row(institution, outcome string) {
	if r == nil {
		return
	}
	r.rows.WithLabelValues(institution, outcome).Inc()
}

// File counts a processed file.
func (r *Recorder) File(status string) {
	if r == nil {
		return
	}
	r.files.WithLabelValues(status).Inc()
}

// Inserted adds committed transactions for an institution.
func (r *Recorder) Inserted(institution string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.inserted.WithLabelValues(institution).Add(float64(n))
}

// RunFinished records the run's duration and completion time.
func (r *Recorder) RunFinished(d time.Duration, at time.Time) {
	if r == nil {
		return
	}
	r.lastDuration.Set(d.Seconds())
	r.lastSuccess.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := fileutils.EnsureParentDir(path); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
