// Package metrics records batch build metrics for the node_exporter
// textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BuildMetrics records the outcome of one catalog build.
// All values are gauges: each build is a fresh process and the textfile
// holds the latest run only.
type BuildMetrics struct {
	reg           *prometheus.Registry
	rows          *prometheus.GaugeVec
	duration      prometheus.Gauge
	success       prometheus.Gauge
	lastSuccess   prometheus.Gauge
	artifactBytes prometheus.Gauge
}

// NewBuildMetrics creates the metrics on a private registry.
func NewBuildMetrics() *BuildMetrics {
	reg := prometheus.NewRegistry()

	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_build_rows",
		Help: "Rows seen by the last build, by entity kind and outcome.",
	}, []string{"kind", "outcome"})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_build_duration_seconds",
		Help: "Wall time of the last build.",
	})
	success := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_build_success",
		Help: "1 if the last build published a catalog, 0 otherwise.",
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_build_last_success_timestamp_seconds",
		Help: "Unix time of the last successful build.",
	})
	artifactBytes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_artifact_bytes",
		Help: "Size of the last published artifact.",
	})

	reg.MustRegister(rows, duration, success, lastSuccess, artifactBytes)

	return &BuildMetrics{
		reg:           reg,
		rows:          rows,
		duration:      duration,
		success:       success,
		lastSuccess:   lastSuccess,
		artifactBytes: artifactBytes,
	}
}

// Registry exposes the underlying registry for gathering.
func (m *BuildMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// ObserveRows sets the accepted and skipped row counts for kind.
func (m *BuildMetrics) ObserveRows(kind string, accepted, skipped int) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(kind), "accepted").Set(float64(accepted))
	m.rows.WithLabelValues(normalizeLabel(kind), "skipped").Set(float64(skipped))
}

// ObserveSuccess marks the build as published.
func (m *BuildMetrics) ObserveSuccess(at time.Time, took time.Duration, artifactSize int) {
	if m == nil {
		return
	}
	m.success.Set(1)
	m.lastSuccess.Set(float64(at.Unix()))
	m.duration.Set(took.Seconds())
	m.artifactBytes.Set(float64(artifactSize))
}

// ObserveFailure marks the build as failed.
func (m *BuildMetrics) ObserveFailure(took time.Duration) {
	if m == nil {
		return
	}
	m.success.Set(0)
	m.duration.Set(took.Seconds())
}

// WriteTextfile atomically writes the registry in text exposition format.
func (m *BuildMetrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func normalizeLabel(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}
