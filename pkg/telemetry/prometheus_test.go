package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics(t *testing.T) {
	// Reset default registry for testing
	prometheus.DefaultRegisterer = prometheus.NewRegistry()

	m := NewPrometheusMetrics()

	m.IncCounter("snapshots_created_total", 1, Label{Key: "region", Value: "us-east-1"})
	m.IncCounter("snapshots_created_total", 2, Label{Key: "region", Value: "us-east-1"})

	m.ObserveHistogram("backup_cycle_seconds", 0.5, Label{Key: "result", Value: "ok"})

	m.SetGauge("retention_last_deleted", 10, Label{Key: "region", Value: "us-west-2"})
	m.SetGauge("retention_last_deleted", 20, Label{Key: "region", Value: "us-west-2"})

	assert.Contains(t, m.counters, "snapshots_created_total")
	assert.Contains(t, m.histograms, "backup_cycle_seconds")
	assert.Contains(t, m.gauges, "retention_last_deleted")
}
