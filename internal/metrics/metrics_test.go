package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRows(t *testing.T) {
	m := NewBuildMetrics()
	m.ObserveRows("stores", 10, 2)
	m.ObserveRows("", 1, 0)

	assert.Equal(t, 10.0, testutil.ToFloat64(m.rows.WithLabelValues("stores", "accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rows.WithLabelValues("stores", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rows.WithLabelValues("unknown", "accepted")))
}

func TestObserveSuccessThenFailure(t *testing.T) {
	m := NewBuildMetrics()
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	m.ObserveSuccess(at, 1500*time.Millisecond, 4096)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.success))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.lastSuccess))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.duration))
	assert.Equal(t, 4096.0, testutil.ToFloat64(m.artifactBytes))

	m.ObserveFailure(time.Second)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.success))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.lastSuccess), "last success survives a failure")
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *BuildMetrics
	assert.NotPanics(t, func() {
		m.ObserveRows("stores", 1, 1)
		m.ObserveSuccess(time.Now(), time.Second, 1)
		m.ObserveFailure(time.Second)
	})
	assert.Nil(t, m.Registry())

	path := filepath.Join(t.TempDir(), "catalog.prom")
	require.NoError(t, m.WriteTextfile(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "a nil BuildMetrics writes nothing")
}

func TestWriteTextfile(t *testing.T) {
	m := NewBuildMetrics()
	m.ObserveRows("companies", 3, 1)
	m.ObserveSuccess(time.Unix(1700000000, 0), time.Second, 10)

	path := filepath.Join(t.TempDir(), "catalog.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `catalog_build_rows{kind="companies",outcome="accepted"} 3`)
	assert.Contains(t, out, `catalog_build_success 1`)
	assert.Contains(t, out, "# HELP catalog_artifact_bytes")
}

func TestWriteTextfileBadPath(t *testing.T) {
	m := NewBuildMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "catalog.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics textfile")
}
