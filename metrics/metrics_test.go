package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goids "github.com/reoring/goids"
)

func failingReport() *goids.Report {
	results := []goids.SpecificationResult{
		{
			Status:       goids.StatusFail,
			CheckedCount: 2,
			PassedCount:  1,
			FailedCount:  1,
			EntityResults: []goids.EntityResult{
				{EntityID: 1, Passed: true},
				{EntityID: 2, RequirementResults: []goids.RequirementResult{
					{Status: goids.StatusFail, Failure: &goids.FailureDetail{Code: goids.CodePropertyMissing}},
				}},
			},
		},
		{Status: goids.StatusNotApplicable},
	}
	doc := &goids.Document{Info: goids.Info{Title: "t"}}
	return goids.BuildReport(doc, goids.ModelInfo{ID: "m1"}, results, time.Unix(0, 0))
}

func TestCollector_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.Observe(failingReport(), 250*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ValidationsTotal.WithLabelValues("fail")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.ValidationsTotal.WithLabelValues("pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SpecificationsTotal.WithLabelValues("fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SpecificationsTotal.WithLabelValues("not_applicable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EntitiesTotal.WithLabelValues("passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EntitiesTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RequirementFailures.WithLabelValues("property_missing")))
	assert.Equal(t, 0.5, testutil.ToFloat64(c.LastOverallPassRatio.WithLabelValues("m1")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.ValidationDuration))
}

func TestCollector_ObserveError(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.ObserveError(time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ValidationsTotal.WithLabelValues("error")))
}

func TestCollector_Unregistered(t *testing.T) {
	c := New(nil)
	c.Observe(failingReport(), time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ValidationsTotal.WithLabelValues("fail")))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.Observe(failingReport(), time.Millisecond)

	path := filepath.Join(t.TempDir(), "goids.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `goids_validations_total{result="fail"} 1`)
	assert.Contains(t, string(data), `goids_requirement_failures_total{code="property_missing"} 1`)
}
