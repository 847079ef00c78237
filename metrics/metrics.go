// Package metrics exposes Prometheus collectors for validation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	goids "github.com/reoring/goids"
)

const namespace = "goids"

// Collector records validation outcomes. Create one per registry.
type Collector struct {
	ValidationsTotal     *prometheus.CounterVec
	ValidationDuration   prometheus.Histogram
	SpecificationsTotal  *prometheus.CounterVec
	EntitiesTotal        *prometheus.CounterVec
	RequirementFailures  *prometheus.CounterVec
	LastOverallPassRatio *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of validation runs",
			},
			[]string{"result"},
		),
		ValidationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Validation run duration distribution",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		SpecificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "specifications_total",
				Help:      "Specifications evaluated by status",
			},
			[]string{"status"},
		),
		EntitiesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entities_checked_total",
				Help:      "Entities checked by outcome",
			},
			[]string{"outcome"},
		),
		RequirementFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requirement_failures_total",
				Help:      "Failed requirements by failure code (reported entities only)",
			},
			[]string{"code"},
		),
		LastOverallPassRatio: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_overall_pass_ratio",
				Help:      "Entity pass ratio (0-1) of the last run per model",
			},
			[]string{"model"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			c.ValidationsTotal,
			c.ValidationDuration,
			c.SpecificationsTotal,
			c.EntitiesTotal,
			c.RequirementFailures,
			c.LastOverallPassRatio,
		)
	}
	return c
}

// Observe records a finished run.
func (c *Collector) Observe(r *goids.Report, d time.Duration) {
	result := "pass"
	if !r.Passed() {
		result = "fail"
	}
	c.ValidationsTotal.WithLabelValues(result).Inc()
	c.ValidationDuration.Observe(d.Seconds())
	for _, sr := range r.SpecificationResults {
		c.SpecificationsTotal.WithLabelValues(string(sr.Status)).Inc()
		for _, er := range sr.EntityResults {
			for _, rr := range er.RequirementResults {
				if rr.Failure != nil {
					c.RequirementFailures.WithLabelValues(string(rr.Failure.Code)).Inc()
				}
			}
		}
	}
	c.EntitiesTotal.WithLabelValues("passed").Add(float64(r.Summary.PassedEntities))
	c.EntitiesTotal.WithLabelValues("failed").Add(float64(r.Summary.FailedEntities))
	c.LastOverallPassRatio.WithLabelValues(r.ModelInfo.ID).Set(r.Summary.OverallPassRate / 100)
}

// ObserveError records a run that returned an error.
func (c *Collector) ObserveError(d time.Duration) {
	c.ValidationsTotal.WithLabelValues("error").Inc()
	c.ValidationDuration.Observe(d.Seconds())
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format (node_exporter textfile collector).
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
