package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
)

// LookupMetricsCollector handles lookup worker metrics and implements common.MetricsRecorder
// together with the embedded catalog collector.
type LookupMetricsCollector struct {
	*CatalogMetricsCollector

	lookupsTotal   *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	queueDepth     prometheus.Gauge
}

var _ common.MetricsRecorder = (*LookupMetricsCollector)(nil)

// NewLookupMetricsCollector creates a new lookup metrics collector
func NewLookupMetricsCollector() *LookupMetricsCollector {
	return &LookupMetricsCollector{
		CatalogMetricsCollector: NewCatalogMetricsCollector(),

		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "lookups_total",
				Help:      "Total number of processed targets by outcome",
			},
			[]string{"outcome"},
		),

		lookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "lookup_duration_seconds",
				Help:      "Time from dequeue to published status",
				Buckets:   []float64{0.01, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 90.0},
			},
			[]string{"outcome"},
		),

		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queue_depth",
				Help:      "Targets waiting to be looked up",
			},
		),
	}
}

// Register registers lookup and catalog metrics with the Prometheus registry
func (c *LookupMetricsCollector) Register() error {
	if err := c.CatalogMetricsCollector.Register(); err != nil {
		return err
	}
	return register(c.lookupsTotal, c.lookupDuration, c.queueDepth)
}

// RecordLookup records one processed target
func (c *LookupMetricsCollector) RecordLookup(outcome common.LookupOutcome, duration time.Duration) {
	c.lookupsTotal.WithLabelValues(string(outcome)).Inc()
	c.lookupDuration.WithLabelValues(string(outcome)).Observe(duration.Seconds())
}

// RecordQueueDepth records the current queue length
func (c *LookupMetricsCollector) RecordQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}
