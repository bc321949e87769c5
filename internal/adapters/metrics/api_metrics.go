package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetricsCollector handles catalog HTTP request metrics
type CatalogMetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCatalogMetricsCollector creates a new catalog metrics collector
func NewCatalogMetricsCollector() *CatalogMetricsCollector {
	return &CatalogMetricsCollector{
		// Status code 0 means the request never got a response
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_requests_total",
				Help:      "Total number of catalog requests by endpoint and status code",
			},
			[]string{"endpoint", "status_code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_request_duration_seconds",
				Help:      "Catalog request duration distribution",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"endpoint"},
		),
	}
}

// Register registers all catalog metrics with the Prometheus registry
func (c *CatalogMetricsCollector) Register() error {
	return register(c.requestsTotal, c.requestDuration)
}

// RecordCatalogRequest records a catalog request completion
func (c *CatalogMetricsCollector) RecordCatalogRequest(endpoint string, statusCode int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
