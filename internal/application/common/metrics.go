package common

import "time"

// LookupOutcome classifies how a single target lookup ended
type LookupOutcome string

const (
	OutcomeResolved LookupOutcome = "resolved"
	OutcomeUnknown  LookupOutcome = "unknown"
	OutcomeSkipped  LookupOutcome = "skipped"
)

// MetricsRecorder receives lookup pipeline events.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	RecordLookup(outcome LookupOutcome, duration time.Duration)
	RecordQueueDepth(depth int)
	RecordCatalogRequest(endpoint string, statusCode int, duration time.Duration)
}

// NoOpMetrics returns a recorder that discards everything
func NoOpMetrics() MetricsRecorder {
	return noOpMetrics{}
}

type noOpMetrics struct{}

func (noOpMetrics) RecordLookup(LookupOutcome, time.Duration) {}
func (noOpMetrics) RecordQueueDepth(int) {}
func (noOpMetrics) RecordCatalogRequest(string, int, time.Duration) {}
