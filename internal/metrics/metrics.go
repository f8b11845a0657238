// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Scan pipeline metrics
	IncScanStarted(tool string)
	IncScanCompleted(tool string)
	IncScanFailed(reason string) // reason: "timeout", "exec_error", "unknown_tool", "invalid_domain"
	ObserveScanDuration(duration time.Duration)

	// Quota and credential metrics
	IncQuotaExceeded()
	IncAuthFailure()
	IncKeyIssued(tier string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
