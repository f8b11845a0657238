package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncScanStarted is a no-op.
func (n *NoopRecorder) IncScanStarted(tool string) {}

// IncScanCompleted is a no-op.
func (n *NoopRecorder) IncScanCompleted(tool string) {}

// IncScanFailed is a no-op.
func (n *NoopRecorder) IncScanFailed(reason string) {}

// ObserveScanDuration is a no-op.
func (n *NoopRecorder) ObserveScanDuration(duration time.Duration) {}

// IncQuotaExceeded is a no-op.
func (n *NoopRecorder) IncQuotaExceeded() {}

// IncAuthFailure is a no-op.
func (n *NoopRecorder) IncAuthFailure() {}

// IncKeyIssued is a no-op.
func (n *NoopRecorder) IncKeyIssued(tier string) {}
