package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ScansStarted        map[string]uint64
	ScansCompleted      map[string]uint64
	ScansFailed         map[string]uint64
	ScanDurationCount   uint64
	ScanDurationTotalNs int64
	QuotaExceeded       uint64
	AuthFailures        uint64
	KeysIssued          map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu             sync.Mutex
	scansStarted   map[string]uint64
	scansCompleted map[string]uint64
	scansFailed    map[string]uint64
	keysIssued     map[string]uint64

	scanDurationCount   uint64
	scanDurationTotalNs int64
	quotaExceeded       uint64
	authFailures        uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		scansStarted:   make(map[string]uint64),
		scansCompleted: make(map[string]uint64),
		scansFailed:    make(map[string]uint64),
		keysIssued:     make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		ScansStarted:        copyCounts(m.scansStarted),
		ScansCompleted:      copyCounts(m.scansCompleted),
		ScansFailed:         copyCounts(m.scansFailed),
		ScanDurationCount:   atomic.LoadUint64(&m.scanDurationCount),
		ScanDurationTotalNs: atomic.LoadInt64(&m.scanDurationTotalNs),
		QuotaExceeded:       atomic.LoadUint64(&m.quotaExceeded),
		AuthFailures:        atomic.LoadUint64(&m.authFailures),
		KeysIssued:          copyCounts(m.keysIssued),
	}
}

// IncScanStarted increments the started counter for a tool.
func (m *InMemoryRecorder) IncScanStarted(tool string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scansStarted[tool]++
}

// IncScanCompleted increments the completed counter for a tool.
func (m *InMemoryRecorder) IncScanCompleted(tool string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scansCompleted[tool]++
}

// IncScanFailed increments the failure counter for a reason.
func (m *InMemoryRecorder) IncScanFailed(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scansFailed[reason]++
}

// ObserveScanDuration records a scan duration.
func (m *InMemoryRecorder) ObserveScanDuration(duration time.Duration) {
	atomic.AddUint64(&m.scanDurationCount, 1)
	atomic.AddInt64(&m.scanDurationTotalNs, duration.Nanoseconds())
}

// IncQuotaExceeded increments the quota rejection counter.
func (m *InMemoryRecorder) IncQuotaExceeded() {
	atomic.AddUint64(&m.quotaExceeded, 1)
}

// IncAuthFailure increments the auth failure counter.
func (m *InMemoryRecorder) IncAuthFailure() {
	atomic.AddUint64(&m.authFailures, 1)
}

// IncKeyIssued increments the issuance counter for a tier.
func (m *InMemoryRecorder) IncKeyIssued(tier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keysIssued[tier]++
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
