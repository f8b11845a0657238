package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	recorder := NewInMemory()

	recorder.IncScanStarted("dig")
	recorder.IncScanStarted("dig")
	recorder.IncScanCompleted("dig")
	recorder.IncScanFailed("timeout")
	recorder.IncQuotaExceeded()
	recorder.IncAuthFailure()
	recorder.IncKeyIssued("free")
	recorder.ObserveScanDuration(2 * time.Second)

	snapshot := recorder.Snapshot()

	if snapshot.ScansStarted["dig"] != 2 {
		t.Errorf("expected 2 dig scans started, got %d", snapshot.ScansStarted["dig"])
	}
	if snapshot.ScansCompleted["dig"] != 1 {
		t.Errorf("expected 1 dig scan completed, got %d", snapshot.ScansCompleted["dig"])
	}
	if snapshot.ScansFailed["timeout"] != 1 {
		t.Errorf("expected 1 timeout failure, got %d", snapshot.ScansFailed["timeout"])
	}
	if snapshot.QuotaExceeded != 1 {
		t.Errorf("expected 1 quota rejection, got %d", snapshot.QuotaExceeded)
	}
	if snapshot.AuthFailures != 1 {
		t.Errorf("expected 1 auth failure, got %d", snapshot.AuthFailures)
	}
	if snapshot.KeysIssued["free"] != 1 {
		t.Errorf("expected 1 free key issued, got %d", snapshot.KeysIssued["free"])
	}
	if snapshot.ScanDurationCount != 1 {
		t.Errorf("expected 1 duration observation, got %d", snapshot.ScanDurationCount)
	}
	if snapshot.ScanDurationTotalNs != (2 * time.Second).Nanoseconds() {
		t.Errorf("expected 2s total duration, got %dns", snapshot.ScanDurationTotalNs)
	}
}

func TestInMemoryRecorder_SnapshotIsolated(t *testing.T) {
	recorder := NewInMemory()
	recorder.IncScanStarted("nmap")

	snapshot := recorder.Snapshot()
	snapshot.ScansStarted["nmap"] = 999

	if recorder.Snapshot().ScansStarted["nmap"] != 1 {
		t.Error("mutating a snapshot must not affect the recorder")
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	recorder := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				recorder.IncScanStarted("dig")
				recorder.IncQuotaExceeded()
			}
		}()
	}
	wg.Wait()

	snapshot := recorder.Snapshot()
	if snapshot.ScansStarted["dig"] != 1000 {
		t.Errorf("expected 1000 scans started, got %d", snapshot.ScansStarted["dig"])
	}
	if snapshot.QuotaExceeded != 1000 {
		t.Errorf("expected 1000 quota rejections, got %d", snapshot.QuotaExceeded)
	}
}
