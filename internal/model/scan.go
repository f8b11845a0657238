package model

import "time"

// ScanRecord is the immutable log of one tool invocation.
// It is owned by the API key token that paid for the scan.
type ScanRecord struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	Domain    string    `json:"domain"`
	Tool      string    `json:"tool"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}

// ScanOutcome is returned to the caller after a dispatched scan.
type ScanOutcome struct {
	Tool   string `json:"tool"`
	Domain string `json:"domain"`
	Output string `json:"output"`
}

// ScanSummary is a history entry without the output blob.
type ScanSummary struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	Tool      string    `json:"tool"`
	CreatedAt time.Time `json:"scan_time"`
}

// ScanDetail is a history entry including the captured output.
type ScanDetail struct {
	ScanSummary
	Output string `json:"output"`
}

// Summary converts a record to its list representation.
func (r *ScanRecord) Summary() ScanSummary {
	return ScanSummary{
		ID:        r.ID,
		Domain:    r.Domain,
		Tool:      r.Tool,
		CreatedAt: r.CreatedAt,
	}
}

// Detail converts a record to its detail representation.
func (r *ScanRecord) Detail() ScanDetail {
	return ScanDetail{
		ScanSummary: r.Summary(),
		Output:      r.Output,
	}
}
