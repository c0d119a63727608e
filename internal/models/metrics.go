package models

import "time"

// SystemMetrics is a lightweight snapshot of process instrumentation.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	GrievancesSubmitted      uint64    `json:"grievances_submitted"`
	StatusUpdates            uint64    `json:"status_updates"`
	LookupHits               uint64    `json:"lookup_hits"`
	LookupMisses             uint64    `json:"lookup_misses"`
	LookupHitRatio           float64   `json:"lookup_hit_ratio"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
