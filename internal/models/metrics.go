package models

import "time"

// MetricsSnapshot summarises process counters for the metrics summary endpoint.
type MetricsSnapshot struct {
	RequestsTotal       uint64    `json:"requests_total"`
	CacheHits           uint64    `json:"cache_hits"`
	CacheMisses         uint64    `json:"cache_misses"`
	CacheHitRatio       float64   `json:"cache_hit_ratio"`
	LessonsCreated      uint64    `json:"lessons_created"`
	SchedulingConflicts uint64    `json:"scheduling_conflicts"`
	Cancellations       uint64    `json:"cancellations"`
	Goroutines          int       `json:"goroutines"`
	GeneratedAt         time.Time `json:"generated_at"`
}
