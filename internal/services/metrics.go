package services

import (
	"sync"
	"time"
)

// Metrics collects counters over update batches and scrape attempts for
// operational visibility. All methods are safe for concurrent use.
type Metrics struct {
	startTime time.Time

	mu                sync.RWMutex
	lastBatchTime     *time.Time
	lastBatchDuration time.Duration
	batchCount        int64
	pointsAppended    int64
	scrapeSuccesses   int64
	scrapeFailures    int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordScrapeSuccess records one successful scrape attempt.
func (m *Metrics) RecordScrapeSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrapeSuccesses++
}

// RecordScrapeFailure records one failed scrape attempt.
func (m *Metrics) RecordScrapeFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrapeFailures++
}

// RecordBatch records a completed update batch and the observations it
// appended.
func (m *Metrics) RecordBatch(duration time.Duration, appended int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.lastBatchTime = &now
	m.lastBatchDuration = duration
	m.batchCount++
	m.pointsAppended += int64(appended)
}

// MetricsSnapshot is a point-in-time view of the collected counters.
type MetricsSnapshot struct {
	Uptime            float64    `json:"uptime_seconds"`
	UpdateBatches     int64      `json:"update_batches"`
	PointsAppended    int64      `json:"points_appended"`
	ScrapeSuccesses   int64      `json:"scrape_successes"`
	ScrapeFailures    int64      `json:"scrape_failures"`
	LastBatchTime     *time.Time `json:"last_batch_time,omitempty"`
	LastBatchDuration float64    `json:"last_batch_duration_ms"`
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		Uptime:            time.Since(m.startTime).Seconds(),
		UpdateBatches:     m.batchCount,
		PointsAppended:    m.pointsAppended,
		ScrapeSuccesses:   m.scrapeSuccesses,
		ScrapeFailures:    m.scrapeFailures,
		LastBatchTime:     m.lastBatchTime,
		LastBatchDuration: float64(m.lastBatchDuration.Milliseconds()),
	}
}
