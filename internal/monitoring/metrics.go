package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application counters and render timings.
type Metrics struct {
	RequestCount int64
	ErrorCount   int64
	RenderCount  int64
	SessionHits  int64
	SessionMiss  int64
	StartTime    time.Time

	renderTimes  []time.Duration
	renderMutex  sync.RWMutex
	statusCounts map[int]int64
	statusMutex  sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:    time.Now(),
		renderTimes:  make([]time.Duration, 0, 1000),
		statusCounts: make(map[int]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementSessionHit increments the session-store hit count
func (m *Metrics) IncrementSessionHit() {
	atomic.AddInt64(&m.SessionHits, 1)
}

// IncrementSessionMiss increments the session-store miss count
func (m *Metrics) IncrementSessionMiss() {
	atomic.AddInt64(&m.SessionMiss, 1)
}

// RecordRender records one completed report render.
func (m *Metrics) RecordRender(duration time.Duration) {
	atomic.AddInt64(&m.RenderCount, 1)

	m.renderMutex.Lock()
	defer m.renderMutex.Unlock()

	// Keep a bounded window so percentiles stay cheap.
	if len(m.renderTimes) >= 1000 {
		m.renderTimes = m.renderTimes[1:]
	}
	m.renderTimes = append(m.renderTimes, duration)
}

// RecordRequestByStatus tracks response status codes.
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()
	m.statusCounts[statusCode]++
}

// RenderPercentiles returns p50/p95/p99 of recorded render durations in
// milliseconds.
func (m *Metrics) RenderPercentiles() map[string]float64 {
	m.renderMutex.RLock()
	defer m.renderMutex.RUnlock()

	if len(m.renderTimes) == 0 {
		return map[string]float64{"p50": 0, "p95": 0, "p99": 0}
	}

	sorted := append([]time.Duration(nil), m.renderTimes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	pick := func(p float64) float64 {
		idx := int(p * float64(len(sorted)-1))
		return float64(sorted[idx].Microseconds()) / 1000
	}

	return map[string]float64{
		"p50": pick(0.50),
		"p95": pick(0.95),
		"p99": pick(0.99),
	}
}

// GetStats returns a snapshot for the health endpoint.
func (m *Metrics) GetStats() map[string]interface{} {
	m.statusMutex.RLock()
	statuses := make(map[int]int64, len(m.statusCounts))
	for code, count := range m.statusCounts {
		statuses[code] = count
	}
	m.statusMutex.RUnlock()

	return map[string]interface{}{
		"request_count":      atomic.LoadInt64(&m.RequestCount),
		"error_count":        atomic.LoadInt64(&m.ErrorCount),
		"render_count":       atomic.LoadInt64(&m.RenderCount),
		"session_hits":       atomic.LoadInt64(&m.SessionHits),
		"session_misses":     atomic.LoadInt64(&m.SessionMiss),
		"render_percentiles": m.RenderPercentiles(),
		"requests_by_status": statuses,
		"uptime_seconds":     time.Since(m.StartTime).Seconds(),
	}
}
