package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.IncrementRequest()
	m.IncrementError()
	m.IncrementSessionHit()
	m.IncrementSessionMiss()
	m.RecordRender(5 * time.Millisecond)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["request_count"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, int64(1), stats["render_count"])
	assert.Equal(t, int64(1), stats["session_hits"])
	assert.Equal(t, int64(1), stats["session_misses"])
}

func TestRenderPercentilesEmpty(t *testing.T) {
	m := NewMetrics()

	p := m.RenderPercentiles()
	assert.Equal(t, 0.0, p["p50"])
	assert.Equal(t, 0.0, p["p99"])
}

func TestRenderPercentilesOrdering(t *testing.T) {
	m := NewMetrics()
	for i := 1; i <= 100; i++ {
		m.RecordRender(time.Duration(i) * time.Millisecond)
	}

	p := m.RenderPercentiles()
	assert.InDelta(t, 50, p["p50"], 2)
	assert.InDelta(t, 95, p["p95"], 2)
	assert.LessOrEqual(t, p["p50"], p["p95"])
	assert.LessOrEqual(t, p["p95"], p["p99"])
}

func TestRenderWindowBounded(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < 1500; i++ {
		m.RecordRender(time.Millisecond)
	}

	m.renderMutex.RLock()
	defer m.renderMutex.RUnlock()
	assert.LessOrEqual(t, len(m.renderTimes), 1000)
}

func TestRecordRequestByStatus(t *testing.T) {
	m := NewMetrics()
	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(422)

	stats := m.GetStats()
	byStatus := stats["requests_by_status"].(map[int]int64)
	assert.Equal(t, int64(2), byStatus[200])
	assert.Equal(t, int64(1), byStatus[422])
}
