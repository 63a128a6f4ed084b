package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m LabMetrics = NoopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordAction("a", "submit", time.Millisecond)
		m.RecordDetection("a", "success")
		m.RecordSolve("a", "zero")
		m.RecordCompletion("a")
		m.RecordAssertion("a", "fires", true)
		m.SetActiveSessions(3)
	})
}

func TestMemoryMetrics_Counters(t *testing.T) {
	m := NewMemoryMetrics()

	m.RecordAction("age-gate", "submit", 2*time.Millisecond)
	m.RecordAction("age-gate", "submit", 3*time.Millisecond)
	m.RecordAction("age-gate", "reset", time.Millisecond)
	m.RecordDetection("age-gate", "success")
	m.RecordDetection("age-gate", "info")
	m.RecordDetection("age-gate", "success")
	m.RecordSolve("age-gate", "zero")
	m.RecordCompletion("age-gate")
	m.RecordAssertion("age-gate", "fires", true)
	m.RecordAssertion("age-gate", "fires", false)
	m.RecordAssertion("age-gate", "fires", false)
	m.SetActiveSessions(4)

	assert.Equal(t, 2, m.ActionCount("age-gate", "submit"))
	assert.Equal(t, 1, m.ActionCount("age-gate", "reset"))
	assert.Equal(t, 0, m.ActionCount("coupon-code", "apply"))
	assert.Len(t, m.Durations("age-gate"), 3)
	assert.Equal(t, 2, m.DetectionCount("age-gate", "success"))
	assert.Equal(t, 1, m.SolveCount("age-gate"))
	assert.Equal(t, 1, m.CompletionCount("age-gate"))
	assert.Equal(t, 1, m.AssertionCount("age-gate", "fires", true))
	assert.Equal(t, 2, m.AssertionCount("age-gate", "fires", false))
	assert.Equal(t, 4, m.ActiveSessions())
}

func TestMemoryMetrics_Concurrent(t *testing.T) {
	m := NewMemoryMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordDetection("s", "info")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, m.DetectionCount("s", "info"))
}

func TestImplementations(t *testing.T) {
	var _ LabMetrics = NoopMetrics{}
	var _ LabMetrics = (*MemoryMetrics)(nil)
	var _ LabMetrics = (*PrometheusMetrics)(nil)
}
