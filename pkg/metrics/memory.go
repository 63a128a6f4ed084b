package metrics

import (
	"sync"
	"time"
)

// MemoryMetrics implements LabMetrics with in-memory counters.
// It backs tests and the CLI summary. It is safe for concurrent
// use.
type MemoryMetrics struct {
	mu          sync.Mutex
	actions     map[string]int
	durations   map[string][]time.Duration
	detections  map[string]int
	solves      map[string]int
	completions map[string]int
	assertions  map[string]int
	active      int
}

// NewMemoryMetrics creates an empty MemoryMetrics.
func NewMemoryMetrics() *MemoryMetrics {
	return &MemoryMetrics{
		actions:     make(map[string]int),
		durations:   make(map[string][]time.Duration),
		detections:  make(map[string]int),
		solves:      make(map[string]int),
		completions: make(map[string]int),
		assertions:  make(map[string]int),
	}
}

func (m *MemoryMetrics) RecordAction(scenarioID, action string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions[scenarioID+":"+action]++
	m.durations[scenarioID] = append(m.durations[scenarioID], duration)
}

func (m *MemoryMetrics) RecordDetection(scenarioID, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detections[scenarioID+":"+kind]++
}

func (m *MemoryMetrics) RecordSolve(scenarioID, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solves[scenarioID]++
}

func (m *MemoryMetrics) RecordCompletion(scenarioID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions[scenarioID]++
}

func (m *MemoryMetrics) RecordAssertion(scenarioID, evaluator string, passed bool) {
	status := "failed"
	if passed {
		status = "passed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assertions[scenarioID+":"+evaluator+":"+status]++
}

func (m *MemoryMetrics) SetActiveSessions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

// ActionCount returns the count for a scenario+action pair.
func (m *MemoryMetrics) ActionCount(scenarioID, action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actions[scenarioID+":"+action]
}

// Durations returns the recorded action durations of a scenario.
func (m *MemoryMetrics) Durations(scenarioID string) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.durations[scenarioID]))
	copy(out, m.durations[scenarioID])
	return out
}

// DetectionCount returns the count for a scenario+kind pair.
func (m *MemoryMetrics) DetectionCount(scenarioID, kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detections[scenarioID+":"+kind]
}

// SolveCount returns the number of rules solved in a scenario.
func (m *MemoryMetrics) SolveCount(scenarioID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.solves[scenarioID]
}

// CompletionCount returns how often a scenario was completed.
func (m *MemoryMetrics) CompletionCount(scenarioID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completions[scenarioID]
}

// AssertionCount returns the count for an evaluator outcome.
func (m *MemoryMetrics) AssertionCount(scenarioID, evaluator string, passed bool) int {
	status := "failed"
	if passed {
		status = "passed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assertions[scenarioID+":"+evaluator+":"+status]
}

// ActiveSessions returns the current live-session gauge.
func (m *MemoryMetrics) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
