package monitor

import (
	"sync"
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// DefaultMaxEvents bounds the history an EventCollector keeps.
const DefaultMaxEvents = 1000

// EventCollector captures lab events and aggregate counts.
type EventCollector struct {
	mu        sync.RWMutex
	events    []LabEvent
	maxEvents int
	handlers  []func(LabEvent)
	stats     CollectorStats
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Total      int           `json:"total"`
	Detections int           `json:"detections"`
	Successes  int           `json:"successes"`
	Errors     int           `json:"errors"`
	Solved     int           `json:"solved"`
	Completed  int           `json:"completed"`
	Sessions   int           `json:"sessions"`
	StartTime  time.Time     `json:"start_time"`
	Duration   time.Duration `json:"duration"`
}

// NewEventCollector creates a collector keeping at most
// maxEvents events. A non-positive value selects
// DefaultMaxEvents.
func NewEventCollector(maxEvents int) *EventCollector {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &EventCollector{
		events:    make([]LabEvent, 0, 64),
		maxEvents: maxEvents,
		stats:     CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(LabEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers. The oldest
// events are dropped once the history is full; the counters
// keep counting.
func (c *EventCollector) Emit(event LabEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	if len(c.events) == c.maxEvents {
		copy(c.events, c.events[1:])
		c.events = c.events[:len(c.events)-1]
	}
	c.events = append(c.events, event)
	c.stats.Total++
	switch event.Type {
	case EventDetection:
		c.stats.Detections++
		switch scenario.Kind(event.Kind) {
		case scenario.KindSuccess:
			c.stats.Successes++
		case scenario.KindError:
			c.stats.Errors++
		}
	case EventSolved:
		c.stats.Solved++
	case EventCompleted:
		c.stats.Completed++
	case EventSessionOpened:
		c.stats.Sessions++
	}
	handlers := make([]func(LabEvent), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitDetection emits one detection event for a session.
func (c *EventCollector) EmitDetection(
	id scenario.ID, sessionID, action string, e scenario.Event,
) {
	c.Emit(LabEvent{
		Type:       EventDetection,
		ScenarioID: id,
		SessionID:  sessionID,
		Action:     action,
		Kind:       string(e.Kind),
		EdgeCaseID: e.EdgeCaseID,
		Message:    e.Message,
		Timestamp:  e.Timestamp,
	})
}

// EmitSolved emits a newly solved rule.
func (c *EventCollector) EmitSolved(
	id scenario.ID, sessionID, edgeCaseID string, percent int,
) {
	c.Emit(LabEvent{
		Type:       EventSolved,
		ScenarioID: id,
		SessionID:  sessionID,
		EdgeCaseID: edgeCaseID,
		Percent:    percent,
	})
}

// EmitCompleted emits a completion transition.
func (c *EventCollector) EmitCompleted(id scenario.ID, sessionID string) {
	c.Emit(LabEvent{
		Type:       EventCompleted,
		ScenarioID: id,
		SessionID:  sessionID,
		Percent:    100,
	})
}

// Events returns a copy of the retained events.
func (c *EventCollector) Events() []LabEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]LabEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Recent returns up to n of the newest events, newest last.
func (c *EventCollector) Recent(n int) []LabEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n <= 0 || n > len(c.events) {
		n = len(c.events)
	}
	result := make([]LabEvent, n)
	copy(result, c.events[len(c.events)-n:])
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
