package scenario

import (
	"fmt"
	"time"
)

// Base provides the definition and clock plumbing shared by every
// detector. Embed it and implement Handle to build a scenario.
type Base struct {
	def   *Definition
	clock Clock
}

// NewBase creates a Base for def. A nil clock falls back to the
// system clock.
func NewBase(def *Definition, clock Clock) Base {
	if clock == nil {
		clock = SystemClock
	}
	return Base{def: def, clock: clock}
}

// Definition returns the scenario definition.
func (b *Base) Definition() *Definition { return b.def }

// Now returns the current time according to the injected clock.
func (b *Base) Now() time.Time { return b.clock() }

// Recorder starts a fresh event list stamped by the base clock.
func (b *Base) Recorder() *Recorder {
	return &Recorder{now: b.clock}
}

// Fail returns a single error event. Detectors use it for empty
// input, malformed action fields and unknown actions.
func (b *Base) Fail(format string, args ...any) Events {
	r := b.Recorder()
	r.Error(fmt.Sprintf(format, args...))
	return r.Events()
}

// Unknown returns the error event for an unsupported action.
func (b *Base) Unknown(a Action) Events {
	return b.Fail(
		"unknown action %q for scenario %s", a.Name, b.def.ID,
	)
}

// Recorder accumulates events in emission order.
type Recorder struct {
	now    Clock
	events Events
}

// NewRecorder creates a Recorder stamped by clock.
func NewRecorder(clock Clock) *Recorder {
	if clock == nil {
		clock = SystemClock
	}
	return &Recorder{now: clock}
}

// Info appends an informational event.
func (r *Recorder) Info(msg string) {
	r.add(KindInfo, "", msg)
}

// Success appends an event that solves the edge case id.
func (r *Recorder) Success(id, msg string) {
	r.add(KindSuccess, id, msg)
}

// Pass appends a success event that does not solve any rule.
func (r *Recorder) Pass(msg string) {
	r.add(KindSuccess, "", msg)
}

// Error appends an error event.
func (r *Recorder) Error(msg string) {
	r.add(KindError, "", msg)
}

// ErrorFor appends an error event tagged with an edge case id.
// Error events never solve rules; the id is kept for display.
func (r *Recorder) ErrorFor(id, msg string) {
	r.add(KindError, id, msg)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int { return len(r.events) }

// Events returns the recorded events.
func (r *Recorder) Events() Events {
	if r.events == nil {
		return Events{}
	}
	return r.events
}

func (r *Recorder) add(kind Kind, id, msg string) {
	r.events = append(r.events, Event{
		Kind:       kind,
		Message:    msg,
		EdgeCaseID: id,
		Timestamp:  r.now(),
	})
}
