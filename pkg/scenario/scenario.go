// Package scenario defines the shared vocabulary of the QA labs:
// scenario definitions, edge-case rules, detection events and the
// Detector contract that every scenario package implements.
package scenario

import "time"

// ID uniquely identifies a scenario.
type ID string

// Detector classifies user input for one scenario. Detectors for
// stateful scenarios (cart, role editor, billing console) keep
// their session state between calls; the stateless ones only hold
// their definition and clock.
//
// Handle never returns a Go error. Malformed or unknown actions
// produce a single KindError event instead.
type Detector interface {
	// Definition returns the scenario metadata and rule list.
	Definition() *Definition

	// Handle decodes the action and runs the matching operation,
	// returning the events it produced in emission order.
	Handle(a Action) Events
}

// Factory builds a fresh detector instance. The clock stamps
// events and drives date-sensitive checks.
type Factory func(clock Clock) Detector

// Clock returns the current time.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
