// Package metrics records lab activity: actions handled,
// detection events, solved rules and live sessions.
package metrics

import "time"

// LabMetrics defines the interface for recording lab metrics.
type LabMetrics interface {
	// RecordAction records one handled action and how long the
	// detector took.
	RecordAction(scenarioID, action string, duration time.Duration)
	// RecordDetection records a detection event by kind.
	RecordDetection(scenarioID, kind string)
	// RecordSolve records a newly solved rule.
	RecordSolve(scenarioID, edgeCaseID string)
	// RecordCompletion records a scenario reaching 100 percent.
	RecordCompletion(scenarioID string)
	// RecordAssertion records a walkthrough expectation.
	RecordAssertion(scenarioID, evaluator string, passed bool)
	// SetActiveSessions sets the gauge of live sessions.
	SetActiveSessions(count int)
}

// NoopMetrics is a no-op implementation of LabMetrics
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordAction(_, _ string, _ time.Duration) {}
func (NoopMetrics) RecordDetection(_, _ string)               {}
func (NoopMetrics) RecordSolve(_, _ string)                   {}
func (NoopMetrics) RecordCompletion(_ string)                 {}
func (NoopMetrics) RecordAssertion(_, _ string, _ bool)       {}
func (NoopMetrics) SetActiveSessions(_ int)                   {}
