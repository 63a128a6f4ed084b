package scenario

import "time"

// Kind classifies a detection event.
type Kind string

// Event kinds. KindSuccess is the learner's "good" outcome: an
// intentional edge case was triggered.
const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Event is a single detection record produced by a detector.
type Event struct {
	// Kind is one of the Kind* constants.
	Kind Kind `json:"kind"`

	// Message is the human-readable narration shown in the log.
	Message string `json:"message"`

	// EdgeCaseID links a success event to exactly one rule.
	EdgeCaseID string `json:"edge_case_id,omitempty"`

	// Timestamp is when the detector emitted the event.
	Timestamp time.Time `json:"timestamp"`
}

// Solves reports whether the event can mark a rule as solved.
func (e Event) Solves() bool {
	return e.Kind == KindSuccess && e.EdgeCaseID != ""
}

// Events is an ordered list of detection events.
type Events []Event

// SolvedIDs returns the edge-case ids of all solving events, in
// emission order.
func (es Events) SolvedIDs() []string {
	var ids []string
	for _, e := range es {
		if e.Solves() {
			ids = append(ids, e.EdgeCaseID)
		}
	}
	return ids
}

// Has reports whether a solving event for id is present.
func (es Events) Has(id string) bool {
	for _, e := range es {
		if e.Solves() && e.EdgeCaseID == id {
			return true
		}
	}
	return false
}

// Count returns the number of events of the given kind.
func (es Events) Count(kind Kind) int {
	n := 0
	for _, e := range es {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
