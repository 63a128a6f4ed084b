// Package monitor collects lab events, keeps a live dashboard of
// per-scenario progress and streams both to WebSocket clients.
package monitor

import (
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// EventType represents the type of lab event.
type EventType string

const (
	EventSessionOpened EventType = "session_opened"
	EventSessionClosed EventType = "session_closed"
	EventDetection     EventType = "detection"
	EventSolved        EventType = "solved"
	EventCompleted     EventType = "completed"
	EventReset         EventType = "reset"
)

// LabEvent is one observable occurrence in the lab.
type LabEvent struct {
	Type       EventType   `json:"type"`
	ScenarioID scenario.ID `json:"scenario_id"`
	SessionID  string      `json:"session_id,omitempty"`
	Action     string      `json:"action,omitempty"`
	Kind       string      `json:"kind,omitempty"`
	EdgeCaseID string      `json:"edge_case_id,omitempty"`
	Message    string      `json:"message,omitempty"`
	Percent    int         `json:"percent,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}
