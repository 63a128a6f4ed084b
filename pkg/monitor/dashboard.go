package monitor

import (
	"sync"
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/progress"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// DashboardData provides a live snapshot of lab progress.
type DashboardData struct {
	mu        sync.RWMutex
	order     []scenario.ID
	StartTime time.Time
	Scenarios map[scenario.ID]ScenarioState
	Summary   DashboardSummary
}

// DashboardView is an immutable copy of the dashboard with the
// scenario rows in catalog order.
type DashboardView struct {
	StartTime time.Time        `json:"start_time"`
	Scenarios []ScenarioState  `json:"scenarios"`
	Summary   DashboardSummary `json:"summary"`
}

// ScenarioState is one scenario's row on the dashboard.
type ScenarioState struct {
	ID           scenario.ID `json:"id"`
	Title        string      `json:"title"`
	Difficulty   string      `json:"difficulty"`
	Solved       int         `json:"solved"`
	Total        int         `json:"total"`
	Percent      int         `json:"percent"`
	Complete     bool        `json:"complete"`
	Sessions     int         `json:"sessions"`
	LastEdgeCase string      `json:"last_edge_case,omitempty"`
	LastActivity *time.Time  `json:"last_activity,omitempty"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Scenarios    int    `json:"scenarios"`
	Completed    int    `json:"completed"`
	Solved       int    `json:"solved"`
	Rules        int    `json:"rules"`
	Percent      int    `json:"percent"`
	LiveSessions int    `json:"live_sessions"`
	Elapsed      string `json:"elapsed"`
}

// NewDashboardData creates an empty dashboard.
func NewDashboardData() *DashboardData {
	return &DashboardData{
		StartTime: time.Now(),
		Scenarios: make(map[scenario.ID]ScenarioState),
	}
}

// Track adds a scenario row seeded from its current progress.
// Tracking a scenario again refreshes its progress columns.
func (d *DashboardData) Track(def *scenario.Definition, snap progress.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state, exists := d.Scenarios[def.ID]
	if !exists {
		d.order = append(d.order, def.ID)
	}
	state.ID = def.ID
	state.Title = def.Title
	state.Difficulty = string(def.Difficulty)
	state.Total = len(def.Rules)
	state.Solved = len(snap.Solved)
	state.Percent = snap.Percent
	state.Complete = snap.Complete
	d.Scenarios[def.ID] = state
	d.recalcSummary()
}

// UpdateFromEvent updates dashboard state from a lab event.
// Events for untracked scenarios are ignored.
func (d *DashboardData) UpdateFromEvent(event LabEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state, exists := d.Scenarios[event.ScenarioID]
	if !exists {
		return
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	state.LastActivity = &ts

	switch event.Type {
	case EventSessionOpened:
		state.Sessions++
	case EventSessionClosed:
		if state.Sessions > 0 {
			state.Sessions--
		}
	case EventSolved:
		state.Solved++
		state.Percent = event.Percent
		state.LastEdgeCase = event.EdgeCaseID
	case EventCompleted:
		state.Complete = true
		state.Percent = 100
	case EventReset:
		state.Solved = 0
		state.Percent = 0
		state.Complete = false
		state.LastEdgeCase = ""
	}

	d.Scenarios[event.ScenarioID] = state
	d.recalcSummary()
}

func (d *DashboardData) recalcSummary() {
	s := DashboardSummary{}
	for _, sc := range d.Scenarios {
		s.Scenarios++
		s.Solved += sc.Solved
		s.Rules += sc.Total
		s.LiveSessions += sc.Sessions
		if sc.Complete {
			s.Completed++
		}
	}
	s.Percent = progress.Percent(s.Solved, s.Rules)
	s.Elapsed = time.Since(d.StartTime).Round(time.Millisecond).String()
	d.Summary = s
}

// Snapshot returns a copy of the current dashboard state.
func (d *DashboardData) Snapshot() DashboardView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	view := DashboardView{
		StartTime: d.StartTime,
		Scenarios: make([]ScenarioState, 0, len(d.order)),
		Summary:   d.Summary,
	}
	for _, id := range d.order {
		view.Scenarios = append(view.Scenarios, d.Scenarios[id])
	}
	view.Summary.Elapsed = time.Since(d.StartTime).Round(time.Millisecond).String()
	return view
}

// BuildDashboardData creates a dashboard for the given
// definitions and replays the collector's events onto it.
func BuildDashboardData(
	defs []*scenario.Definition,
	collector *EventCollector,
) *DashboardData {
	data := NewDashboardData()
	for _, def := range defs {
		data.Track(def, progress.Snapshot{ScenarioID: def.ID})
	}
	for _, event := range collector.Events() {
		data.UpdateFromEvent(event)
	}
	return data
}
