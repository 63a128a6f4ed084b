// Package progress aggregates detection events into per-scenario
// completion state and persists the solved set through a store.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"

	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
	"github.com/letsconfuse/manualQaLabs/pkg/store"
)

// Snapshot is a point-in-time view of a scenario's progress.
type Snapshot struct {
	ScenarioID scenario.ID `json:"scenario_id"`

	// Solved lists the solved rule ids in checklist order.
	Solved []string `json:"solved"`

	Total    int  `json:"total"`
	Percent  int  `json:"percent"`
	Complete bool `json:"complete"`
}

// IsSolved reports whether id is in the solved set.
func (s Snapshot) IsSolved(id string) bool {
	for _, v := range s.Solved {
		if v == id {
			return true
		}
	}
	return false
}

// Change describes the effect of recording one event.
type Change struct {
	// EdgeCaseID is the rule the event solved. Empty when the
	// event changed nothing.
	EdgeCaseID string `json:"edge_case_id,omitempty"`

	// Added is true when the rule was newly solved.
	Added bool `json:"added"`

	// Completed is true only on the event that first brought
	// the scenario to 100 percent.
	Completed bool `json:"completed"`

	Snapshot Snapshot `json:"snapshot"`
}

// CompletionFunc is invoked once per completion transition.
type CompletionFunc func(s Snapshot)

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used to report persistence
// failures.
func WithLogger(logger logging.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// OnComplete registers a completion callback.
func OnComplete(fn CompletionFunc) Option {
	return func(t *Tracker) {
		t.callbacks = append(t.callbacks, fn)
	}
}

// Tracker holds the solved set of one scenario. It is safe for
// concurrent use.
type Tracker struct {
	mu        sync.Mutex
	def       *scenario.Definition
	store     store.Store
	logger    logging.Logger
	solved    map[string]struct{}
	completed bool
	callbacks []CompletionFunc
}

// Key returns the store key under which a scenario's progress is
// persisted.
func Key(def *scenario.Definition) string {
	return "progress:" + def.Title
}

// NewTracker creates a tracker and restores any persisted
// progress. Missing or unreadable data starts the tracker empty;
// the failure is logged, never returned. A nil store keeps
// progress in memory only.
func NewTracker(
	ctx context.Context,
	def *scenario.Definition,
	st store.Store,
	opts ...Option,
) *Tracker {
	if st == nil {
		st = store.NewMemory()
	}
	t := &Tracker{
		def:    def,
		store:  st,
		logger: logging.NullLogger{},
		solved: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.load(ctx)
	return t
}

// Definition returns the tracked scenario.
func (t *Tracker) Definition() *scenario.Definition { return t.def }

func (t *Tracker) load(ctx context.Context) {
	data, err := t.store.Load(ctx, Key(t.def))
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		t.logger.Warn("progress load failed",
			logging.ScenarioField(string(t.def.ID)),
			logging.ErrorField(err),
		)
		return
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		t.logger.Warn("progress data corrupt, starting empty",
			logging.ScenarioField(string(t.def.ID)),
			logging.ErrorField(err),
		)
		return
	}

	for _, id := range ids {
		if t.def.HasRule(id) {
			t.solved[id] = struct{}{}
		} else {
			t.logger.Debug("dropping unknown persisted rule",
				logging.ScenarioField(string(t.def.ID)),
				logging.StringField("edge_case_id", id),
			)
		}
	}
	t.completed = t.snapshotLocked().Complete
}

// Record applies one detection event. Only success events that
// name a rule of this scenario change state; re-solving a rule
// is a no-op.
func (t *Tracker) Record(
	ctx context.Context, e scenario.Event,
) Change {
	t.mu.Lock()
	if !e.Solves() || !t.def.HasRule(e.EdgeCaseID) {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return Change{Snapshot: snap}
	}
	if _, ok := t.solved[e.EdgeCaseID]; ok {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return Change{Snapshot: snap}
	}

	t.solved[e.EdgeCaseID] = struct{}{}
	t.persistLocked(ctx)

	change := Change{
		EdgeCaseID: e.EdgeCaseID,
		Added:      true,
		Snapshot:   t.snapshotLocked(),
	}
	if change.Snapshot.Complete && !t.completed {
		t.completed = true
		change.Completed = true
	}
	callbacks := t.callbacks
	t.mu.Unlock()

	if change.Completed {
		for _, fn := range callbacks {
			fn(change.Snapshot)
		}
	}
	return change
}

// RecordAll applies events in order and returns the changes
// that added a rule.
func (t *Tracker) RecordAll(
	ctx context.Context, events scenario.Events,
) []Change {
	var changes []Change
	for _, e := range events {
		if c := t.Record(ctx, e); c.Added {
			changes = append(changes, c)
		}
	}
	return changes
}

// Progress returns the current snapshot.
func (t *Tracker) Progress() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Reset clears the solved set and the persisted copy, and re-arms
// the completion transition.
func (t *Tracker) Reset(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.solved = make(map[string]struct{})
	t.completed = false
	if err := t.store.Delete(ctx, Key(t.def)); err != nil {
		t.logger.Warn("progress reset failed",
			logging.ScenarioField(string(t.def.ID)),
			logging.ErrorField(err),
		)
	}
}

func (t *Tracker) persistLocked(ctx context.Context) {
	data, err := json.Marshal(t.solvedLocked())
	if err != nil {
		t.logger.Warn("progress encode failed",
			logging.ScenarioField(string(t.def.ID)),
			logging.ErrorField(err),
		)
		return
	}
	if err := t.store.Save(ctx, Key(t.def), data); err != nil {
		t.logger.Warn("progress save failed",
			logging.ScenarioField(string(t.def.ID)),
			logging.ErrorField(err),
		)
	}
}

func (t *Tracker) solvedLocked() []string {
	ids := make([]string, 0, len(t.solved))
	for _, id := range t.def.RuleIDs() {
		if _, ok := t.solved[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (t *Tracker) snapshotLocked() Snapshot {
	solved := t.solvedLocked()
	total := len(t.def.Rules)
	pct := Percent(len(solved), total)
	return Snapshot{
		ScenarioID: t.def.ID,
		Solved:     solved,
		Total:      total,
		Percent:    pct,
		Complete:   pct == 100,
	}
}

// Percent returns round(100*solved/total), rounding halves up.
// A scenario without rules is at 0 percent.
func Percent(solved, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(solved)*100/float64(total) + 0.5))
}
