// Package runner owns live scenario sessions. It routes actions
// to detectors, records the resulting events in the progress
// book, and reports them to the logger, metrics and monitor.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/metrics"
	"github.com/letsconfuse/manualQaLabs/pkg/monitor"
	"github.com/letsconfuse/manualQaLabs/pkg/progress"
	"github.com/letsconfuse/manualQaLabs/pkg/registry"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// ErrSessionNotFound is returned for unknown or reaped sessions.
var ErrSessionNotFound = errors.New("session not found")

// DefaultIdleTimeout is the idle time after which sessions are
// reaped.
const DefaultIdleTimeout = 30 * time.Minute

// Runner defines the interface for driving scenarios.
type Runner interface {
	// Open starts a session with a fresh detector.
	Open(ctx context.Context, id scenario.ID) (SessionInfo, error)

	// Submit runs one action in a session.
	Submit(
		ctx context.Context,
		sessionID string,
		a scenario.Action,
	) (*Outcome, error)

	// Evaluate runs one action against a throwaway detector.
	Evaluate(
		ctx context.Context,
		id scenario.ID,
		a scenario.Action,
	) (*Outcome, error)

	// Close ends a session.
	Close(ctx context.Context, sessionID string) error

	// Progress returns a scenario's progress.
	Progress(
		ctx context.Context, id scenario.ID,
	) (progress.Snapshot, error)

	// Reset clears a scenario's progress.
	Reset(ctx context.Context, id scenario.ID) error
}

// SessionInfo describes a live session.
type SessionInfo struct {
	ID         string      `json:"id"`
	ScenarioID scenario.ID `json:"scenario_id"`
	Created    time.Time   `json:"created"`
	LastSeen   time.Time   `json:"last_seen"`
	Actions    int         `json:"actions"`
}

// Outcome is the result of one action.
type Outcome struct {
	SessionID  string            `json:"session_id,omitempty"`
	ScenarioID scenario.ID       `json:"scenario_id"`
	Action     string            `json:"action"`
	Events     scenario.Events   `json:"events"`
	Solved     []string          `json:"solved,omitempty"`
	Completed  bool              `json:"completed"`
	Progress   progress.Snapshot `json:"progress"`
}

// PreHook runs before an action reaches the detector. A non-nil
// error rejects the action.
type PreHook func(
	ctx context.Context,
	info SessionInfo,
	a scenario.Action,
) error

// PostHook runs after an action has been recorded.
type PostHook func(
	ctx context.Context,
	info SessionInfo,
	out *Outcome,
)

type session struct {
	mu       sync.Mutex
	info     SessionInfo
	detector scenario.Detector
}

func (s *session) snapshot() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// DefaultRunner is the standard Runner implementation. It is
// safe for concurrent use; actions within one session are
// serialized.
type DefaultRunner struct {
	mu          sync.RWMutex
	sessions    map[string]*session
	registry    registry.Registry
	book        *progress.Book
	logger      logging.Logger
	metrics     metrics.LabMetrics
	collector   *monitor.EventCollector
	clock       scenario.Clock
	idleTimeout time.Duration
	preHooks    []PreHook
	postHooks   []PostHook
}

// NewRunner creates a DefaultRunner with the supplied options.
// It defaults to the builtin catalog, in-memory progress and no
// logging or metrics.
func NewRunner(opts ...RunnerOption) *DefaultRunner {
	r := &DefaultRunner{
		sessions:    make(map[string]*session),
		logger:      logging.NullLogger{},
		metrics:     metrics.NoopMetrics{},
		clock:       scenario.SystemClock,
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = registry.Builtin()
	}
	if r.book == nil {
		r.book = progress.NewBook(r.registry, nil,
			progress.WithLogger(r.logger),
		)
	}
	return r
}

// Registry returns the runner's registry.
func (r *DefaultRunner) Registry() registry.Registry { return r.registry }

// Book returns the runner's progress book.
func (r *DefaultRunner) Book() *progress.Book { return r.book }

// Open starts a session with a fresh detector.
func (r *DefaultRunner) Open(
	ctx context.Context, id scenario.ID,
) (SessionInfo, error) {
	det, err := r.registry.NewDetector(id, r.clock)
	if err != nil {
		return SessionInfo{}, fmt.Errorf(
			"failed to open session: %w", err,
		)
	}
	if _, err := r.book.Tracker(ctx, id); err != nil {
		return SessionInfo{}, fmt.Errorf(
			"failed to open session: %w", err,
		)
	}

	now := time.Now()
	s := &session{
		detector: det,
		info: SessionInfo{
			ID:         uuid.NewString(),
			ScenarioID: id,
			Created:    now,
			LastSeen:   now,
		},
	}

	r.mu.Lock()
	r.sessions[s.info.ID] = s
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActiveSessions(count)
	r.emit(monitor.LabEvent{
		Type:       monitor.EventSessionOpened,
		ScenarioID: id,
		SessionID:  s.info.ID,
	})
	r.logger.Info("session opened",
		logging.ScenarioField(string(id)),
		logging.SessionField(s.info.ID),
	)
	return s.info, nil
}

// Submit runs one action in a session.
func (r *DefaultRunner) Submit(
	ctx context.Context,
	sessionID string,
	a scenario.Action,
) (*Outcome, error) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.info.LastSeen = time.Now()
	for _, hook := range r.preHooks {
		if err := hook(ctx, s.info, a); err != nil {
			return nil, fmt.Errorf("pre-hook rejected action: %w", err)
		}
	}

	out, err := r.handle(ctx, s.detector, s.info.ID, a)
	if err != nil {
		return nil, err
	}
	s.info.Actions++

	for _, hook := range r.postHooks {
		hook(ctx, s.info, out)
	}
	return out, nil
}

// Evaluate runs one action against a throwaway detector. The
// events still count towards progress.
func (r *DefaultRunner) Evaluate(
	ctx context.Context,
	id scenario.ID,
	a scenario.Action,
) (*Outcome, error) {
	det, err := r.registry.NewDetector(id, r.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate: %w", err)
	}
	info := SessionInfo{ScenarioID: id}
	for _, hook := range r.preHooks {
		if err := hook(ctx, info, a); err != nil {
			return nil, fmt.Errorf("pre-hook rejected action: %w", err)
		}
	}
	out, err := r.handle(ctx, det, "", a)
	if err != nil {
		return nil, err
	}
	for _, hook := range r.postHooks {
		hook(ctx, info, out)
	}
	return out, nil
}

func (r *DefaultRunner) handle(
	ctx context.Context,
	det scenario.Detector,
	sessionID string,
	a scenario.Action,
) (*Outcome, error) {
	id := det.Definition().ID
	tracker, err := r.book.Tracker(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}

	start := time.Now()
	events := det.Handle(a)
	r.metrics.RecordAction(string(id), a.Name, time.Since(start))

	out := &Outcome{
		SessionID:  sessionID,
		ScenarioID: id,
		Action:     a.Name,
		Events:     events,
	}
	for _, e := range events {
		r.logger.LogDetection(logging.DetectionLog{
			Timestamp:  e.Timestamp.Format(time.RFC3339Nano),
			ScenarioID: string(id),
			SessionID:  sessionID,
			Action:     a.Name,
			Kind:       string(e.Kind),
			EdgeCaseID: e.EdgeCaseID,
			Message:    e.Message,
		})
		r.metrics.RecordDetection(string(id), string(e.Kind))
		if r.collector != nil {
			r.collector.EmitDetection(id, sessionID, a.Name, e)
		}

		change := tracker.Record(ctx, e)
		if change.Added {
			out.Solved = append(out.Solved, change.EdgeCaseID)
			r.metrics.RecordSolve(string(id), change.EdgeCaseID)
			if r.collector != nil {
				r.collector.EmitSolved(id, sessionID, change.EdgeCaseID, change.Snapshot.Percent)
			}
		}
		if change.Completed {
			out.Completed = true
			r.metrics.RecordCompletion(string(id))
			if r.collector != nil {
				r.collector.EmitCompleted(id, sessionID)
			}
			r.logger.Info("scenario complete",
				logging.ScenarioField(string(id)),
				logging.SessionField(sessionID),
			)
		}
	}
	out.Progress = tracker.Progress()
	return out, nil
}

// Close ends a session.
func (r *DefaultRunner) Close(
	_ context.Context, sessionID string,
) error {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	count := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	r.closed(s, count, "session closed")
	return nil
}

func (r *DefaultRunner) closed(s *session, count int, msg string) {
	info := s.snapshot()
	r.metrics.SetActiveSessions(count)
	r.emit(monitor.LabEvent{
		Type:       monitor.EventSessionClosed,
		ScenarioID: info.ScenarioID,
		SessionID:  info.ID,
	})
	r.logger.Info(msg,
		logging.ScenarioField(string(info.ScenarioID)),
		logging.SessionField(info.ID),
		logging.IntField("actions", info.Actions),
	)
}

// Session returns a live session's info.
func (r *DefaultRunner) Session(sessionID string) (SessionInfo, error) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return SessionInfo{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return s.snapshot(), nil
}

// Sessions returns all live sessions, oldest first.
func (r *DefaultRunner) Sessions() []SessionInfo {
	r.mu.RLock()
	list := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.RUnlock()

	out := make([]SessionInfo, 0, len(list))
	for _, s := range list {
		out = append(out, s.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out
}

// Progress returns a scenario's progress.
func (r *DefaultRunner) Progress(
	ctx context.Context, id scenario.ID,
) (progress.Snapshot, error) {
	return r.book.Progress(ctx, id)
}

// Reset clears a scenario's progress.
func (r *DefaultRunner) Reset(
	ctx context.Context, id scenario.ID,
) error {
	if err := r.book.Reset(ctx, id); err != nil {
		return err
	}
	r.emit(monitor.LabEvent{
		Type:       monitor.EventReset,
		ScenarioID: id,
	})
	r.logger.Info("progress reset", logging.ScenarioField(string(id)))
	return nil
}

func (r *DefaultRunner) emit(e monitor.LabEvent) {
	if r.collector != nil {
		r.collector.Emit(e)
	}
}
