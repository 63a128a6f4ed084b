package walkthrough

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/assertion"
	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/metrics"
	"github.com/letsconfuse/manualQaLabs/pkg/progress"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// Status constants for steps and whole walkthroughs.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
	StatusError  = "error"
)

// ErrNoClock is returned when a script pins time but the player
// has no clock.
var ErrNoClock = errors.New("walkthrough sets the clock but no clock is configured")

// StepResult is the outcome of one step.
type StepResult struct {
	Index      int                `json:"index"`
	Name       string             `json:"name,omitempty"`
	ScenarioID scenario.ID        `json:"scenario_id"`
	Action     string             `json:"action"`
	Status     string             `json:"status"`
	Events     scenario.Events    `json:"events,omitempty"`
	Assertions []assertion.Result `json:"assertions,omitempty"`
	Progress   progress.Snapshot  `json:"progress"`
	Error      string             `json:"error,omitempty"`
}

// Result is the outcome of a whole walkthrough.
type Result struct {
	Script    string                            `json:"script"`
	Status    string                            `json:"status"`
	StartTime time.Time                         `json:"start_time"`
	EndTime   time.Time                         `json:"end_time"`
	Duration  time.Duration                     `json:"duration"`
	Steps     []StepResult                      `json:"steps"`
	Failed    int                               `json:"failed"`
	Progress  map[scenario.ID]progress.Snapshot `json:"progress"`
}

// AllPassed returns true if every step passed.
func (r *Result) AllPassed() bool {
	for _, s := range r.Steps {
		if s.Status != StatusPassed {
			return false
		}
	}
	return true
}

// Option configures a Player.
type Option func(*Player)

// WithEngine sets the assertion engine.
func WithEngine(e assertion.Engine) Option {
	return func(p *Player) {
		if e != nil {
			p.engine = e
		}
	}
}

// WithClock sets the clock that script times are applied to. It
// must be the clock the runner was built with.
func WithClock(c *Clock) Option {
	return func(p *Player) {
		p.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the metrics sink for assertion outcomes.
func WithMetrics(m metrics.LabMetrics) Option {
	return func(p *Player) {
		if m != nil {
			p.metrics = m
		}
	}
}

// Player replays scripts through a runner. A Player is safe for
// sequential reuse; scripts sharing a clock must not run
// concurrently.
type Player struct {
	runner  runner.Runner
	engine  assertion.Engine
	clock   *Clock
	logger  logging.Logger
	metrics metrics.LabMetrics
}

// NewPlayer creates a Player over r.
func NewPlayer(r runner.Runner, opts ...Option) *Player {
	p := &Player{
		runner:  r,
		engine:  assertion.NewEngine(),
		logger:  logging.NullLogger{},
		metrics: metrics.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every step of s. Step failures are reported in
// the result; the returned error is reserved for invalid scripts,
// progress resets and cancellation.
func (p *Player) Run(ctx context.Context, s *Script) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil script", ErrInvalidScript)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if p.clock == nil && usesClock(s) {
		return nil, ErrNoClock
	}

	log := p.logger.WithFields(logging.StringField("walkthrough", s.Name))
	if s.ResetProgress {
		for _, id := range s.Scenarios() {
			if err := p.runner.Reset(ctx, id); err != nil {
				return nil, fmt.Errorf("reset %s: %w", id, err)
			}
		}
	}
	if s.Now != "" {
		t, _ := ParseTime(s.Now)
		p.clock.Set(t)
	}

	res := &Result{
		Script:    s.Name,
		StartTime: time.Now(),
		Steps:     make([]StepResult, 0, len(s.Steps)),
		Progress:  make(map[scenario.ID]progress.Snapshot),
	}

	sessions := make(map[scenario.ID]string)
	defer func() {
		for _, sid := range sessions {
			_ = p.runner.Close(context.WithoutCancel(ctx), sid)
		}
	}()

	var runErr error
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		sr := p.runStep(ctx, s, i, step, sessions)
		if sr.Status != StatusPassed {
			res.Failed++
			log.Warn("walkthrough step failed",
				logging.IntField("step", sr.Index),
				logging.ScenarioField(string(sr.ScenarioID)),
				logging.StringField("action", sr.Action),
				logging.StringField("status", sr.Status),
				logging.StringField("reason", failureReason(sr)),
			)
		} else {
			log.Debug("walkthrough step passed",
				logging.IntField("step", sr.Index),
				logging.ScenarioField(string(sr.ScenarioID)),
				logging.StringField("action", sr.Action),
			)
		}
		res.Steps = append(res.Steps, sr)
	}

	for _, id := range s.Scenarios() {
		snap, err := p.runner.Progress(context.WithoutCancel(ctx), id)
		if err == nil {
			res.Progress[id] = snap
		}
	}

	res.EndTime = time.Now()
	res.Duration = res.EndTime.Sub(res.StartTime)
	res.Status = StatusPassed
	if res.Failed > 0 || runErr != nil {
		res.Status = StatusFailed
	}

	log.Info("walkthrough finished",
		logging.StringField("status", res.Status),
		logging.IntField("steps", len(res.Steps)),
		logging.IntField("failed", res.Failed),
		logging.LogField("duration", res.Duration.String()),
	)
	return res, runErr
}

// RunAll runs scripts in order and stops at the first returned
// error.
func (p *Player) RunAll(
	ctx context.Context, scripts []*Script,
) ([]*Result, error) {
	results := make([]*Result, 0, len(scripts))
	for _, s := range scripts {
		res, err := p.Run(ctx, s)
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (p *Player) runStep(
	ctx context.Context,
	s *Script,
	i int,
	step Step,
	sessions map[scenario.ID]string,
) StepResult {
	id := s.ScenarioFor(step)
	sr := StepResult{
		Index:      i + 1,
		Name:       step.Name,
		ScenarioID: id,
		Action:     step.Action,
	}

	if step.Now != "" {
		t, _ := ParseTime(step.Now)
		p.clock.Set(t)
	}

	if sid, ok := sessions[id]; ok && step.Fresh {
		_ = p.runner.Close(ctx, sid)
		delete(sessions, id)
	}

	sid, ok := sessions[id]
	if !ok {
		info, err := p.runner.Open(ctx, id)
		if err != nil {
			sr.Status = StatusError
			sr.Error = err.Error()
			return sr
		}
		sid = info.ID
		sessions[id] = sid
	}

	out, err := p.runner.Submit(ctx, sid, scenario.Action{
		Name:  step.Action,
		Input: step.Input,
	})
	if err != nil {
		sr.Status = StatusError
		sr.Error = err.Error()
		return sr
	}
	sr.Events = out.Events
	sr.Progress = out.Progress

	sr.Assertions = p.engine.EvaluateAll(step.Expect, map[string]any{
		assertion.TargetEvents:   out.Events,
		assertion.TargetProgress: out.Progress,
	})
	for _, r := range sr.Assertions {
		p.metrics.RecordAssertion(string(id), r.Type, r.Passed)
	}

	sr.Status = StatusPassed
	if !assertion.AllPass(sr.Assertions).Passed {
		sr.Status = StatusFailed
	}
	return sr
}

func usesClock(s *Script) bool {
	if s.Now != "" {
		return true
	}
	for _, step := range s.Steps {
		if step.Now != "" {
			return true
		}
	}
	return false
}

func failureReason(sr StepResult) string {
	if sr.Error != "" {
		return sr.Error
	}
	return assertion.AllPass(sr.Assertions).Message
}
