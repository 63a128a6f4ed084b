package runner

import (
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/metrics"
	"github.com/letsconfuse/manualQaLabs/pkg/monitor"
	"github.com/letsconfuse/manualQaLabs/pkg/progress"
	"github.com/letsconfuse/manualQaLabs/pkg/registry"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// RunnerOption configures a DefaultRunner.
type RunnerOption func(*DefaultRunner)

// WithRegistry sets the scenario registry used by the runner.
func WithRegistry(reg registry.Registry) RunnerOption {
	return func(r *DefaultRunner) {
		r.registry = reg
	}
}

// WithBook sets the progress book. Without one the runner keeps
// progress in memory.
func WithBook(book *progress.Book) RunnerOption {
	return func(r *DefaultRunner) {
		r.book = book
	}
}

// WithLogger sets the logger used by the runner.
func WithLogger(logger logging.Logger) RunnerOption {
	return func(r *DefaultRunner) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.LabMetrics) RunnerOption {
	return func(r *DefaultRunner) {
		r.metrics = m
	}
}

// WithCollector sets the monitor collector that receives lab
// events.
func WithCollector(c *monitor.EventCollector) RunnerOption {
	return func(r *DefaultRunner) {
		r.collector = c
	}
}

// WithClock sets the clock handed to every detector the runner
// creates.
func WithClock(clock scenario.Clock) RunnerOption {
	return func(r *DefaultRunner) {
		r.clock = clock
	}
}

// WithIdleTimeout sets how long a session may stay unused
// before the reaper removes it.
func WithIdleTimeout(d time.Duration) RunnerOption {
	return func(r *DefaultRunner) {
		r.idleTimeout = d
	}
}

// WithPreHook adds a hook run before each action.
func WithPreHook(h PreHook) RunnerOption {
	return func(r *DefaultRunner) {
		r.preHooks = append(r.preHooks, h)
	}
}

// WithPostHook adds a hook run after each action.
func WithPostHook(h PostHook) RunnerOption {
	return func(r *DefaultRunner) {
		r.postHooks = append(r.postHooks, h)
	}
}
