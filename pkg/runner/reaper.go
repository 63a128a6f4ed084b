package runner

import (
	"context"
	"sync"
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/logging"
)

// Reap removes sessions idle since before now minus the idle
// timeout and returns how many were removed. A non-positive
// timeout disables reaping.
func (r *DefaultRunner) Reap(now time.Time) int {
	if r.idleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idleTimeout)

	r.mu.Lock()
	var stale []*session
	for id, s := range r.sessions {
		if s.snapshot().LastSeen.Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	count := len(r.sessions)
	r.mu.Unlock()

	for _, s := range stale {
		r.closed(s, count, "session reaped")
	}
	return len(stale)
}

// StartReaper launches a goroutine that reaps idle sessions
// every interval until ctx is cancelled or the returned stop
// function is called. Stop waits for the goroutine to exit.
//
// If interval is zero or negative, StartReaper returns a
// no-op stop function.
func (r *DefaultRunner) StartReaper(
	ctx context.Context, interval time.Duration,
) (stop func()) {
	if interval <= 0 {
		return func() {}
	}

	stopCh := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case now := <-ticker.C:
				if n := r.Reap(now); n > 0 {
					r.logger.Debug("reaped idle sessions",
						logging.IntField("count", n),
					)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopCh) })
		<-done
	}
}
