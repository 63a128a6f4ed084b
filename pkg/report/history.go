package report

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// HistoricalEntry records one newly solved rule.
type HistoricalEntry struct {
	Timestamp  time.Time   `json:"timestamp"`
	ScenarioID scenario.ID `json:"scenario_id"`
	EdgeCaseID string      `json:"edge_case_id"`
	SessionID  string      `json:"session_id,omitempty"`
	Solved     int         `json:"solved"`
	Total      int         `json:"total"`
	Percent    int         `json:"percent"`
	Completed  bool        `json:"completed"`
}

// AppendToHistory adds entries to the historical log stored at
// historyPath. Each entry is a single JSON line.
func AppendToHistory(
	historyPath string,
	entries ...HistoricalEntry,
) error {
	if len(entries) == 0 {
		return nil
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	for _, entry := range entries {
		data, err := jsonMarshal(entry)
		if err != nil {
			return fmt.Errorf(
				"failed to marshal history entry: %w", err,
			)
		}
		if _, err := fmt.Fprintln(file, string(data)); err != nil {
			return err
		}
	}
	return nil
}

// ReadHistory loads every entry from historyPath. A missing file
// yields an empty history.
func ReadHistory(historyPath string) ([]HistoricalEntry, error) {
	file, err := os.Open(historyPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	var entries []HistoricalEntry
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e HistoricalEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf(
				"history line %d: %w", line, err,
			)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

// EntriesFor converts an outcome into one entry per newly solved
// rule. Only the last entry carries the completion flag.
func EntriesFor(out *runner.Outcome, at time.Time) []HistoricalEntry {
	entries := make([]HistoricalEntry, 0, len(out.Solved))
	for i, id := range out.Solved {
		entries = append(entries, HistoricalEntry{
			Timestamp:  at,
			ScenarioID: out.ScenarioID,
			EdgeCaseID: id,
			SessionID:  out.SessionID,
			Solved:     len(out.Progress.Solved),
			Total:      out.Progress.Total,
			Percent:    out.Progress.Percent,
			Completed:  out.Completed && i == len(out.Solved)-1,
		})
	}
	return entries
}

// HistoryRecorder appends solve history from runner outcomes.
type HistoryRecorder struct {
	mu     sync.Mutex
	path   string
	logger logging.Logger
}

// NewHistoryRecorder creates a recorder writing to path.
func NewHistoryRecorder(
	path string,
	logger logging.Logger,
) *HistoryRecorder {
	if logger == nil {
		logger = logging.NullLogger{}
	}
	return &HistoryRecorder{path: path, logger: logger}
}

// Path returns the history file path.
func (h *HistoryRecorder) Path() string { return h.path }

// Record appends the entries for one outcome.
func (h *HistoryRecorder) Record(out *runner.Outcome) error {
	entries := EntriesFor(out, time.Now())
	if len(entries) == 0 {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return AppendToHistory(h.path, entries...)
}

// Hook returns a runner post hook that records every outcome.
// Write failures are logged and never fail the action.
func (h *HistoryRecorder) Hook() runner.PostHook {
	return func(
		_ context.Context,
		_ runner.SessionInfo,
		out *runner.Outcome,
	) {
		if err := h.Record(out); err != nil {
			h.logger.Warn("history append failed",
				logging.ScenarioField(string(out.ScenarioID)),
				logging.ErrorField(err),
			)
		}
	}
}
