package assertion

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/letsconfuse/manualQaLabs/pkg/progress"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// evaluateFires checks that a solving event for the edge case
// named by Value was emitted.
func evaluateFires(
	assertion Definition,
	value any,
) (bool, string) {
	events, ok := toEvents(value)
	if !ok {
		return false, fmt.Sprintf(
			"expected events, got %T", value,
		)
	}

	id := fmt.Sprint(assertion.Value)
	if assertion.Value == nil || id == "" {
		return false, "fires requires an edge case id"
	}

	if events.Has(id) {
		return true, fmt.Sprintf("edge case %q fired", id)
	}
	return false, fmt.Sprintf(
		"edge case %q did not fire (solved: %v)",
		id, events.SolvedIDs(),
	)
}

// evaluateNotFires checks that the edge case named by Value did
// not fire. Without a Value no edge case may fire.
func evaluateNotFires(
	assertion Definition,
	value any,
) (bool, string) {
	events, ok := toEvents(value)
	if !ok {
		return false, fmt.Sprintf(
			"expected events, got %T", value,
		)
	}

	if assertion.Value == nil {
		solved := events.SolvedIDs()
		if len(solved) == 0 {
			return true, "no edge case fired"
		}
		return false, fmt.Sprintf(
			"unexpected edge cases fired: %v", solved,
		)
	}

	id := fmt.Sprint(assertion.Value)
	if events.Has(id) {
		return false, fmt.Sprintf(
			"edge case %q fired unexpectedly", id,
		)
	}
	return true, fmt.Sprintf("edge case %q did not fire", id)
}

// evaluateFiresOnly checks that the set of fired edge cases is
// exactly Values. Order and repetition are ignored.
func evaluateFiresOnly(
	assertion Definition,
	value any,
) (bool, string) {
	events, ok := toEvents(value)
	if !ok {
		return false, fmt.Sprintf(
			"expected events, got %T", value,
		)
	}

	want := uniqueSorted(stringsOf(assertion.Values))
	got := uniqueSorted(events.SolvedIDs())

	if strings.Join(want, ",") == strings.Join(got, ",") {
		return true, fmt.Sprintf(
			"fired exactly %v", got,
		)
	}
	return false, fmt.Sprintf(
		"expected exactly %v to fire, got %v", want, got,
	)
}

// evaluateMinCount checks that at least Value events were
// emitted, optionally restricted to Kind.
func evaluateMinCount(
	assertion Definition,
	value any,
) (bool, string) {
	count, want, err := countEvents(assertion, value)
	if err != "" {
		return false, err
	}
	if count >= want {
		return true, fmt.Sprintf(
			"%d %s >= %d", count, countLabel(assertion), want,
		)
	}
	return false, fmt.Sprintf(
		"%d %s < %d", count, countLabel(assertion), want,
	)
}

// evaluateExactCount checks that exactly Value events were
// emitted, optionally restricted to Kind.
func evaluateExactCount(
	assertion Definition,
	value any,
) (bool, string) {
	count, want, err := countEvents(assertion, value)
	if err != "" {
		return false, err
	}
	if count == want {
		return true, fmt.Sprintf(
			"%d %s == %d", count, countLabel(assertion), want,
		)
	}
	return false, fmt.Sprintf(
		"%d %s != %d", count, countLabel(assertion), want,
	)
}

// evaluateMessageContains checks that some event message
// contains Value, ignoring case.
func evaluateMessageContains(
	assertion Definition,
	value any,
) (bool, string) {
	events, ok := toEvents(value)
	if !ok {
		return false, fmt.Sprintf(
			"expected events, got %T", value,
		)
	}

	needle := strings.ToLower(fmt.Sprint(assertion.Value))
	if assertion.Value == nil || needle == "" {
		return false, "message_contains requires a value"
	}

	for _, e := range events {
		if assertion.Kind != "" &&
			string(e.Kind) != assertion.Kind {
			continue
		}
		if strings.Contains(strings.ToLower(e.Message), needle) {
			return true, fmt.Sprintf(
				"message contains %q", assertion.Value,
			)
		}
	}
	return false, fmt.Sprintf(
		"no message contains %q", assertion.Value,
	)
}

// evaluateMinPercent checks the scenario progress percentage.
func evaluateMinPercent(
	assertion Definition,
	value any,
) (bool, string) {
	snap, ok := toSnapshot(value)
	if !ok {
		return false, fmt.Sprintf(
			"expected progress snapshot, got %T", value,
		)
	}

	want, ok := toFloat64(assertion.Value)
	if !ok {
		return false, fmt.Sprintf(
			"invalid percent: %v", assertion.Value,
		)
	}

	if float64(snap.Percent) >= want {
		return true, fmt.Sprintf(
			"progress %d%% >= %.0f%%", snap.Percent, want,
		)
	}
	return false, fmt.Sprintf(
		"progress %d%% < %.0f%%", snap.Percent, want,
	)
}

// evaluateComplete checks that every rule of the scenario is
// solved. A Value of false inverts the check.
func evaluateComplete(
	assertion Definition,
	value any,
) (bool, string) {
	snap, ok := toSnapshot(value)
	if !ok {
		return false, fmt.Sprintf(
			"expected progress snapshot, got %T", value,
		)
	}

	want := true
	if assertion.Value != nil {
		b, ok := toBool(assertion.Value)
		if !ok {
			return false, fmt.Sprintf(
				"invalid boolean: %v", assertion.Value,
			)
		}
		want = b
	}

	if snap.Complete == want {
		return true, fmt.Sprintf(
			"complete is %t (%d/%d)",
			snap.Complete, len(snap.Solved), snap.Total,
		)
	}
	return false, fmt.Sprintf(
		"expected complete %t, got %t (%d/%d)",
		want, snap.Complete, len(snap.Solved), snap.Total,
	)
}

// evaluateSolved checks that the rule named by Value is in the
// cumulative solved set.
func evaluateSolved(
	assertion Definition,
	value any,
) (bool, string) {
	snap, ok := toSnapshot(value)
	if !ok {
		return false, fmt.Sprintf(
			"expected progress snapshot, got %T", value,
		)
	}

	id := fmt.Sprint(assertion.Value)
	if assertion.Value == nil || id == "" {
		return false, "solved requires an edge case id"
	}
	if snap.IsSolved(id) {
		return true, fmt.Sprintf("rule %q is solved", id)
	}
	return false, fmt.Sprintf("rule %q is not solved", id)
}

func countEvents(
	assertion Definition,
	value any,
) (count, want int, failure string) {
	events, ok := toEvents(value)
	if !ok {
		return 0, 0, fmt.Sprintf(
			"expected events, got %T", value,
		)
	}

	want, ok = toInt(assertion.Value)
	if !ok {
		return 0, 0, fmt.Sprintf(
			"invalid count: %v", assertion.Value,
		)
	}

	if assertion.Kind == "" {
		return len(events), want, ""
	}
	return events.Count(scenario.Kind(assertion.Kind)), want, ""
}

func countLabel(assertion Definition) string {
	if assertion.Kind == "" {
		return "events"
	}
	return assertion.Kind + " events"
}

func stringsOf(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// toEvents accepts scenario.Events or a plain event slice.
func toEvents(v any) (scenario.Events, bool) {
	switch e := v.(type) {
	case scenario.Events:
		return e, true
	case []scenario.Event:
		return scenario.Events(e), true
	}
	return nil, false
}

// toSnapshot accepts a progress.Snapshot by value or pointer.
func toSnapshot(v any) (progress.Snapshot, bool) {
	switch s := v.(type) {
	case progress.Snapshot:
		return s, true
	case *progress.Snapshot:
		if s != nil {
			return *s, true
		}
	}
	return progress.Snapshot{}, false
}

// toInt converts an any value to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case int64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// toFloat64 converts an any value to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// toBool converts an any value to bool.
func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	}
	return false, false
}
