package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newBooker(now time.Time) *Booker {
	return New(scenario.FixedClock(now))
}

func TestBooker_Book(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
		want []string
	}{
		{"plain stay", "2026-04-01", "2026-04-05", nil},
		{"reverse", "2026-04-05", "2026-04-01", []string{Reverse}},
		{"past", "2026-03-01", "2026-03-05", []string{Past}},
		{"same day", "2026-04-01", "2026-04-01", []string{SameDay}},
		{"leap year", "2027-02-29", "2027-03-05", []string{LeapYear}},
		{"duration", "2026-04-01", "2027-09-01", []string{DurationLimit, BlackoutOverlap}},
		{"invalid day rolls over", "2026-04-31", "2026-05-02", []string{InvalidDays}},
		{"eu order", "25/12/2026", "26/12/2026", []string{FormatLocale}},
		{"us order", "04/01/2026", "04/03/2026", nil},
		{"negative nights", "04-01-2026", "04-02-2026", []string{NegativeNights}},
		{"blackout", "2026-12-20", "2026-12-24", []string{BlackoutOverlap}},
		{"after blackout", "2026-12-27", "2026-12-28", nil},
		{"injection", "2026-04-01<script>", "2026-04-02", []string{Injection}},
		{"sql comment", "2026-04-01", "2026-04-02--", []string{Injection}},
		{"literal escape", `2026-04-01\0`, "2026-04-02", []string{Injection}},
		{"null byte", "2026-04-01\x00", "2026-04-02", []string{NullByte}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es := newBooker(noon).Book(tt.in, tt.out)
			assert.Equal(t, tt.want, es.SolvedIDs())
			assert.Zero(t, es.Count(scenario.KindError))
		})
	}
}

func TestBooker_Book_SecurityIsTerminal(t *testing.T) {
	es := newBooker(noon).Book("2026-01-32\x00", "x")
	require.Len(t, es, 1)
	assert.Equal(t, NullByte, es[0].EdgeCaseID)
}

func TestBooker_Book_ImpossibleDayThenParseError(t *testing.T) {
	es := newBooker(noon).Book("2026-01-32", "2026-02-01")
	require.Len(t, es, 2)
	assert.Equal(t, InvalidDays, es[0].EdgeCaseID)
	assert.Equal(t, scenario.KindError, es[1].Kind)
}

func TestBooker_Book_Unparsable(t *testing.T) {
	es := newBooker(noon).Book("next tuesday", "2026-04-02")
	require.Len(t, es, 1)
	assert.Equal(t, scenario.KindError, es[0].Kind)
}

func TestBooker_Book_Midnight(t *testing.T) {
	late := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	es := newBooker(late).Book("2026-03-10", "2026-03-12")
	assert.Equal(t, []string{Midnight}, es.SolvedIDs())

	es = newBooker(noon).Book("2026-03-10", "2026-03-12")
	assert.Empty(t, es.SolvedIDs())
}

func TestBooker_Book_CoFiring(t *testing.T) {
	es := newBooker(noon).Book("2026-03-05", "2026-03-01")
	assert.Equal(t, []string{Reverse, Past}, es.SolvedIDs())
}

func TestBooker_Book_Empty(t *testing.T) {
	for _, pair := range [][2]string{{"", "2026-04-01"}, {"2026-04-01", "  "}} {
		es := newBooker(noon).Book(pair[0], pair[1])
		require.Len(t, es, 1)
		assert.Equal(t, scenario.KindError, es[0].Kind)
	}
}

func TestBooker_Book_StayInfo(t *testing.T) {
	b := newBooker(noon)
	es := b.Book("2026-04-01", "2026-04-05")
	require.Len(t, es, 1)
	assert.Equal(t, "Stay duration calculated: 4 nights.", es[0].Message)
	require.NotNil(t, b.Last())
	assert.Equal(t, 4, b.Last().Nights)
}

func TestStayDays_DaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	in := time.Date(2026, 3, 7, 0, 0, 0, 0, loc)
	out := time.Date(2026, 3, 9, 0, 0, 0, 0, loc)
	assert.Equal(t, 2, stayDays(in, out))
}

func TestParseDate_Rollover(t *testing.T) {
	d, ok := parseDate("2026-02-29", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 1, d.Day())

	_, ok = parseDate("2026-13-01", time.UTC)
	assert.False(t, ok)
}

func TestBooker_Handle(t *testing.T) {
	b := newBooker(noon)
	es := b.Handle(scenario.NewAction(
		"book", "check_in", "2026-04-05", "check_out", "2026-04-01",
	))
	assert.True(t, es.Has(Reverse))
	assert.Equal(t, 1, b.Handle(scenario.NewAction("cancel")).Count(scenario.KindError))
}
