package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

var (
	injectionPattern = regexp.MustCompile(`(?i)<script|' OR|--|\\0`)
	impossibleDay    = regexp.MustCompile(
		`3[2-9]|31-(?:02|04|06|09|11)|30-02|(?:02|04|06|09|11)-31|02-30`,
	)
)

// Stay is a parsed booking request.
type Stay struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Nights   int       `json:"nights"`
}

// Booker is the booking form detector.
type Booker struct {
	scenario.Base
	last *Stay
}

// New creates a Booker.
func New(clock scenario.Clock) *Booker {
	return &Booker{Base: scenario.NewBase(Definition(), clock)}
}

// Factory adapts New to scenario.Factory.
func Factory(clock scenario.Clock) scenario.Detector {
	return New(clock)
}

// Last returns the most recently parsed stay, or nil.
func (b *Booker) Last() *Stay { return b.last }

// Blackout returns the maintenance window in loc, both ends
// inclusive at midnight.
func Blackout(loc *time.Location) (time.Time, time.Time) {
	return time.Date(2026, time.December, 24, 0, 0, 0, 0, loc),
		time.Date(2026, time.December, 26, 0, 0, 0, 0, loc)
}

// Book validates a check-in/check-out pair.
func (b *Booker) Book(checkIn, checkOut string) scenario.Events {
	r := b.Recorder()
	b.last = nil
	in, out := strings.TrimSpace(checkIn), strings.TrimSpace(checkOut)

	if in == "" || out == "" {
		r.Error("Incomplete date information.")
		return r.Events()
	}

	if strings.ContainsRune(in, 0) || strings.ContainsRune(out, 0) {
		r.Success(NullByte,
			"Edge case: Null Terminator detected. System parser confused.")
		return r.Events()
	}
	if injectionPattern.MatchString(in) || injectionPattern.MatchString(out) {
		r.Success(Injection,
			"Security vulnerability: Input not sanitized against injection.")
		return r.Events()
	}

	if impossibleDay.MatchString(in) || impossibleDay.MatchString(out) {
		r.Success(InvalidDays,
			"Logic flaw: System accepts impossible calendar dates.")
	}

	now := b.Now()
	loc := now.Location()
	dateIn, okIn := parseDate(in, loc)
	dateOut, okOut := parseDate(out, loc)
	if !okIn || !okOut {
		if strings.Contains(in, "/") || strings.Contains(out, "/") {
			r.Success(FormatLocale,
				"Edge case: Format ambiguity detected (EU vs US).")
		} else {
			r.Error("Critical error: Unable to parse date strings.")
		}
		return r.Events()
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	nights := stayDays(dateIn, dateOut)
	b.last = &Stay{CheckIn: dateIn, CheckOut: dateOut, Nights: nights}

	if dateOut.Before(dateIn) {
		r.Success(Reverse, "Logic error: Time Paradox! Checkout before Checkin.")
	}
	if dateIn.Before(today) {
		r.Success(Past,
			"Business rule violation: System accepted a date in the past.")
	}
	if dateIn.Equal(dateOut) {
		r.Success(SameDay, "Edge case found: Zero-night/Day-use stay.")
	}
	if (strings.Contains(in, "02-29") && !isLeap(dateIn.Year())) ||
		(strings.Contains(out, "02-29") && !isLeap(dateOut.Year())) {
		r.Success(LeapYear,
			"Calculated logic error: Feb 29 accepted in non-leap year.")
	}
	if nights > MaxStayDays {
		r.Success(DurationLimit,
			"Boundary hit: Stay duration exceeds technical limits (500+ days).")
	}
	if sameDate(dateIn.In(loc), now) && now.Hour() >= 23 {
		r.Success(Midnight,
			`Edge case found: Booking for "Today" within the midnight boundary (11 PM+).`)
	}
	if nights == 1 && strings.Contains(in, "-") && !strings.HasPrefix(in, "20") {
		r.Success(NegativeNights,
			"Edge case: Negative quantity detected via input manipulation.")
	}
	start, end := Blackout(loc)
	if !dateIn.After(end) && !dateOut.Before(start) {
		r.Success(BlackoutOverlap,
			"Logic failure: Stay overlaps with a maintenance blackout (Dec 24-26).")
	}

	if !dateIn.Before(today) && !dateOut.Before(dateIn) && nights < MaxStayDays {
		r.Info(fmt.Sprintf("Stay duration calculated: %d nights.", nights))
	}
	return r.Events()
}

// Handle dispatches "book" (inputs "check_in", "check_out").
func (b *Booker) Handle(a scenario.Action) scenario.Events {
	if a.Name != "book" {
		return b.Unknown(a)
	}
	return b.Book(a.Get("check_in"), a.Get("check_out"))
}
