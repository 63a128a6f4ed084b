// Package booking implements the hotel booking scenario: two free
// text date fields checked against calendar, time-of-day and
// blackout constraints.
package booking

import "github.com/letsconfuse/manualQaLabs/pkg/scenario"

// ID is the scenario identifier.
const ID scenario.ID = "booking-architect"

// Edge case identifiers.
const (
	Reverse         = "reverse"
	Past            = "past"
	SameDay         = "same-day"
	LeapYear        = "leap-year"
	FormatLocale    = "format-locale"
	DurationLimit   = "duration-limit"
	InvalidDays     = "invalid-days"
	Injection       = "injection"
	Midnight        = "midnight"
	NegativeNights  = "negative-nights"
	NullByte        = "null-byte"
	BlackoutOverlap = "blackout-overlap"
)

// MaxStayDays is the longest stay before the duration edge case
// fires.
const MaxStayDays = 500

// Definition returns a fresh copy of the scenario definition.
func Definition() *scenario.Definition {
	return &scenario.Definition{
		ID:    ID,
		Title: "The Booking Architect",
		Description: "Expert Level: A complex date-management system. " +
			"Can you break the booking logic and time-based constraints?",
		Difficulty: scenario.DifficultyHard,
		Type:       scenario.TypeLogic,
		Rules: []scenario.Rule{
			{ID: Reverse, Title: "The Time Paradox", Explanation: "Check-out is earlier than Check-in."},
			{ID: Past, Title: "The Ghost of Christmas Past", Explanation: "Booking for a date that has already occurred."},
			{ID: SameDay, Title: "Zero-Night Stay", Explanation: "Check-in and Check-out are the same day (Day Use logic)."},
			{ID: LeapYear, Title: "The Leap Year Trap", Explanation: "Handling February 29th on non-leap years or transitions."},
			{ID: FormatLocale, Title: "Locale Ambiguity", Explanation: "Confusion between US (MM/DD) and EU (DD/MM) formats."},
			{ID: DurationLimit, Title: "The Extended Stay", Explanation: "Booking for an unrealistic duration (e.g., 500+ days)."},
			{ID: InvalidDays, Title: "Impossible Dates", Explanation: "Trying to book on dates like Jan 32nd or Feb 30th."},
			{ID: Injection, Title: "Security Injection", Explanation: "Script or SQL injection inside date strings."},
			{ID: Midnight, Title: "Midnight Boundary", Explanation: `Booking for "Today" when it is almost tomorrow.`},
			{ID: NegativeNights, Title: "Calculated Underflow", Explanation: "Manipulating nights count to go below zero."},
			{ID: NullByte, Title: "Null Terminator", Explanation: `Using \0 or other special control characters in input.`},
			{ID: BlackoutOverlap, Title: "Blackout Conflict", Explanation: "Stay includes dates that are blocked for maintenance."},
		},
	}
}
