// Package agegate implements the age verification scenario: a
// numeric field with an 18+ threshold whose boundary values and
// malformed inputs are the edge cases to discover.
package agegate

import "github.com/letsconfuse/manualQaLabs/pkg/scenario"

// ID is the scenario identifier.
const ID scenario.ID = "age-gate"

// Edge case identifiers.
const (
	MinBoundary   = "min-boundary"
	BelowMin      = "below-min"
	Negative      = "negative"
	Zero          = "zero"
	NonNumeric    = "non-numeric"
	Decimal       = "decimal"
	UpperBoundary = "upper-boundary"
)

// Definition returns a fresh copy of the scenario definition.
func Definition() *scenario.Definition {
	return &scenario.Definition{
		ID:    ID,
		Title: "The Age Gate",
		Description: "A simple age verification form. Users must be 18+. " +
			"Find the boundary values and invalid inputs.",
		Difficulty: scenario.DifficultyEasy,
		Type:       scenario.TypeValidation,
		Rules: []scenario.Rule{
			{ID: MinBoundary, Title: "Minimum Boundary (18)", Explanation: "18 is the exact threshold for allowed access."},
			{ID: BelowMin, Title: "Below Boundary (17)", Explanation: "17 is the immediate value below the threshold."},
			{ID: Negative, Title: "Negative Value", Explanation: "Age cannot be negative. Logic should block this."},
			{ID: Zero, Title: "Zero Value", Explanation: "0 is a valid number but invalid age."},
			{ID: NonNumeric, Title: "Text / Non-Numeric", Explanation: "Input should reject non-numeric characters."},
			{ID: Decimal, Title: "Decimal Value", Explanation: "Age is typically an integer."},
			{ID: UpperBoundary, Title: "Unrealistic High", Explanation: "Values like 150+ should probably be flagged."},
		},
	}
}
