// Package username implements the registration field scenario:
// length limits, character classes, reserved names and SQL
// injection probes.
package username

import "github.com/letsconfuse/manualQaLabs/pkg/scenario"

// ID is the scenario identifier.
const ID scenario.ID = "username-validator"

// Edge case identifiers.
const (
	Empty   = "empty"
	Spaces  = "spaces"
	Short   = "short"
	Long    = "long"
	Special = "special"
	SQLi    = "sqli"
	Admin   = "admin"
)

// Length limits, counted in runes.
const (
	MinLength = 3
	MaxLength = 20
)

// Definition returns a fresh copy of the scenario definition.
func Definition() *scenario.Definition {
	return &scenario.Definition{
		ID:    ID,
		Title: "The Username Validator",
		Description: "A classic registration field with hidden rules. " +
			"Test for length, characters, and SQL injection.",
		Difficulty: scenario.DifficultyMedium,
		Type:       scenario.TypeValidation,
		Rules: []scenario.Rule{
			{ID: Empty, Title: "Empty Input", Explanation: "Required field validation is fundamental."},
			{ID: Spaces, Title: "Leading/Trailing Spaces", Explanation: "Inputs should be trimmed, or spaces should be rejected if not allowed."},
			{ID: Short, Title: "Too Short (<3)", Explanation: "Usernames typically have a minimum length."},
			{ID: Long, Title: "Too Long (>20)", Explanation: "Buffer overflow protection / DB limits."},
			{ID: Special, Title: "Special Characters", Explanation: "Many systems only allow alphanumeric characters."},
			{ID: SQLi, Title: "SQL Injection Attempt", Explanation: "Inputs must be sanitized against SQLi attacks."},
			{ID: Admin, Title: "Reserved Keyword", Explanation: `"Admin" is often a reserved username.`},
		},
	}
}
