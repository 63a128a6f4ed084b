// Package searchbox implements the product search scenario, a
// query field prone to script, markup and SQL injection.
package searchbox

import "github.com/letsconfuse/manualQaLabs/pkg/scenario"

// ID is the scenario identifier.
const ID scenario.ID = "search-box"

// Edge case identifiers.
const (
	Empty     = "empty"
	XSS       = "xss"
	SQLi      = "sqli"
	Long      = "long"
	NoResults = "no-results"
	HTML      = "html"
)

// MaxQueryLength is the longest query accepted before the
// overflow edge case fires.
const MaxQueryLength = 50

// Definition returns a fresh copy of the scenario definition.
func Definition() *scenario.Definition {
	return &scenario.Definition{
		ID:          ID,
		Title:       "The Search Box",
		Description: "A search input prone to XSS and strange queries. Break the search logic.",
		Difficulty:  scenario.DifficultyHard,
		Type:        scenario.TypeSecurity,
		Rules: []scenario.Rule{
			{ID: Empty, Title: "Empty Search", Explanation: "Clicking search with no input should be handled gracefully."},
			{ID: XSS, Title: "XSS Attempt (<script>)", Explanation: "Injecting script tags is a common attack vector."},
			{ID: SQLi, Title: "SQL Injection", Explanation: "Search queries often go directly to DB. Test for SQLi."},
			{ID: Long, Title: "Buffer Overflow (>50 chars)", Explanation: "Extremely long strings can cause DOS or crashes."},
			{ID: NoResults, Title: "No Results Found", Explanation: "User should be informed if query yields nothing."},
			{ID: HTML, Title: "HTML Injection (<b>)", Explanation: "Bold tags or other HTML should be escaped."},
		},
	}
}
