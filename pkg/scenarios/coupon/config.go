// Package coupon implements the shopping cart coupon scenario:
// stacking, expiry, negative totals and case handling.
package coupon

import "github.com/letsconfuse/manualQaLabs/pkg/scenario"

// ID is the scenario identifier.
const ID scenario.ID = "coupon-code"

// Edge case identifiers.
const (
	Expired  = "expired"
	Stacking = "stacking"
	Negative = "negative"
	Case     = "case"
	SQLi     = "sqli"
	Invalid  = "invalid"
)

// StartingTotal is the cart total of a fresh session, in dollars.
const StartingTotal = 100

// Code describes an entry of the coupon table.
type Code struct {
	Name     string
	Discount int
	Expired  bool
}

var codes = map[string]Code{
	"SAVE10":     {Name: "SAVE10", Discount: 10},
	"VIP50":      {Name: "VIP50", Discount: 50},
	"MEGA1000":   {Name: "MEGA1000", Discount: 1000},
	"SUMMER2020": {Name: "SUMMER2020", Expired: true},
}

// Lookup returns the table entry for a canonical upper-case code.
func Lookup(name string) (Code, bool) {
	c, ok := codes[name]
	return c, ok
}

// Definition returns a fresh copy of the scenario definition.
func Definition() *scenario.Definition {
	return &scenario.Definition{
		ID:    ID,
		Title: "The Coupon Code",
		Description: "Apply a discount to your shopping cart. " +
			"Watch out for stacking, expiry, and negative totals.",
		Difficulty: scenario.DifficultyMedium,
		Type:       scenario.TypeLogic,
		Rules: []scenario.Rule{
			{ID: Expired, Title: "Expired Coupon", Explanation: "Old codes should be rejected gracefully."},
			{ID: Stacking, Title: "Coupon Stacking", Explanation: "Prevent applying the same coupon twice."},
			{ID: Negative, Title: "Negative Total", Explanation: "Discount cannot exceed cart total (unless store credit)."},
			{ID: Case, Title: "Case Sensitivity", Explanation: `Code "save10" should work same as "SAVE10".`},
			{ID: SQLi, Title: "SQL Injection", Explanation: "Codes are DB queries too."},
			{ID: Invalid, Title: "Invalid Code", Explanation: "Standard error for non-existent codes."},
		},
	}
}
