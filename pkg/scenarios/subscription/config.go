// Package subscription implements the SaaS billing console
// scenario: proration, tax ordering, floating point drift and
// lifecycle state machine defects.
package subscription

import "github.com/letsconfuse/manualQaLabs/pkg/scenario"

// ID is the scenario identifier.
const ID scenario.ID = "subscription-nexus"

// Edge case identifiers.
const (
	ProrationPrecision = "proration-precision"
	TaxExemptionBug    = "tax-exemption-bug"
	FloatingPointDrift = "floating-point-drift"
	StateLockout       = "state-lockout"
	OrphanDependency   = "orphan-dependency"
	LeapYearRollover   = "leap-year-rollover"
)

// Definition returns a fresh copy of the scenario definition.
func Definition() *scenario.Definition {
	return &scenario.Definition{
		ID:    ID,
		Title: "The Subscription Nexus",
		Description: "Elite Level: A hyper-realistic billing console simulation. " +
			"Test proration math, tax liability, and state machine integrity.",
		Difficulty: scenario.DifficultyHard,
		Type:       scenario.TypeLogic,
		Rules: []scenario.Rule{
			{ID: ProrationPrecision, Title: "Mid-Month Upgrade Logic", Explanation: "Upgrade precisely on Day 15 to find the $0.01 calculation drift."},
			{ID: TaxExemptionBug, Title: "Tax Hierarchy Flaw", Explanation: "Applying a manual discount to a mixed taxable/exempt basket."},
			{ID: FloatingPointDrift, Title: "Unit Math Precision", Explanation: "Generate an invoice for exactly 131,579 units at $0.00038/unit."},
			{ID: StateLockout, Title: "Grace Period Deadlock", Explanation: `Trying to cancel a subscription that is currently in a "Lapsed" state.`},
			{ID: OrphanDependency, Title: "Orphaned Add-on Charge", Explanation: `The "Enterprise Support" add-on remains active even if the parent plan is deleted.`},
			{ID: LeapYearRollover, Title: "Leap Year Cycle Drift", Explanation: "Setting the signup date to Feb 29th and simulating a monthly rollover."},
		},
	}
}
