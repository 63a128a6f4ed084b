package subscription

// Plan is a subscription tier.
type Plan string

// Plans offered by the console.
const (
	PlanNone       Plan = "None"
	PlanBasic      Plan = "Basic"
	PlanPro        Plan = "Pro"
	PlanEnterprise Plan = "Enterprise"
)

var planPrices = map[Plan]float64{
	PlanNone:       0,
	PlanBasic:      20,
	PlanPro:        100,
	PlanEnterprise: 500,
}

// Price returns the monthly price of p and whether p is known.
func (p Plan) Price() (float64, bool) {
	price, ok := planPrices[p]
	return price, ok
}

// Status is the account lifecycle state.
type Status string

// Account states. PastDue is the grace period after a failed
// payment.
const (
	StatusActive    Status = "Active"
	StatusPastDue   Status = "Past Due"
	StatusCancelled Status = "Cancelled"
)

// TaxClass tells whether an add-on is subject to sales tax.
type TaxClass string

// Tax classes.
const (
	Taxable TaxClass = "taxable"
	Exempt  TaxClass = "exempt"
)

// Addon is an optional line item billed on top of the plan.
type Addon struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Class  TaxClass `json:"class"`
	Active bool     `json:"active"`
}

// Add-on identifiers.
const (
	AddonSupport    = "support"
	AddonConsulting = "consulting"
)

func defaultAddons() []Addon {
	return []Addon{
		{ID: AddonSupport, Name: "Elite Support", Price: 95, Class: Taxable, Active: true},
		{ID: AddonConsulting, Name: "Expert Consulting", Price: 250, Class: Exempt},
	}
}

// Billing defaults.
const (
	DefaultUnitPrice   = 0.00038
	DefaultBillingDate = "2026-01-31"
	TaxRate            = 0.10
	CycleDays          = 30
)
