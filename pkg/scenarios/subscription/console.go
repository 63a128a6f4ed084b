package subscription

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

var (
	billingDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	leapDayPattern     = regexp.MustCompile(`^(\d{4})-02-29$`)
	leadingDigits      = regexp.MustCompile(`^\d+`)
)

// Console is the billing console detector. It owns the whole
// subscription state of one session.
type Console struct {
	scenario.Base
	plan        Plan
	status      Status
	addons      []Addon
	units       int64
	unitPrice   float64
	discount    float64
	billingDate string
	invoice     Invoice
	fingerprint string
}

// New creates a Console on the Enterprise plan with Elite Support
// active.
func New(clock scenario.Clock) *Console {
	c := &Console{Base: scenario.NewBase(Definition(), clock)}
	c.reset()
	return c
}

// Factory adapts New to scenario.Factory.
func Factory(clock scenario.Clock) scenario.Detector {
	return New(clock)
}

// Plan returns the current plan.
func (c *Console) Plan() Plan { return c.plan }

// Status returns the account status.
func (c *Console) Status() Status { return c.status }

// Units returns the metered usage count.
func (c *Console) Units() int64 { return c.units }

// BillingDate returns the billing anniversary date.
func (c *Console) BillingDate() string { return c.billingDate }

// Invoice returns the invoice from the last recompute.
func (c *Console) Invoice() Invoice { return c.invoice }

// Addons returns a copy of the add-on list.
func (c *Console) Addons() []Addon {
	out := make([]Addon, len(c.addons))
	copy(out, c.addons)
	return out
}

// Recompute prices the current state and runs the drift watcher.
// The watcher only reports once per distinct set of billing inputs.
func (c *Console) Recompute() scenario.Events {
	r := c.Recorder()
	c.recompute(r)
	return r.Events()
}

func (c *Console) recompute(r *scenario.Recorder) {
	cost, _ := c.plan.Price()
	c.invoice = computeInvoice(cost, c.addons, c.units, c.unitPrice, c.discount)

	fp := c.currentFingerprint()
	changed := fp != c.fingerprint
	c.fingerprint = fp
	if changed && hasDrift(c.invoice.RawTotal) {
		r.Success(FloatingPointDrift, fmt.Sprintf(
			"BEAST FOUND: Floating point drift detected in ledger ($%s)",
			strconv.FormatFloat(c.invoice.RawTotal, 'f', -1, 64),
		))
	}
}

func (c *Console) currentFingerprint() string {
	var active []string
	for _, a := range c.addons {
		if a.Active {
			active = append(active, a.ID)
		}
	}
	return fmt.Sprintf("%s|%s|%d|%s",
		c.plan, strings.Join(active, ","), c.units,
		strconv.FormatFloat(c.unitPrice, 'g', -1, 64),
	)
}

// ChangePlan moves the subscription to a new plan. Choosing None
// is a cancellation.
func (c *Console) ChangePlan(next Plan) scenario.Events {
	newCost, ok := next.Price()
	if !ok {
		return c.Fail("Unknown plan %q.", next)
	}
	if next == PlanNone {
		return c.Cancel()
	}

	r := c.Recorder()
	if next == c.plan {
		r.Info(fmt.Sprintf("Already on the %s plan.", next))
		return r.Events()
	}

	oldCost, _ := c.plan.Price()
	if c.status == StatusPastDue && newCost < oldCost {
		r.Success(StateLockout,
			"RACE CONDITION: Past-due account downgraded without settling the outstanding balance.")
	}

	day, known := c.billingDay()
	switch {
	case known && day == 15:
		r.Success(ProrationPrecision,
			"LOGIC BUG: Proration calculation drifted by $0.01 at exactly 50% month cycle.")
	case known:
		remaining := float64(CycleDays-day) / CycleDays
		r.Info(fmt.Sprintf(
			"Proration notice: Crediting $%.2f from %s, Charging $%.2f for %s.",
			remaining*oldCost, c.plan, remaining*newCost, next,
		))
	default:
		r.Info("Proration skipped: billing day unknown.")
	}

	if c.plan == PlanNone {
		c.status = StatusActive
	}
	c.plan = next
	r.Info(fmt.Sprintf("Plan successfully updated to %s.", next))
	c.recompute(r)
	return r.Events()
}

// Cancel ends the subscription. A past-due account cannot be
// cancelled; active add-ons keep billing after cancellation.
func (c *Console) Cancel() scenario.Events {
	r := c.Recorder()
	r.Info("Attempting to cancel primary plan...")

	if c.status == StatusPastDue {
		r.Success(StateLockout,
			"DEADLOCK: Cancellation refused while the account is in its past-due grace period.")
		return r.Events()
	}
	if c.plan == PlanNone {
		r.Info("No active plan to cancel.")
		return r.Events()
	}

	if c.anyAddonActive() {
		r.Success(OrphanDependency,
			"CRITICAL SECURITY: Parent subscription deleted but Add-ons are still billing!")
	}
	c.plan = PlanNone
	c.status = StatusCancelled
	r.Info("Subscription cancelled.")
	c.recompute(r)
	return r.Events()
}

// SetStatus forces the account status. Only Active and Past Due
// can be set directly.
func (c *Console) SetStatus(s Status) scenario.Events {
	if s != StatusActive && s != StatusPastDue {
		return c.Fail("Status %q cannot be set directly.", s)
	}
	if c.plan == PlanNone {
		return c.Fail("No active plan.")
	}
	c.status = s
	r := c.Recorder()
	r.Info(fmt.Sprintf("Account status set to %s.", s))
	return r.Events()
}

// ToggleAddon switches an add-on on or off.
func (c *Console) ToggleAddon(id string) scenario.Events {
	for i := range c.addons {
		if c.addons[i].ID != id {
			continue
		}
		a := &c.addons[i]
		a.Active = !a.Active
		r := c.Recorder()
		if a.Active {
			r.Info(fmt.Sprintf("Added Add-on: %s (+$%.0f/mo)", a.Name, a.Price))
		} else {
			r.Info(fmt.Sprintf("Removed Add-on: %s", a.Name))
		}
		c.recompute(r)
		return r.Events()
	}
	return c.Fail("Unknown add-on %q.", id)
}

// SetUnits sets the metered usage count.
func (c *Console) SetUnits(units int64) scenario.Events {
	if units < 0 {
		return c.Fail("Usage cannot be negative.")
	}
	c.units = units
	r := c.Recorder()
	r.Info(fmt.Sprintf("Calculating usage: %d units @ $%s/unit",
		units, strconv.FormatFloat(c.unitPrice, 'f', -1, 64)))
	c.recompute(r)
	return r.Events()
}

// SetUnitPrice sets the price of one metered unit.
func (c *Console) SetUnitPrice(price float64) scenario.Events {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return c.Fail("Unit price must be a non-negative number.")
	}
	c.unitPrice = price
	r := c.Recorder()
	r.Info(fmt.Sprintf("Unit price set to $%s.",
		strconv.FormatFloat(price, 'f', -1, 64)))
	c.recompute(r)
	return r.Events()
}

// ApplyDiscount sets a manual invoice discount. The discount is
// consumed by the exempt base first, which is the reported defect
// whenever an exempt base exists.
func (c *Console) ApplyDiscount(amount float64) scenario.Events {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return c.Fail("Discount must be positive.")
	}
	r := c.Recorder()
	r.Info(fmt.Sprintf("Applying $%.2f global discount to the invoice...", amount))

	if c.addonActive(AddonConsulting) || c.units > 0 {
		r.Success(TaxExemptionBug,
			"COMPLIANCE FAILURE: Discount reduced Tax-Exempt balance instead of Taxable balance. Audit risk triggered.")
	}
	c.discount = amount
	c.recompute(r)
	return r.Events()
}

// SetBillingDate sets the billing anniversary date.
func (c *Console) SetBillingDate(date string) scenario.Events {
	date = strings.TrimSpace(date)
	if date == "" {
		return c.Fail("Billing date is empty.")
	}
	if !billingDatePattern.MatchString(date) {
		return c.Fail("Billing date %q is not YYYY-MM-DD.", date)
	}

	c.billingDate = date
	r := c.Recorder()
	r.Info(fmt.Sprintf("Billing anniversary set to %s.", date))
	if m := leapDayPattern.FindStringSubmatch(date); m != nil {
		year, _ := strconv.Atoi(m[1])
		if !isLeap(year) {
			r.Success(LeapYearRollover, fmt.Sprintf(
				"LOGIC BREAK: February 29th accepted for %d (Non-Leap Year). Billing calendar out of sync.",
				year,
			))
		}
	}
	return r.Events()
}

// Reset restores the initial console state.
func (c *Console) Reset() scenario.Events {
	c.reset()
	r := c.Recorder()
	r.Info("Console reset.")
	return r.Events()
}

func (c *Console) reset() {
	c.plan = PlanEnterprise
	c.status = StatusActive
	c.addons = defaultAddons()
	c.units = 0
	c.unitPrice = DefaultUnitPrice
	c.discount = 0
	c.billingDate = DefaultBillingDate
	cost, _ := c.plan.Price()
	c.invoice = computeInvoice(cost, c.addons, c.units, c.unitPrice, c.discount)
	c.fingerprint = c.currentFingerprint()
}

// billingDay reads the day of month from the billing date the
// lenient way: the leading digits of the third dash-separated
// field.
func (c *Console) billingDay() (int, bool) {
	parts := strings.Split(c.billingDate, "-")
	if len(parts) < 3 {
		return 0, false
	}
	digits := leadingDigits.FindString(parts[2])
	if digits == "" {
		return 0, false
	}
	day, err := strconv.Atoi(digits)
	return day, err == nil
}

func (c *Console) anyAddonActive() bool {
	for _, a := range c.addons {
		if a.Active {
			return true
		}
	}
	return false
}

func (c *Console) addonActive(id string) bool {
	for _, a := range c.addons {
		if a.ID == id {
			return a.Active
		}
	}
	return false
}

func isLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// Handle dispatches the console actions: "plan" (input "plan"),
// "cancel", "status" (input "status"), "addon" (input "addon"),
// "units" (input "units"), "unit_price" (input "price"),
// "discount" (input "amount"), "billing_date" (input "date"),
// "recompute" and "reset".
func (c *Console) Handle(a scenario.Action) scenario.Events {
	switch a.Name {
	case "plan":
		p := strings.TrimSpace(a.Get("plan"))
		if p == "" {
			return c.Fail("Plan is empty.")
		}
		return c.ChangePlan(Plan(p))
	case "cancel":
		return c.Cancel()
	case "status":
		s := strings.TrimSpace(a.Get("status"))
		if s == "" {
			return c.Fail("Status is empty.")
		}
		return c.SetStatus(Status(s))
	case "addon":
		id := strings.TrimSpace(a.Get("addon"))
		if id == "" {
			return c.Fail("Add-on is empty.")
		}
		return c.ToggleAddon(id)
	case "units":
		n, err := a.Int("units")
		if err != nil {
			return c.Fail("%v", err)
		}
		return c.SetUnits(n)
	case "unit_price":
		p, err := a.Float("price")
		if err != nil {
			return c.Fail("%v", err)
		}
		return c.SetUnitPrice(p)
	case "discount":
		amt, err := a.Float("amount")
		if err != nil {
			return c.Fail("%v", err)
		}
		return c.ApplyDiscount(amt)
	case "billing_date":
		return c.SetBillingDate(a.Get("date"))
	case "recompute":
		return c.Recompute()
	case "reset":
		return c.Reset()
	default:
		return c.Unknown(a)
	}
}
