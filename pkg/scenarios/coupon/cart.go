package coupon

import (
	"fmt"
	"strings"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// Cart is the coupon detector. Its total and applied codes persist
// across applications within a session.
type Cart struct {
	scenario.Base
	total   int
	applied []string
}

// New creates a Cart at the starting total.
func New(clock scenario.Clock) *Cart {
	c := &Cart{Base: scenario.NewBase(Definition(), clock)}
	c.reset()
	return c
}

// Factory adapts New to scenario.Factory.
func Factory(clock scenario.Clock) scenario.Detector {
	return New(clock)
}

// Total returns the cart total in dollars. It never drops below
// zero.
func (c *Cart) Total() int { return c.total }

// Applied returns the canonical codes applied so far.
func (c *Cart) Applied() []string {
	out := make([]string, len(c.applied))
	copy(out, c.applied)
	return out
}

// Apply tries a typed coupon code against the cart.
func (c *Cart) Apply(input string) scenario.Events {
	r := c.Recorder()
	code := strings.TrimSpace(input)
	if code == "" {
		r.Error("Coupon code is empty.")
		return r.Events()
	}
	upper := strings.ToUpper(code)
	r.Info(fmt.Sprintf("Applying code: %q", code))

	entry, known := Lookup(upper)
	if known && code != upper {
		r.Success(Case, "UX: Case sensitivity tested.")
	}

	if strings.Contains(code, "'") || strings.Contains(code, "--") {
		r.Success(SQLi, "Security: SQL Injection attempt.")
		return r.Events()
	}

	if c.isApplied(upper) {
		r.Success(Stacking, "Logic: Coupon stacking attempted.")
		return r.Events()
	}

	switch {
	case !known:
		r.Info("Invalid coupon code.")
	case entry.Expired:
		r.Success(Expired, "Logic: Expired coupon used.")
	case c.total-entry.Discount < 0:
		c.total = 0
		c.applied = append(c.applied, entry.Name)
		r.Success(Negative, "Logic: Discount exceeds total (Negative Price).")
	default:
		c.total -= entry.Discount
		c.applied = append(c.applied, entry.Name)
		r.Info(fmt.Sprintf("Coupon %s applied. -$%d", entry.Name, entry.Discount))
	}
	return r.Events()
}

// Reset restores the starting total and clears applied codes.
func (c *Cart) Reset() scenario.Events {
	c.reset()
	r := c.Recorder()
	r.Info("Cart reset.")
	return r.Events()
}

func (c *Cart) reset() {
	c.total = StartingTotal
	c.applied = nil
}

func (c *Cart) isApplied(code string) bool {
	for _, a := range c.applied {
		if a == code {
			return true
		}
	}
	return false
}

// Handle dispatches "apply" (input "code") and "reset".
func (c *Cart) Handle(a scenario.Action) scenario.Events {
	switch a.Name {
	case "apply":
		return c.Apply(a.Get("code"))
	case "reset":
		return c.Reset()
	default:
		return c.Unknown(a)
	}
}
