package subscription

import (
	"math"
	"regexp"
	"strconv"
)

// Invoice is the computed bill for the current console state.
type Invoice struct {
	PlanCost        float64 `json:"plan_cost"`
	AddonsTotal     float64 `json:"addons_total"`
	Subtotal        float64 `json:"subtotal"`
	UsageCost       float64 `json:"usage_cost"`
	TaxableBase     float64 `json:"taxable_base"`
	ExemptBase      float64 `json:"exempt_base"`
	Discount        float64 `json:"discount"`
	AdjustedTaxable float64 `json:"adjusted_taxable"`
	AdjustedExempt  float64 `json:"adjusted_exempt"`
	Tax             float64 `json:"tax"`
	Total           float64 `json:"total"`

	// RawTotal is subtotal plus usage before any discount or tax.
	RawTotal float64 `json:"raw_total"`
}

// computeInvoice prices the given state. The discount is taken
// from the exempt base first and only reaches the taxable base
// once the exempt base is exhausted.
func computeInvoice(
	planCost float64,
	addons []Addon,
	units int64,
	unitPrice, discount float64,
) Invoice {
	inv := Invoice{PlanCost: planCost, Discount: discount}
	inv.TaxableBase = planCost
	for _, a := range addons {
		if !a.Active {
			continue
		}
		inv.AddonsTotal += a.Price
		if a.Class == Exempt {
			inv.ExemptBase += a.Price
		} else {
			inv.TaxableBase += a.Price
		}
	}
	inv.Subtotal = planCost + inv.AddonsTotal
	inv.UsageCost = float64(units) * unitPrice
	inv.ExemptBase += inv.UsageCost
	inv.RawTotal = inv.Subtotal + inv.UsageCost

	inv.AdjustedExempt = inv.ExemptBase - discount
	inv.AdjustedTaxable = inv.TaxableBase
	if inv.AdjustedExempt < 0 {
		inv.AdjustedTaxable += inv.AdjustedExempt
		inv.AdjustedExempt = 0
	}

	inv.Tax = TaxRate * math.Max(0, inv.AdjustedTaxable)
	inv.Total = math.Max(0, inv.AdjustedTaxable+inv.AdjustedExempt+inv.Tax)
	return inv
}

var driftPattern = regexp.MustCompile(`0{8,}1|9{8,}`)

// hasDrift reports whether the 16 significant digit expansion of v shows
// binary rounding residue.
func hasDrift(v float64) bool {
	return driftPattern.MatchString(strconv.FormatFloat(v, 'g', 16, 64))
}
