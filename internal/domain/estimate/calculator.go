package estimate

import "github.com/shopspring/decimal"

// DefaultContingencyPct buffers the summed line items against estimation
// uncertainty. Callers override it per Totals call.
const DefaultContingencyPct = 15.0

// AdjustedCost applies the regional multiplier to a national base cost,
// rounded half-up to cents.
func AdjustedCost(baseUnitCost float64, factor LocationFactor) float64 {
	adjusted := decimal.NewFromFloat(baseUnitCost).
		Mul(decimal.NewFromFloat(factor.CombinedFactor)).
		Round(2)
	return adjusted.InexactFloat64()
}

// LineItemTotal prices one line, rounded half-up to cents.
func LineItemTotal(quantity, unitCost float64) float64 {
	total := decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromFloat(unitCost)).
		Round(2)
	return total.InexactFloat64()
}

// EstimateTotal rolls selected lines into subtotal, contingency and total.
// Deselected items contribute zero even though their own TotalCost stays
// populated for display. Contingency rounds to whole currency units while
// the subtotal keeps cents; the asymmetry is long-standing behavior and is
// preserved on purpose.
func EstimateTotal(items []RepairItem, contingencyPct float64) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		if !item.IsSelected {
			continue
		}
		subtotal = subtotal.Add(
			decimal.NewFromFloat(item.Quantity).
				Mul(decimal.NewFromFloat(item.UnitCost)).
				Round(2),
		)
	}

	contingency := subtotal.
		Mul(decimal.NewFromFloat(contingencyPct)).
		Div(decimal.NewFromInt(100)).
		Round(0)

	return Totals{
		Subtotal:       subtotal.InexactFloat64(),
		ContingencyPct: contingencyPct,
		ContingencyAmt: contingency.InexactFloat64(),
		Total:          subtotal.Add(contingency).InexactFloat64(),
	}
}
