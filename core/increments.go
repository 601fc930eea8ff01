package core

import (
	"github.com/shopspring/decimal"
)

const monetaryPrecision int32 = 2 // 2 decimal places for CR values (0.01 precision)

// IncrementFor returns the bid increment for a given price. Tiers are
// evaluated on the pre-increment price: a bid taken at 3.90 uses the
// below-4 increment even though it lands the price above 4.
func (r Rules) IncrementFor(price float64) float64 {
	priceDecimal := decimal.NewFromFloat(price).Round(monetaryPrecision)

	for _, tier := range r.Tiers {
		if tier.Below <= 0 {
			return tier.Increment
		}
		if priceDecimal.LessThan(decimal.NewFromFloat(tier.Below)) {
			return tier.Increment
		}
	}

	// Price is at or above every bounded tier; fall back to the last one.
	if len(r.Tiers) > 0 {
		return r.Tiers[len(r.Tiers)-1].Increment
	}
	return 0
}

// AdvancePrice adds increment to price using decimal arithmetic and rounds
// to monetaryPrecision, so repeated increments never accumulate
// floating-point drift.
func AdvancePrice(price, increment float64) float64 {
	next := decimal.NewFromFloat(price).
		Add(decimal.NewFromFloat(increment)).
		Round(monetaryPrecision)

	result, _ := next.Float64()
	return result
}

// BudgetCovers returns true if budget meets or exceeds required. Uses
// decimal arithmetic with monetaryPrecision to avoid floating-point errors.
func BudgetCovers(budget, required float64) bool {
	budgetDecimal := decimal.NewFromFloat(budget).Round(monetaryPrecision)
	requiredDecimal := decimal.NewFromFloat(required).Round(monetaryPrecision)

	return budgetDecimal.GreaterThanOrEqual(requiredDecimal)
}
