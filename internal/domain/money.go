package domain

import "github.com/shopspring/decimal"

// Monetary rounding policy: amounts round half-up to 2 fractional digits,
// intermediate percentage ratios to 4. decimal.DivRound rounds half away from
// zero, which matches half-up for the non-negative values used here.
const (
	AmountScale = 2
	RatioScale  = 4
)

var oneHundred = decimal.NewFromInt(100)

// ProgressPercent returns spent as a percentage of budget, rounded half-up to
// two decimal places. A zero (or negative) budget yields zero progress; the
// result is not capped at 100.
func ProgressPercent(spent, budget decimal.Decimal) decimal.Decimal {
	if budget.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return spent.Mul(oneHundred).DivRound(budget, AmountScale)
}

// SharePercent returns amount's percentage share of total. The ratio is taken
// at four decimal places before scaling to a percentage. A zero total yields
// zero for every share.
func SharePercent(amount, total decimal.Decimal) decimal.Decimal {
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return amount.DivRound(total, RatioScale).Mul(oneHundred)
}
