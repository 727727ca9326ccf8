package pricing

import "github.com/shopspring/decimal"

var (
	hundred     = decimal.NewFromInt(100)
	one         = decimal.NewFromInt(1)
	twelve      = decimal.NewFromInt(12)
	defaultTerm = map[string]int{
		"monthly":   1,
		"quarterly": 3,
		"1_year":    12,
		"2_year":    24,
		"3_year":    36,
	}
)

// CombinedDiscount stacks the term-length discount, the billing-frequency
// discount, and an ad-hoc percentage (0-100) into one effective ratio.
// Unknown keys resolve to zero. The sum is clamped to [0, 1] so stacked
// discounts can never produce a negative post-discount price.
func CombinedDiscount(termKey, billingKey string, additionalPct decimal.Decimal, termTable, billingTable map[string]decimal.Decimal) decimal.Decimal {
	ratio := termTable[termKey].Add(billingTable[billingKey]).Add(additionalPct.Div(hundred))
	if ratio.IsNegative() {
		return decimal.Zero
	}
	if ratio.GreaterThan(one) {
		return one
	}
	return ratio
}

// TermMonths maps a term key to its contract length in months. An explicit
// override wins over the default table; unknown keys default to 12.
func TermMonths(termKey string, overrides map[string]int) int {
	if months, ok := overrides[termKey]; ok && months > 0 {
		return months
	}
	if months, ok := defaultTerm[termKey]; ok {
		return months
	}
	return 12
}
