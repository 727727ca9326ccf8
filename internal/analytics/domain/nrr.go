package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// NetRevenueRetention computes NRR% from the period's movement aggregates.
// A zero current MRR yields 0 rather than dividing by zero.
func NetRevenueRetention(currentMRR, expansion, contraction, churn decimal.Decimal) decimal.Decimal {
	if currentMRR.IsZero() {
		return decimal.Zero
	}
	retained := currentMRR.Add(expansion).Sub(contraction).Sub(churn)
	return retained.Div(currentMRR).Mul(hundred)
}
