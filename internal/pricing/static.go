package pricing

import "github.com/shopspring/decimal"

// CalculateStaticQuote prices the fixed catalog: every feature line at its
// monthly unit price times the selected quantity, the combined discount over
// the feature subtotal only, each usage dimension tier-priced without
// discount, and an optional one-time service.
//
// The function is total over its input domain: zero quantities, unknown
// service ids, and missing lookup keys all resolve to zero, never an error.
func CalculateStaticQuote(ctx QuoteContext, catalog Catalog) QuoteResult {
	result := QuoteResult{
		FeatureLines: make([]FeatureLine, 0, len(catalog.Features)),
		UsageLines:   make([]UsageLine, 0, len(catalog.UsageDimensions)),
	}

	featureCost := decimal.Zero
	for _, feature := range catalog.Features {
		qty := ctx.FeatureQuantities[feature.ID]
		if qty < 0 {
			qty = 0
		}
		lineCost := feature.MonthlyUnitPrice.Mul(decimal.NewFromFloat(qty))
		featureCost = featureCost.Add(lineCost)
		result.FeatureLines = append(result.FeatureLines, FeatureLine{
			FeatureID:   feature.ID,
			Name:        feature.Name,
			Quantity:    qty,
			UnitPrice:   feature.MonthlyUnitPrice,
			MonthlyCost: lineCost,
		})
	}

	discount := CombinedDiscount(ctx.TermKey, ctx.BillingKey, ctx.AdditionalDiscountPct, catalog.TermDiscounts, catalog.BillingDiscounts)
	discountedFeatures := featureCost.Mul(one.Sub(discount))

	// Usage tiers are volume-priced already and stay outside the discount.
	usageCost := decimal.Zero
	for _, dim := range catalog.UsageDimensions {
		qty := ctx.UsageQuantities[dim.Key]
		resolved, err := ResolveTier(dim.Tiers, qty)
		if err != nil {
			// Misconfigured dimension: price the line at zero rather than
			// failing the whole quote.
			resolved = TierRate{Rate: decimal.Zero}
		}
		lineCost := resolved.Rate.Mul(decimal.NewFromFloat(qty))
		if qty <= 0 {
			lineCost = decimal.Zero
		}
		usageCost = usageCost.Add(lineCost)
		result.UsageLines = append(result.UsageLines, UsageLine{
			Dimension:   dim.Key,
			Quantity:    qty,
			UnitRate:    resolved.Rate,
			MonthlyCost: lineCost,
		})
	}

	servicesCost := decimal.Zero
	if ctx.ServiceID != "" {
		for _, svc := range catalog.Services {
			if svc.ID != ctx.ServiceID {
				continue
			}
			servicesCost = svc.Price
			if svc.PerUnit && ctx.ServiceQuantity > 0 {
				servicesCost = svc.Price.Mul(decimal.NewFromFloat(ctx.ServiceQuantity))
			}
			break
		}
	}

	termMonths := TermMonths(ctx.TermKey, catalog.TermOverrides)
	mrr := discountedFeatures.Add(usageCost)

	result.FeatureMonthlyCost = featureCost
	result.DiscountRatio = discount
	result.DiscountedFeatures = discountedFeatures
	result.UsageMonthlyCost = usageCost
	result.ServicesCost = servicesCost
	result.TermMonths = termMonths
	result.MonthlyRecurring = mrr
	result.AnnualRecurring = mrr.Mul(twelve)
	result.TotalContractValue = mrr.Mul(decimal.NewFromInt(int64(termMonths))).Add(servicesCost)

	return result
}
