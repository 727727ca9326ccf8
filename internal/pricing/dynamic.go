package pricing

import "github.com/shopspring/decimal"

// CalculateDynamicQuote prices an arbitrary template: each ordered section is
// computed per its type (per_seat, tiered, one_time), the combined discount
// applies to a section's monthly cost only when the section is marked
// discount-applicable, and one-time costs are never discounted.
//
// quantities maps section product ids to the selected quantity; products
// without an entry price at zero.
func CalculateDynamicQuote(template Template, quantities map[string]float64, ctx QuoteContext) DynamicQuoteResult {
	discount := CombinedDiscount(ctx.TermKey, ctx.BillingKey, ctx.AdditionalDiscountPct, nil, nil)
	return calculateDynamic(template, quantities, ctx, discount)
}

// CalculateDynamicQuoteWithCatalog is CalculateDynamicQuote with the catalog's
// discount tables applied to the context's term and billing keys.
func CalculateDynamicQuoteWithCatalog(template Template, quantities map[string]float64, ctx QuoteContext, catalog Catalog) DynamicQuoteResult {
	discount := CombinedDiscount(ctx.TermKey, ctx.BillingKey, ctx.AdditionalDiscountPct, catalog.TermDiscounts, catalog.BillingDiscounts)
	result := calculateDynamic(template, quantities, ctx, discount)
	result.TermMonths = TermMonths(ctx.TermKey, catalog.TermOverrides)
	result.TotalContractValue = result.MonthlyRecurring.Mul(decimal.NewFromInt(int64(result.TermMonths))).Add(result.OneTimeTotal)
	return result
}

func calculateDynamic(template Template, quantities map[string]float64, ctx QuoteContext, discount decimal.Decimal) DynamicQuoteResult {
	result := DynamicQuoteResult{
		Sections:      make([]SectionResult, 0, len(template.Sections)),
		DiscountRatio: discount,
		TermMonths:    TermMonths(ctx.TermKey, nil),
	}

	mrr := decimal.Zero
	oneTimeTotal := decimal.Zero

	for _, section := range template.Sections {
		sectionResult := SectionResult{
			SectionID:          section.ID,
			Name:               section.Name,
			Type:               section.Type,
			DiscountApplicable: section.DiscountApplicable,
			Lines:              make([]DynamicLine, 0, len(section.Products)),
		}

		monthly := decimal.Zero
		oneTime := decimal.Zero
		for _, product := range section.Products {
			qty := quantities[product.ID]
			if qty < 0 {
				qty = 0
			}
			line := priceLine(section.Type, product, qty)
			monthly = monthly.Add(line.MonthlyCost)
			oneTime = oneTime.Add(line.OneTimeCost)
			sectionResult.Lines = append(sectionResult.Lines, line)
		}

		sectionResult.MonthlyCost = monthly
		sectionResult.DiscountedMonthlyCost = monthly
		if section.DiscountApplicable {
			sectionResult.DiscountedMonthlyCost = monthly.Mul(one.Sub(discount))
		}
		sectionResult.OneTimeCost = oneTime

		mrr = mrr.Add(sectionResult.DiscountedMonthlyCost)
		oneTimeTotal = oneTimeTotal.Add(oneTime)
		result.Sections = append(result.Sections, sectionResult)
	}

	result.OneTimeTotal = oneTimeTotal
	result.MonthlyRecurring = mrr
	result.AnnualRecurring = mrr.Mul(twelve)
	result.TotalContractValue = mrr.Mul(decimal.NewFromInt(int64(result.TermMonths))).Add(oneTimeTotal)

	return result
}

func priceLine(sectionType SectionType, product SectionProduct, qty float64) DynamicLine {
	line := DynamicLine{
		ProductID:   product.ID,
		Name:        product.Name,
		Quantity:    qty,
		MonthlyCost: decimal.Zero,
		OneTimeCost: decimal.Zero,
	}

	qtyDec := decimal.NewFromFloat(qty)
	switch sectionType {
	case SectionPerSeat:
		line.UnitPrice = product.MonthlyUnitPrice
		if qty > 0 {
			line.MonthlyCost = product.MonthlyUnitPrice.Mul(qtyDec)
		}
	case SectionTiered:
		resolved, err := ResolveTier(product.Tiers, qty)
		if err != nil {
			resolved = TierRate{Rate: decimal.Zero}
		}
		line.UnitPrice = resolved.Rate
		if qty > 0 {
			line.MonthlyCost = resolved.Rate.Mul(qtyDec)
		}
	case SectionOneTime:
		line.UnitPrice = product.FlatPrice
		if qty > 0 {
			line.OneTimeCost = product.FlatPrice.Mul(qtyDec)
		}
	}

	return line
}
