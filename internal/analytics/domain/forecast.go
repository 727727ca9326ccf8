package domain

import "github.com/shopspring/decimal"

// DefaultForecastCategory buckets opportunities without an explicit category.
const DefaultForecastCategory = "pipeline"

// WeightedPipeline sums amount x stage weight over the opportunities.
// Stages missing from the weight table contribute nothing.
func WeightedPipeline(opportunities []Opportunity, weights map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, opp := range opportunities {
		weight, ok := weights[opp.Stage]
		if !ok {
			continue
		}
		total = total.Add(opp.Amount.Mul(weight))
	}
	return total
}

// PipelineByStage groups raw opportunity amounts by stage.
func PipelineByStage(opportunities []Opportunity) map[string]decimal.Decimal {
	byStage := make(map[string]decimal.Decimal)
	for _, opp := range opportunities {
		byStage[opp.Stage] = byStage[opp.Stage].Add(opp.Amount)
	}
	return byStage
}

// ForecastByCategory groups raw opportunity amounts by forecast category,
// defaulting unknown categories to "pipeline".
func ForecastByCategory(opportunities []Opportunity) map[string]decimal.Decimal {
	byCategory := make(map[string]decimal.Decimal)
	for _, opp := range opportunities {
		category := opp.ForecastCategory
		if category == "" {
			category = DefaultForecastCategory
		}
		byCategory[category] = byCategory[category].Add(opp.Amount)
	}
	return byCategory
}

// ForecastDeals expands each opportunity into its per-deal forecast line,
// carrying the stored metadata through for downstream consumers. Deals in a
// stage without a weight forecast at zero.
func ForecastDeals(opportunities []Opportunity, weights map[string]decimal.Decimal) []DealForecast {
	deals := make([]DealForecast, 0, len(opportunities))
	for _, opp := range opportunities {
		category := opp.ForecastCategory
		if category == "" {
			category = DefaultForecastCategory
		}
		deals = append(deals, DealForecast{
			ID:               opp.ID,
			Name:             opp.Name,
			Stage:            opp.Stage,
			ForecastCategory: category,
			Amount:           opp.Amount,
			WeightedAmount:   opp.Amount.Mul(weights[opp.Stage]),
			Metadata:         opp.Metadata,
		})
	}
	return deals
}
