package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testCatalog() Catalog {
	term, billing := testDiscountTables()
	return Catalog{
		Features: []Feature{
			{ID: "meeting_intelligence", Name: "Meeting Intelligence", MonthlyUnitPrice: decimal.NewFromInt(49)},
			{ID: "content_studio", Name: "Content Studio", MonthlyUnitPrice: decimal.NewFromInt(79)},
			{ID: "crm_sync", Name: "CRM Sync", MonthlyUnitPrice: decimal.NewFromInt(25)},
		},
		Services: []Service{
			{ID: "onboarding", Name: "Guided Onboarding", Price: decimal.NewFromInt(2500), DurationLabel: "one-time"},
			{ID: "workshop", Name: "Enablement Workshop", Price: decimal.NewFromInt(800), DurationLabel: "per session", PerUnit: true},
		},
		UsageDimensions: []UsageDimension{
			{Key: "processing_hours", Name: "Intensive Processing Hours", Tiers: meetingIntelligenceTiers()},
			{Key: "live_assist_hours", Name: "Live-Assist Hours", Tiers: []Tier{
				{MinQuantity: 0, MaxQuantity: f(50), UnitRate: decimal.NewFromInt(12)},
				{MinQuantity: 51, UnitRate: decimal.NewFromInt(10)},
			}},
		},
		TermDiscounts:    term,
		BillingDiscounts: billing,
	}
}

func TestCalculateStaticQuote_ZeroQuantityIdentity(t *testing.T) {
	result := CalculateStaticQuote(QuoteContext{TermKey: "1_year", BillingKey: "annual"}, testCatalog())

	assert.True(t, result.MonthlyRecurring.IsZero())
	assert.True(t, result.AnnualRecurring.IsZero())
	assert.True(t, result.TotalContractValue.IsZero())
	assert.Len(t, result.FeatureLines, 3)
	assert.Len(t, result.UsageLines, 2)
}

func TestCalculateStaticQuote_DiscountAppliesToFeaturesOnly(t *testing.T) {
	ctx := QuoteContext{
		FeatureQuantities:     map[string]float64{"meeting_intelligence": 10},
		UsageQuantities:       map[string]float64{"processing_hours": 30},
		TermKey:               "1_year",
		BillingKey:            "annual",
		AdditionalDiscountPct: decimal.NewFromInt(10),
	}

	result := CalculateStaticQuote(ctx, testCatalog())

	// 49 * 10 = 490 before discount; ratio 0.05 + 0.05 + 0.10 = 0.20.
	assert.True(t, result.FeatureMonthlyCost.Equal(decimal.NewFromInt(490)))
	assert.True(t, result.DiscountRatio.Equal(decimal.NewFromFloat(0.20)))
	assert.True(t, result.DiscountedFeatures.Equal(decimal.NewFromInt(392)))

	// 30 processing hours in the 25-100 band: 30 * 5 = 150, undiscounted.
	assert.True(t, result.UsageMonthlyCost.Equal(decimal.NewFromInt(150)))

	assert.True(t, result.MonthlyRecurring.Equal(decimal.NewFromInt(542)))
	assert.True(t, result.AnnualRecurring.Equal(decimal.NewFromInt(6504)))
}

func TestCalculateStaticQuote_TCVFormula(t *testing.T) {
	ctx := QuoteContext{
		FeatureQuantities: map[string]float64{"content_studio": 5},
		TermKey:           "2_year",
		BillingKey:        "annual",
		ServiceID:         "onboarding",
	}

	result := CalculateStaticQuote(ctx, testCatalog())

	assert.Equal(t, 24, result.TermMonths)
	assert.True(t, result.ServicesCost.Equal(decimal.NewFromInt(2500)))

	want := result.MonthlyRecurring.Mul(decimal.NewFromInt(24)).Add(result.ServicesCost)
	assert.True(t, result.TotalContractValue.Equal(want))
}

func TestCalculateStaticQuote_PerUnitService(t *testing.T) {
	ctx := QuoteContext{
		TermKey:         "monthly",
		ServiceID:       "workshop",
		ServiceQuantity: 3,
	}

	result := CalculateStaticQuote(ctx, testCatalog())
	assert.True(t, result.ServicesCost.Equal(decimal.NewFromInt(2400)))
	assert.True(t, result.TotalContractValue.Equal(decimal.NewFromInt(2400)))
}

func TestCalculateStaticQuote_UnknownServiceCostsNothing(t *testing.T) {
	ctx := QuoteContext{TermKey: "1_year", ServiceID: "does_not_exist"}

	result := CalculateStaticQuote(ctx, testCatalog())
	assert.True(t, result.ServicesCost.IsZero())
}

func TestCalculateStaticQuote_MissingQuantitiesDefaultToZero(t *testing.T) {
	ctx := QuoteContext{
		FeatureQuantities: map[string]float64{"crm_sync": 2},
		TermKey:           "monthly",
	}

	result := CalculateStaticQuote(ctx, testCatalog())
	assert.True(t, result.FeatureMonthlyCost.Equal(decimal.NewFromInt(50)))
	for _, line := range result.UsageLines {
		assert.True(t, line.MonthlyCost.IsZero())
	}
}
