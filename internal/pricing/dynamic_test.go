package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplate() Template {
	return Template{
		ID:   "tpl_enterprise",
		Name: "Enterprise",
		Sections: []TemplateSection{
			{
				ID:                 "sec_seats",
				Name:               "Platform Seats",
				Type:               SectionPerSeat,
				DiscountApplicable: true,
				Products: []SectionProduct{
					{ID: "seat_full", Name: "Full Seat", MonthlyUnitPrice: decimal.NewFromInt(99)},
					{ID: "seat_viewer", Name: "Viewer Seat", MonthlyUnitPrice: decimal.NewFromInt(19)},
				},
			},
			{
				ID:                 "sec_usage",
				Name:               "Processing",
				Type:               SectionTiered,
				DiscountApplicable: false,
				Products: []SectionProduct{
					{ID: "proc_hours", Name: "Processing Hours", Tiers: meetingIntelligenceTiers()},
				},
			},
			{
				ID:   "sec_services",
				Name: "Services",
				Type: SectionOneTime,
				Products: []SectionProduct{
					{ID: "impl", Name: "Implementation", FlatPrice: decimal.NewFromInt(5000)},
				},
			},
		},
	}
}

func TestCalculateDynamicQuote_DiscountEligibilityIsolation(t *testing.T) {
	quantities := map[string]float64{
		"seat_full":  10,
		"proc_hours": 40,
	}
	ctx := QuoteContext{TermKey: "1_year", AdditionalDiscountPct: decimal.NewFromInt(25)}

	result := CalculateDynamicQuote(testTemplate(), quantities, ctx)
	require.Len(t, result.Sections, 3)

	seats := result.Sections[0]
	usage := result.Sections[1]

	// Seats: 10 * 99 = 990, discounted by 25%.
	assert.True(t, seats.MonthlyCost.Equal(decimal.NewFromInt(990)))
	assert.True(t, seats.DiscountedMonthlyCost.Equal(decimal.NewFromFloat(742.5)))

	// Usage section is not discount-applicable: discounted == raw.
	assert.True(t, usage.MonthlyCost.Equal(decimal.NewFromInt(200)))
	assert.True(t, usage.DiscountedMonthlyCost.Equal(usage.MonthlyCost))
}

func TestCalculateDynamicQuote_OneTimeNeverDiscounted(t *testing.T) {
	quantities := map[string]float64{"impl": 1}
	ctx := QuoteContext{TermKey: "1_year", AdditionalDiscountPct: decimal.NewFromInt(50)}

	result := CalculateDynamicQuote(testTemplate(), quantities, ctx)

	services := result.Sections[2]
	assert.True(t, services.OneTimeCost.Equal(decimal.NewFromInt(5000)))
	assert.True(t, services.MonthlyCost.IsZero())
	assert.True(t, result.OneTimeTotal.Equal(decimal.NewFromInt(5000)))
	assert.True(t, result.MonthlyRecurring.IsZero())
}

func TestCalculateDynamicQuote_TCVFormulaWithOneTime(t *testing.T) {
	quantities := map[string]float64{
		"seat_full": 4,
		"impl":      1,
	}
	ctx := QuoteContext{TermKey: "2_year"}

	result := CalculateDynamicQuote(testTemplate(), quantities, ctx)

	assert.Equal(t, 24, result.TermMonths)
	want := result.MonthlyRecurring.Mul(decimal.NewFromInt(24)).Add(result.OneTimeTotal)
	assert.True(t, result.TotalContractValue.Equal(want))
	assert.True(t, result.AnnualRecurring.Equal(result.MonthlyRecurring.Mul(decimal.NewFromInt(12))))
}

func TestCalculateDynamicQuote_LineDetailRetained(t *testing.T) {
	quantities := map[string]float64{
		"seat_full":   3,
		"seat_viewer": 7,
	}

	result := CalculateDynamicQuote(testTemplate(), quantities, QuoteContext{TermKey: "monthly"})

	require.Len(t, result.Sections[0].Lines, 2)
	full := result.Sections[0].Lines[0]
	assert.Equal(t, "seat_full", full.ProductID)
	assert.Equal(t, 3.0, full.Quantity)
	assert.True(t, full.UnitPrice.Equal(decimal.NewFromInt(99)))
	assert.True(t, full.MonthlyCost.Equal(decimal.NewFromInt(297)))

	viewer := result.Sections[0].Lines[1]
	assert.True(t, viewer.MonthlyCost.Equal(decimal.NewFromInt(133)))
}

func TestCalculateDynamicQuote_WithCatalogDiscountTables(t *testing.T) {
	quantities := map[string]float64{"seat_full": 10}
	ctx := QuoteContext{TermKey: "1_year", BillingKey: "annual"}

	result := CalculateDynamicQuoteWithCatalog(testTemplate(), quantities, ctx, testCatalog())

	// 0.05 term + 0.05 billing from the catalog tables.
	assert.True(t, result.DiscountRatio.Equal(decimal.NewFromFloat(0.10)))
	assert.True(t, result.Sections[0].DiscountedMonthlyCost.Equal(decimal.NewFromInt(891)))
}
