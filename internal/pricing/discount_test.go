package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testDiscountTables() (map[string]decimal.Decimal, map[string]decimal.Decimal) {
	term := map[string]decimal.Decimal{
		"1_year": decimal.NewFromFloat(0.05),
		"2_year": decimal.NewFromFloat(0.10),
		"3_year": decimal.NewFromFloat(0.15),
	}
	billing := map[string]decimal.Decimal{
		"annual":    decimal.NewFromFloat(0.05),
		"quarterly": decimal.NewFromFloat(0.02),
	}
	return term, billing
}

func TestCombinedDiscount_Additivity(t *testing.T) {
	term, billing := testDiscountTables()

	ratio := CombinedDiscount("1_year", "annual", decimal.NewFromInt(10), term, billing)

	want := term["1_year"].Add(billing["annual"]).Add(decimal.NewFromFloat(0.10))
	assert.True(t, ratio.Equal(want), "got %s want %s", ratio, want)
}

func TestCombinedDiscount_UnknownKeysResolveToZero(t *testing.T) {
	term, billing := testDiscountTables()

	ratio := CombinedDiscount("6_month", "weekly", decimal.Zero, term, billing)
	assert.True(t, ratio.IsZero())

	ratio = CombinedDiscount("", "", decimal.NewFromInt(25), nil, nil)
	assert.True(t, ratio.Equal(decimal.NewFromFloat(0.25)))
}

func TestCombinedDiscount_ClampedToOne(t *testing.T) {
	term, billing := testDiscountTables()

	ratio := CombinedDiscount("3_year", "annual", decimal.NewFromInt(95), term, billing)
	assert.True(t, ratio.Equal(decimal.NewFromInt(1)), "stacked discount must clamp at 100%%, got %s", ratio)
}

func TestCombinedDiscount_NegativeAdditionalClampsAtZero(t *testing.T) {
	ratio := CombinedDiscount("", "", decimal.NewFromInt(-40), nil, nil)
	assert.True(t, ratio.IsZero())
}

func TestTermMonths(t *testing.T) {
	assert.Equal(t, 1, TermMonths("monthly", nil))
	assert.Equal(t, 3, TermMonths("quarterly", nil))
	assert.Equal(t, 12, TermMonths("1_year", nil))
	assert.Equal(t, 24, TermMonths("2_year", nil))
	assert.Equal(t, 36, TermMonths("3_year", nil))
	assert.Equal(t, 12, TermMonths("unknown", nil))

	overrides := map[string]int{"2_year": 26}
	assert.Equal(t, 26, TermMonths("2_year", overrides))
}
