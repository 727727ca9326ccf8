// Package pricing holds the deterministic quote arithmetic: tier resolution,
// discount stacking, and the static and template-driven calculators. Everything
// here is a pure function over in-memory data; persistence belongs to callers.
package pricing

import "github.com/shopspring/decimal"

// Tier is a usage-quantity band with its own unit rate. Tiers for a dimension
// must be supplied contiguous, non-overlapping, and sorted ascending by
// MinQuantity; a nil MaxQuantity means the band is unbounded.
type Tier struct {
	MinQuantity float64         `json:"min_quantity"`
	MaxQuantity *float64        `json:"max_quantity,omitempty"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
}

// Feature is a catalog entry billed monthly per selected quantity.
type Feature struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	MonthlyUnitPrice decimal.Decimal `json:"monthly_unit_price"`
}

// Service is a one-time charge, optionally quantity-scaled.
type Service struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	DurationLabel string          `json:"duration_label"`
	PerUnit       bool            `json:"per_unit"`
}

// UsageDimension is a tier-priced usage line of the static catalog.
type UsageDimension struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Tiers []Tier `json:"tiers"`
}

// Catalog is the fixed pricing configuration the static calculator runs over.
type Catalog struct {
	Features         []Feature                  `json:"features"`
	Services         []Service                  `json:"services"`
	UsageDimensions  []UsageDimension           `json:"usage_dimensions"`
	TermDiscounts    map[string]decimal.Decimal `json:"term_discounts"`
	BillingDiscounts map[string]decimal.Decimal `json:"billing_discounts"`
	TermOverrides    map[string]int             `json:"term_overrides,omitempty"`
}

// QuoteContext carries the commercial selections for one quote computation.
type QuoteContext struct {
	FeatureQuantities     map[string]float64 `json:"feature_quantities"`
	UsageQuantities       map[string]float64 `json:"usage_quantities"`
	TermKey               string             `json:"term"`
	BillingKey            string             `json:"billing_frequency"`
	AdditionalDiscountPct decimal.Decimal    `json:"additional_discount_pct"`
	ServiceID             string             `json:"service_id,omitempty"`
	ServiceQuantity       float64            `json:"service_quantity,omitempty"`
}

// FeatureLine is one priced feature row of a static quote.
type FeatureLine struct {
	FeatureID   string          `json:"feature_id"`
	Name        string          `json:"name"`
	Quantity    float64         `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	MonthlyCost decimal.Decimal `json:"monthly_cost"`
}

// UsageLine is one tier-priced usage row of a static quote.
type UsageLine struct {
	Dimension   string          `json:"dimension"`
	Quantity    float64         `json:"quantity"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	MonthlyCost decimal.Decimal `json:"monthly_cost"`
}

// QuoteResult is the static calculator output. MRR excludes one-time costs;
// TCV = MRR x TermMonths + ServicesCost.
type QuoteResult struct {
	FeatureLines        []FeatureLine   `json:"feature_lines"`
	UsageLines          []UsageLine     `json:"usage_lines"`
	FeatureMonthlyCost  decimal.Decimal `json:"feature_monthly_cost"`
	DiscountRatio       decimal.Decimal `json:"discount_ratio"`
	DiscountedFeatures  decimal.Decimal `json:"discounted_feature_cost"`
	UsageMonthlyCost    decimal.Decimal `json:"usage_monthly_cost"`
	ServicesCost        decimal.Decimal `json:"services_cost"`
	TermMonths          int             `json:"term_months"`
	MonthlyRecurring    decimal.Decimal `json:"mrr"`
	AnnualRecurring     decimal.Decimal `json:"arr"`
	TotalContractValue  decimal.Decimal `json:"tcv"`
}

// SectionType tags a template section's pricing behavior.
type SectionType string

const (
	SectionPerSeat SectionType = "per_seat"
	SectionTiered  SectionType = "tiered"
	SectionOneTime SectionType = "one_time"
)

// SectionProduct is one sellable row inside a template section. The pricing
// field that applies depends on the owning section's type.
type SectionProduct struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	MonthlyUnitPrice decimal.Decimal `json:"monthly_unit_price"`
	FlatPrice        decimal.Decimal `json:"flat_price"`
	Tiers            []Tier          `json:"tiers,omitempty"`
}

// TemplateSection is an ordered pricing bucket with its own discount
// eligibility.
type TemplateSection struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Type               SectionType      `json:"type"`
	DiscountApplicable bool             `json:"discount_applicable"`
	Products           []SectionProduct `json:"products"`
}

// Template owns the ordered sections of a dynamic quote.
type Template struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Sections []TemplateSection `json:"sections"`
}

// DynamicLine keeps per-product detail so callers can render an itemized
// breakdown; downstream document generation depends on it.
type DynamicLine struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    float64         `json:"quantity"`
	MonthlyCost decimal.Decimal `json:"monthly_cost"`
	OneTimeCost decimal.Decimal `json:"one_time_cost"`
}

// SectionResult is one computed section of a dynamic quote.
type SectionResult struct {
	SectionID             string          `json:"section_id"`
	Name                  string          `json:"name"`
	Type                  SectionType     `json:"type"`
	DiscountApplicable    bool            `json:"discount_applicable"`
	MonthlyCost           decimal.Decimal `json:"monthly_cost"`
	DiscountedMonthlyCost decimal.Decimal `json:"discounted_monthly_cost"`
	OneTimeCost           decimal.Decimal `json:"one_time_cost"`
	Lines                 []DynamicLine   `json:"lines"`
}

// DynamicQuoteResult is the template calculator output.
type DynamicQuoteResult struct {
	Sections           []SectionResult `json:"sections"`
	DiscountRatio      decimal.Decimal `json:"discount_ratio"`
	TermMonths         int             `json:"term_months"`
	OneTimeTotal       decimal.Decimal `json:"one_time_total"`
	MonthlyRecurring   decimal.Decimal `json:"mrr"`
	AnnualRecurring    decimal.Decimal `json:"arr"`
	TotalContractValue decimal.Decimal `json:"tcv"`
}
