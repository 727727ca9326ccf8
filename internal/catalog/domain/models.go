// Package domain defines the persisted catalog rows that the quote engine
// snapshots into its in-memory pricing configuration.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/pricing"
	"github.com/shopspring/decimal"
)

// CatalogFeature is a monthly per-unit feature row.
type CatalogFeature struct {
	ID               snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID            snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:ux_catalog_features_org_key,priority:1"`
	Key              string          `json:"key" gorm:"type:text;not null;uniqueIndex:ux_catalog_features_org_key,priority:2"`
	Name             string          `json:"name" gorm:"type:text;not null"`
	MonthlyUnitPrice decimal.Decimal `json:"monthly_unit_price" gorm:"type:numeric;not null"`
	Position         int             `json:"position" gorm:"not null;default:0"`
	Active           bool            `json:"active" gorm:"not null"`
	CreatedAt        time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CatalogFeature) TableName() string { return "catalog_features" }

// CatalogService is a one-time professional service row.
type CatalogService struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID         snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:ux_catalog_services_org_key,priority:1"`
	Key           string          `json:"key" gorm:"type:text;not null;uniqueIndex:ux_catalog_services_org_key,priority:2"`
	Name          string          `json:"name" gorm:"type:text;not null"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric;not null"`
	DurationLabel string          `json:"duration_label" gorm:"type:text"`
	PerUnit       bool            `json:"per_unit" gorm:"not null"`
	Position      int             `json:"position" gorm:"not null;default:0"`
	Active        bool            `json:"active" gorm:"not null"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CatalogService) TableName() string { return "catalog_services" }

// UsageDimension is a tier-priced usage line; its bands live in UsageTier.
type UsageDimension struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	OrgID     snowflake.ID `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:ux_usage_dimensions_org_key,priority:1"`
	Key       string       `json:"key" gorm:"type:text;not null;uniqueIndex:ux_usage_dimensions_org_key,priority:2"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Position  int          `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (UsageDimension) TableName() string { return "usage_dimensions" }

// UsageTier is one quantity band of a usage dimension. Bands are kept
// contiguous and ordered by position.
type UsageTier struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	DimensionID snowflake.ID    `json:"dimension_id" gorm:"column:dimension_id;not null;index"`
	MinQuantity float64         `json:"min_quantity" gorm:"not null"`
	MaxQuantity *float64        `json:"max_quantity,omitempty"`
	UnitRate    decimal.Decimal `json:"unit_rate" gorm:"type:numeric;not null"`
	Position    int             `json:"position" gorm:"not null;default:0"`
}

func (UsageTier) TableName() string { return "usage_tiers" }

// DiscountKind splits the two independent discount tables.
type DiscountKind string

const (
	DiscountTerm    DiscountKind = "term"
	DiscountBilling DiscountKind = "billing"
)

// DiscountRate is one (kind, key) -> ratio entry, e.g. ("term", "2_year") -> 0.10.
type DiscountRate struct {
	ID    snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:ux_discount_rates_org_kind_key,priority:1"`
	Kind  DiscountKind    `json:"kind" gorm:"type:text;not null;uniqueIndex:ux_discount_rates_org_kind_key,priority:2"`
	Key   string          `json:"key" gorm:"type:text;not null;uniqueIndex:ux_discount_rates_org_kind_key,priority:3"`
	Ratio decimal.Decimal `json:"ratio" gorm:"type:numeric;not null"`
}

func (DiscountRate) TableName() string { return "discount_rates" }

// TermOverride maps a term key to a month count when it deviates from the
// built-in table.
type TermOverride struct {
	ID     snowflake.ID `json:"id" gorm:"primaryKey"`
	OrgID  snowflake.ID `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:ux_term_overrides_org_key,priority:1"`
	Key    string       `json:"key" gorm:"type:text;not null;uniqueIndex:ux_term_overrides_org_key,priority:2"`
	Months int          `json:"months" gorm:"not null"`
}

func (TermOverride) TableName() string { return "term_overrides" }

// QuoteTemplate is the root of a configurable section layout.
type QuoteTemplate struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	OrgID     snowflake.ID `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:ux_quote_templates_org_key,priority:1"`
	Key       string       `json:"key" gorm:"type:text;not null;uniqueIndex:ux_quote_templates_org_key,priority:2"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Active    bool         `json:"active" gorm:"not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (QuoteTemplate) TableName() string { return "quote_templates" }

// TemplateSection is one ordered pricing bucket of a template.
type TemplateSection struct {
	ID                 snowflake.ID        `json:"id" gorm:"primaryKey"`
	TemplateID         snowflake.ID        `json:"template_id" gorm:"column:template_id;not null;index"`
	Key                string              `json:"key" gorm:"type:text;not null"`
	Name               string              `json:"name" gorm:"type:text;not null"`
	Type               pricing.SectionType `json:"type" gorm:"type:text;not null"`
	DiscountApplicable bool                `json:"discount_applicable" gorm:"not null"`
	Position           int                 `json:"position" gorm:"not null;default:0"`
}

func (TemplateSection) TableName() string { return "template_sections" }

// SectionProduct is one sellable row of a section. Which price field applies
// depends on the section type.
type SectionProduct struct {
	ID               snowflake.ID    `json:"id" gorm:"primaryKey"`
	SectionID        snowflake.ID    `json:"section_id" gorm:"column:section_id;not null;index"`
	Key              string          `json:"key" gorm:"type:text;not null"`
	Name             string          `json:"name" gorm:"type:text;not null"`
	MonthlyUnitPrice decimal.Decimal `json:"monthly_unit_price" gorm:"type:numeric;not null;default:0"`
	FlatPrice        decimal.Decimal `json:"flat_price" gorm:"type:numeric;not null;default:0"`
	Position         int             `json:"position" gorm:"not null;default:0"`
}

func (SectionProduct) TableName() string { return "section_products" }

// ProductTier is one quantity band of a tiered section product.
type ProductTier struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	ProductID   snowflake.ID    `json:"product_id" gorm:"column:product_id;not null;index"`
	MinQuantity float64         `json:"min_quantity" gorm:"not null"`
	MaxQuantity *float64        `json:"max_quantity,omitempty"`
	UnitRate    decimal.Decimal `json:"unit_rate" gorm:"type:numeric;not null"`
	Position    int             `json:"position" gorm:"not null;default:0"`
}

func (ProductTier) TableName() string { return "product_tiers" }
