// Package seed bootstraps the default organization's pricing catalog so a
// fresh install can compute quotes immediately.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/cirrusops/revenue/internal/catalog/domain"
	"github.com/cirrusops/revenue/internal/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func f(v float64) *float64 { return &v }

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// EnsureDefaultCatalog seeds the fixed static catalog for the given
// organization. Safe to call on every startup: existing rows are left alone.
func EnsureDefaultCatalog(db *gorm.DB, orgID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	org := snowflake.ParseInt64(orgID)

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureFeatures(tx, node, org); err != nil {
			return err
		}
		if err := ensureServices(tx, node, org); err != nil {
			return err
		}
		if err := ensureUsageDimensions(tx, node, org); err != nil {
			return err
		}
		return ensureDiscounts(tx, node, org)
	})
}

func ensureFeatures(tx *gorm.DB, node *snowflake.Node, org snowflake.ID) error {
	features := []catalogdomain.CatalogFeature{
		{Key: "meeting_intelligence", Name: "Meeting Intelligence", MonthlyUnitPrice: d("49"), Position: 0},
		{Key: "content_studio", Name: "Content Studio", MonthlyUnitPrice: d("79"), Position: 1},
		{Key: "crm_sync", Name: "CRM Sync", MonthlyUnitPrice: d("25"), Position: 2},
	}
	for _, feature := range features {
		exists, err := rowExists(tx, &catalogdomain.CatalogFeature{}, org, feature.Key)
		if err != nil || exists {
			if err != nil {
				return err
			}
			continue
		}
		feature.ID = node.Generate()
		feature.OrgID = org
		feature.Active = true
		if err := tx.Create(&feature).Error; err != nil {
			return err
		}
	}
	return nil
}

func rowExists(tx *gorm.DB, model interface{}, org snowflake.ID, key string) (bool, error) {
	var count int64
	err := tx.Model(model).Where("org_id = ? AND key = ?", org, key).Count(&count).Error
	return count > 0, err
}

func ensureServices(tx *gorm.DB, node *snowflake.Node, org snowflake.ID) error {
	services := []catalogdomain.CatalogService{
		{Key: "onboarding", Name: "Guided Onboarding", Price: d("2500"), DurationLabel: "one-time", Position: 0},
		{Key: "workshop", Name: "Enablement Workshop", Price: d("800"), DurationLabel: "per session", PerUnit: true, Position: 1},
	}
	for _, service := range services {
		exists, err := rowExists(tx, &catalogdomain.CatalogService{}, org, service.Key)
		if err != nil || exists {
			if err != nil {
				return err
			}
			continue
		}
		service.ID = node.Generate()
		service.OrgID = org
		service.Active = true
		if err := tx.Create(&service).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureUsageDimensions(tx *gorm.DB, node *snowflake.Node, org snowflake.ID) error {
	dimensions := []struct {
		key   string
		name  string
		tiers []pricing.Tier
	}{
		{
			key:  "processing_hours",
			name: "Intensive Processing Hours",
			tiers: []pricing.Tier{
				{MinQuantity: 0, MaxQuantity: f(24), UnitRate: d("6.00")},
				{MinQuantity: 25, MaxQuantity: f(100), UnitRate: d("5.00")},
				{MinQuantity: 101, UnitRate: d("4.00")},
			},
		},
		{
			key:  "live_assist_hours",
			name: "Live Assist Hours",
			tiers: []pricing.Tier{
				{MinQuantity: 0, MaxQuantity: f(50), UnitRate: d("3.50")},
				{MinQuantity: 51, UnitRate: d("2.75")},
			},
		},
	}

	for position, dim := range dimensions {
		var existing catalogdomain.UsageDimension
		err := tx.Where("org_id = ? AND key = ?", org, dim.key).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		row := catalogdomain.UsageDimension{
			ID:       node.Generate(),
			OrgID:    org,
			Key:      dim.key,
			Name:     dim.name,
			Position: position,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for i, tier := range dim.tiers {
			err := tx.Create(&catalogdomain.UsageTier{
				ID:          node.Generate(),
				DimensionID: row.ID,
				MinQuantity: tier.MinQuantity,
				MaxQuantity: tier.MaxQuantity,
				UnitRate:    tier.UnitRate,
				Position:    i,
			}).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureDiscounts(tx *gorm.DB, node *snowflake.Node, org snowflake.ID) error {
	rates := []catalogdomain.DiscountRate{
		{Kind: catalogdomain.DiscountTerm, Key: "1_year", Ratio: d("0.05")},
		{Kind: catalogdomain.DiscountTerm, Key: "2_year", Ratio: d("0.10")},
		{Kind: catalogdomain.DiscountTerm, Key: "3_year", Ratio: d("0.15")},
		{Kind: catalogdomain.DiscountBilling, Key: "annual", Ratio: d("0.05")},
		{Kind: catalogdomain.DiscountBilling, Key: "quarterly", Ratio: d("0.02")},
	}
	for _, rate := range rates {
		var count int64
		err := tx.Model(&catalogdomain.DiscountRate{}).
			Where("org_id = ? AND kind = ? AND key = ?", org, rate.Kind, rate.Key).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		rate.ID = node.Generate()
		rate.OrgID = org
		if err := tx.Create(&rate).Error; err != nil {
			return err
		}
	}
	return nil
}
