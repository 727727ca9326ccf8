package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/catalog/domain"
	"github.com/cirrusops/revenue/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

type Param struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func New(p Param) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("catalog.service"),
	}
}

func (s *Service) Snapshot(ctx context.Context, orgID snowflake.ID) (*pricing.Catalog, error) {
	catalog := &pricing.Catalog{
		TermDiscounts:    map[string]decimal.Decimal{},
		BillingDiscounts: map[string]decimal.Decimal{},
	}

	var features []domain.CatalogFeature
	if err := s.db.WithContext(ctx).
		Where("org_id = ? AND active = ?", orgID, true).
		Order("position ASC").
		Find(&features).Error; err != nil {
		return nil, err
	}
	for _, row := range features {
		catalog.Features = append(catalog.Features, pricing.Feature{
			ID:               row.Key,
			Name:             row.Name,
			MonthlyUnitPrice: row.MonthlyUnitPrice,
		})
	}

	var services []domain.CatalogService
	if err := s.db.WithContext(ctx).
		Where("org_id = ? AND active = ?", orgID, true).
		Order("position ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	for _, row := range services {
		catalog.Services = append(catalog.Services, pricing.Service{
			ID:            row.Key,
			Name:          row.Name,
			Price:         row.Price,
			DurationLabel: row.DurationLabel,
			PerUnit:       row.PerUnit,
		})
	}

	dimensions, err := s.loadUsageDimensions(ctx, orgID)
	if err != nil {
		return nil, err
	}
	catalog.UsageDimensions = dimensions

	var rates []domain.DiscountRate
	if err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Find(&rates).Error; err != nil {
		return nil, err
	}
	for _, rate := range rates {
		switch rate.Kind {
		case domain.DiscountTerm:
			catalog.TermDiscounts[rate.Key] = rate.Ratio
		case domain.DiscountBilling:
			catalog.BillingDiscounts[rate.Key] = rate.Ratio
		}
	}

	var overrides []domain.TermOverride
	if err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Find(&overrides).Error; err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		catalog.TermOverrides = make(map[string]int, len(overrides))
		for _, override := range overrides {
			catalog.TermOverrides[override.Key] = override.Months
		}
	}

	return catalog, nil
}

func (s *Service) loadUsageDimensions(ctx context.Context, orgID snowflake.ID) ([]pricing.UsageDimension, error) {
	var rows []domain.UsageDimension
	if err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]snowflake.ID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var tierRows []domain.UsageTier
	if err := s.db.WithContext(ctx).
		Where("dimension_id IN ?", ids).
		Order("position ASC").
		Find(&tierRows).Error; err != nil {
		return nil, err
	}
	tiersByDimension := make(map[snowflake.ID][]pricing.Tier, len(rows))
	for _, tier := range tierRows {
		tiersByDimension[tier.DimensionID] = append(tiersByDimension[tier.DimensionID], pricing.Tier{
			MinQuantity: tier.MinQuantity,
			MaxQuantity: tier.MaxQuantity,
			UnitRate:    tier.UnitRate,
		})
	}

	dimensions := make([]pricing.UsageDimension, 0, len(rows))
	for _, row := range rows {
		dimensions = append(dimensions, pricing.UsageDimension{
			Key:   row.Key,
			Name:  row.Name,
			Tiers: tiersByDimension[row.ID],
		})
	}
	return dimensions, nil
}

func (s *Service) Template(ctx context.Context, orgID snowflake.ID, key string) (*pricing.Template, error) {
	var template domain.QuoteTemplate
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND key = ? AND active = ?", orgID, key, true).
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}

	var sectionRows []domain.TemplateSection
	if err := s.db.WithContext(ctx).
		Where("template_id = ?", template.ID).
		Order("position ASC").
		Find(&sectionRows).Error; err != nil {
		return nil, err
	}

	out := &pricing.Template{ID: template.Key, Name: template.Name}
	for _, section := range sectionRows {
		products, err := s.loadSectionProducts(ctx, section)
		if err != nil {
			return nil, err
		}
		out.Sections = append(out.Sections, pricing.TemplateSection{
			ID:                 section.Key,
			Name:               section.Name,
			Type:               section.Type,
			DiscountApplicable: section.DiscountApplicable,
			Products:           products,
		})
	}
	return out, nil
}

func (s *Service) loadSectionProducts(ctx context.Context, section domain.TemplateSection) ([]pricing.SectionProduct, error) {
	var rows []domain.SectionProduct
	if err := s.db.WithContext(ctx).
		Where("section_id = ?", section.ID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	products := make([]pricing.SectionProduct, 0, len(rows))
	for _, row := range rows {
		product := pricing.SectionProduct{
			ID:               row.Key,
			Name:             row.Name,
			MonthlyUnitPrice: row.MonthlyUnitPrice,
			FlatPrice:        row.FlatPrice,
		}
		if section.Type == pricing.SectionTiered {
			var tierRows []domain.ProductTier
			if err := s.db.WithContext(ctx).
				Where("product_id = ?", row.ID).
				Order("position ASC").
				Find(&tierRows).Error; err != nil {
				return nil, err
			}
			for _, tier := range tierRows {
				product.Tiers = append(product.Tiers, pricing.Tier{
					MinQuantity: tier.MinQuantity,
					MaxQuantity: tier.MaxQuantity,
					UnitRate:    tier.UnitRate,
				})
			}
		}
		products = append(products, product)
	}
	return products, nil
}

func (s *Service) ListTemplates(ctx context.Context, orgID snowflake.ID) ([]domain.QuoteTemplate, error) {
	var rows []domain.QuoteTemplate
	if err := s.db.WithContext(ctx).
		Where("org_id = ? AND active = ?", orgID, true).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
