package migration

import (
	analyticsdomain "github.com/cirrusops/revenue/internal/analytics/domain"
	approvaldomain "github.com/cirrusops/revenue/internal/approval/domain"
	catalogdomain "github.com/cirrusops/revenue/internal/catalog/domain"
	"github.com/cirrusops/revenue/internal/config"
	movementdomain "github.com/cirrusops/revenue/internal/movement/domain"
	quotedomain "github.com/cirrusops/revenue/internal/quote/domain"
	"github.com/cirrusops/revenue/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite deployments build the schema from the models.
			if err := conn.AutoMigrate(
				&approvaldomain.ApprovalRule{},
				&analyticsdomain.Opportunity{},
				&analyticsdomain.StageWeight{},
				&catalogdomain.CatalogFeature{},
				&catalogdomain.CatalogService{},
				&catalogdomain.UsageDimension{},
				&catalogdomain.UsageTier{},
				&catalogdomain.DiscountRate{},
				&catalogdomain.TermOverride{},
				&catalogdomain.QuoteTemplate{},
				&catalogdomain.TemplateSection{},
				&catalogdomain.SectionProduct{},
				&catalogdomain.ProductTier{},
				&movementdomain.RevenueSnapshot{},
				&movementdomain.AccountBalance{},
				&quotedomain.SalesQuote{},
				&quotedomain.SalesQuoteItem{},
				&quotedomain.Order{},
			); err != nil {
				return err
			}
		}

		if cfg.DefaultOrgID != 0 {
			return seed.EnsureDefaultCatalog(conn, cfg.DefaultOrgID)
		}
		return nil
	}),
)
