package seed

import (
	"testing"

	catalogdomain "github.com/cirrusops/revenue/internal/catalog/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.CatalogFeature{},
		&catalogdomain.CatalogService{},
		&catalogdomain.UsageDimension{},
		&catalogdomain.UsageTier{},
		&catalogdomain.DiscountRate{},
	))
	return db
}

func TestEnsureDefaultCatalog_IsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, EnsureDefaultCatalog(db, 42))
	require.NoError(t, EnsureDefaultCatalog(db, 42))

	var features, services, dimensions, tiers, rates int64
	require.NoError(t, db.Model(&catalogdomain.CatalogFeature{}).Count(&features).Error)
	require.NoError(t, db.Model(&catalogdomain.CatalogService{}).Count(&services).Error)
	require.NoError(t, db.Model(&catalogdomain.UsageDimension{}).Count(&dimensions).Error)
	require.NoError(t, db.Model(&catalogdomain.UsageTier{}).Count(&tiers).Error)
	require.NoError(t, db.Model(&catalogdomain.DiscountRate{}).Count(&rates).Error)

	assert.EqualValues(t, 3, features)
	assert.EqualValues(t, 2, services)
	assert.EqualValues(t, 2, dimensions)
	assert.EqualValues(t, 5, tiers)
	assert.EqualValues(t, 5, rates)
}

func TestEnsureDefaultCatalog_SeparateOrgs(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, EnsureDefaultCatalog(db, 1))
	require.NoError(t, EnsureDefaultCatalog(db, 2))

	var features int64
	require.NoError(t, db.Model(&catalogdomain.CatalogFeature{}).Count(&features).Error)
	assert.EqualValues(t, 6, features)
}
