package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/analytics/domain"
	movementdomain "github.com/cirrusops/revenue/internal/movement/domain"
	movementservice "github.com/cirrusops/revenue/internal/movement/service"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Opportunity{},
		&domain.StageWeight{},
		&movementdomain.RevenueSnapshot{},
		&movementdomain.AccountBalance{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	movementSvc := movementservice.New(movementservice.Param{DB: db, Log: log, GenID: node})
	svc := New(Param{DB: db, Log: log, MovementSvc: movementSvc})
	return svc, db, node
}

func TestForecast(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()
	org := snowflake.ParseInt64(42)

	require.NoError(t, db.Create(&domain.StageWeight{
		ID: node.Generate(), OrgID: org, Stage: "proposal", Weight: decimal.RequireFromString("0.40"),
	}).Error)

	require.NoError(t, db.Create(&domain.Opportunity{
		ID:        node.Generate(),
		OrgID:     org,
		AccountID: snowflake.ParseInt64(7),
		Name:      "Acme rollout",
		Stage:     "proposal",
		Amount:    decimal.NewFromInt(20000),
		Status:    domain.OpportunityOpen,
		Metadata:  []byte(`{"source":"partner"}`),
	}).Error)
	require.NoError(t, db.Create(&domain.Opportunity{
		ID:        node.Generate(),
		OrgID:     org,
		AccountID: snowflake.ParseInt64(8),
		Name:      "Globex won",
		Stage:     "proposal",
		Amount:    decimal.NewFromInt(99999),
		Status:    domain.OpportunityWon,
	}).Error)

	resp, err := svc.Forecast(ctx, "42")
	require.NoError(t, err)

	assert.Equal(t, 1, resp.OpenCount)
	assert.True(t, resp.WeightedPipeline.Equal(decimal.NewFromInt(8000)), "got %s", resp.WeightedPipeline)
	assert.True(t, resp.ByStage["proposal"].Equal(decimal.NewFromInt(20000)))

	require.Len(t, resp.Deals, 1)
	assert.Equal(t, "Acme rollout", resp.Deals[0].Name)
	assert.True(t, resp.Deals[0].WeightedAmount.Equal(decimal.NewFromInt(8000)))
	assert.JSONEq(t, `{"source":"partner"}`, string(resp.Deals[0].Metadata))
}

func TestForecast_InvalidOrganization(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Forecast(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}
