package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/movement/domain"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&domain.RevenueSnapshot{}, &domain.AccountBalance{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Param{DB: db, Log: zap.NewNop(), GenID: node}).(*Service)
	return svc, db, node
}

func seedBalance(t *testing.T, db *gorm.DB, node *snowflake.Node, orgID, accountID snowflake.ID, mrr int64, asOf time.Time) {
	t.Helper()
	err := db.Create(&domain.AccountBalance{
		ID:        node.Generate(),
		OrgID:     orgID,
		AccountID: accountID,
		MRR:       decimal.NewFromInt(mrr),
		AsOf:      asOf,
	}).Error
	require.NoError(t, err)
}

func TestRunBatch_ClassifiesMovements(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	orgID := node.Generate()
	newAccount := node.Generate()
	growing := node.Generate()
	shrinking := node.Generate()
	flat := node.Generate()
	reactivated := node.Generate()
	churning := node.Generate()

	january := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	february := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	seedBalance(t, db, node, orgID, growing, 100, january)
	seedBalance(t, db, node, orgID, shrinking, 200, january)
	seedBalance(t, db, node, orgID, flat, 300, january)
	seedBalance(t, db, node, orgID, reactivated, 0, january)
	seedBalance(t, db, node, orgID, churning, 50, january)

	first, err := svc.RunBatch(ctx, orgID, january)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Snapshots)
	assert.Empty(t, first.Errors)

	// February: one brand new account, growth, contraction, a flat renewal,
	// a reactivation, and one account that disappears entirely.
	seedBalance(t, db, node, orgID, newAccount, 80, february)
	seedBalance(t, db, node, orgID, growing, 150, february)
	seedBalance(t, db, node, orgID, shrinking, 120, february)
	seedBalance(t, db, node, orgID, flat, 300, february)
	seedBalance(t, db, node, orgID, reactivated, 40, february)

	second, err := svc.RunBatch(ctx, orgID, february)
	require.NoError(t, err)
	assert.Equal(t, 6, second.Snapshots)
	assert.Equal(t, 1, second.Churned)

	movements := map[snowflake.ID]domain.MovementType{}
	rows, err := svc.ListSnapshots(ctx, orgID, february, february)
	require.NoError(t, err)
	for _, row := range rows {
		movements[row.AccountID] = row.Movement
	}

	assert.Equal(t, domain.MovementNew, movements[newAccount])
	assert.Equal(t, domain.MovementExpansion, movements[growing])
	assert.Equal(t, domain.MovementContraction, movements[shrinking])
	assert.Equal(t, domain.MovementRenewal, movements[flat])
	assert.Equal(t, domain.MovementReactivation, movements[reactivated])
	assert.Equal(t, domain.MovementChurn, movements[churning])
}

func TestRunBatch_FirstRunIsAllNew(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	orgID := node.Generate()
	date := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedBalance(t, db, node, orgID, node.Generate(), 100, date)
	}

	report, err := svc.RunBatch(ctx, orgID, date)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Snapshots)

	rows, err := svc.ListSnapshots(ctx, orgID, date, date)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, domain.MovementNew, row.Movement)
	}
}

func TestRunBatch_RerunIsIdempotent(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	orgID := node.Generate()
	accountID := node.Generate()
	date := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	seedBalance(t, db, node, orgID, accountID, 500, date.AddDate(0, 0, -3))

	_, err := svc.RunBatch(ctx, orgID, date)
	require.NoError(t, err)

	// Balance corrected between runs: the rerun must replace, not duplicate.
	seedBalance(t, db, node, orgID, accountID, 650, date.AddDate(0, 0, -1))
	_, err = svc.RunBatch(ctx, orgID, date)
	require.NoError(t, err)

	var count int64
	err = db.Model(&domain.RevenueSnapshot{}).
		Where("org_id = ? AND account_id = ?", orgID, accountID).
		Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rows, err := svc.ListSnapshots(ctx, orgID, date, date)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].MRR.Equal(decimal.NewFromInt(650)))
}

func TestRunBatch_UsesLatestBalancePerAccount(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	orgID := node.Generate()
	accountID := node.Generate()
	date := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)

	seedBalance(t, db, node, orgID, accountID, 100, date.AddDate(0, 0, -20))
	seedBalance(t, db, node, orgID, accountID, 175, date.AddDate(0, 0, -2))
	// A balance after the observation date must not leak in.
	seedBalance(t, db, node, orgID, accountID, 999, date.AddDate(0, 0, 5))

	_, err := svc.RunBatch(ctx, orgID, date)
	require.NoError(t, err)

	rows, err := svc.ListSnapshots(ctx, orgID, date, date)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].MRR.Equal(decimal.NewFromInt(175)), "got %s", rows[0].MRR)
}

func TestRunAll_IsolatesOrgs(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	orgA := node.Generate()
	orgB := node.Generate()
	date := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	seedBalance(t, db, node, orgA, node.Generate(), 100, date)
	seedBalance(t, db, node, orgB, node.Generate(), 200, date)
	seedBalance(t, db, node, orgB, node.Generate(), 300, date)

	report, err := svc.RunAll(ctx, date, 0)
	require.NoError(t, err)
	require.Len(t, report.Orgs, 2)

	total := 0
	for _, org := range report.Orgs {
		total += org.Snapshots
	}
	assert.Equal(t, 3, total)
}

func TestRunAll_SmallBatchSizeFlushesEverything(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	orgID := node.Generate()
	date := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 5; i++ {
		seedBalance(t, db, node, orgID, node.Generate(), 100*i, date)
	}

	// Chunks smaller than the account count still write every snapshot.
	report, err := svc.RunAll(ctx, date, 2)
	require.NoError(t, err)
	require.Len(t, report.Orgs, 1)
	assert.Equal(t, 5, report.Orgs[0].Snapshots)
	assert.Empty(t, report.Orgs[0].Errors)

	var rows []domain.RevenueSnapshot
	require.NoError(t, db.Where("org_id = ?", orgID).Find(&rows).Error)
	assert.Len(t, rows, 5)
}
