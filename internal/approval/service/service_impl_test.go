package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/approval/domain"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&domain.ApprovalRule{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Param{DB: db, Log: zap.NewNop(), GenID: node})
}

func TestCreateAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rule, err := svc.Create(ctx, domain.CreateRequest{
		OrganizationID:  "42",
		Dimension:       "tcv",
		Operator:        domain.OperatorGTE,
		Threshold:       decimal.NewFromInt(100000),
		MessageTemplate: "Deal {tcv} needs VP approval",
	})
	require.NoError(t, err)
	assert.True(t, rule.Active)
	assert.NotZero(t, rule.ID)

	rules, err := svc.List(ctx, "42")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "tcv", rules[0].Dimension)

	rules, err = svc.List(ctx, "43")
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{
			name: "bad org",
			req:  domain.CreateRequest{OrganizationID: "not-a-number", Dimension: "tcv", Operator: domain.OperatorGT, MessageTemplate: "x"},
			want: domain.ErrInvalidOrganization,
		},
		{
			name: "blank dimension",
			req:  domain.CreateRequest{OrganizationID: "42", Dimension: "  ", Operator: domain.OperatorGT, MessageTemplate: "x"},
			want: domain.ErrInvalidDimension,
		},
		{
			name: "unknown operator",
			req:  domain.CreateRequest{OrganizationID: "42", Dimension: "tcv", Operator: "!!", MessageTemplate: "x"},
			want: domain.ErrInvalidOperator,
		},
		{
			name: "blank template",
			req:  domain.CreateRequest{OrganizationID: "42", Dimension: "tcv", Operator: domain.OperatorGT, MessageTemplate: ""},
			want: domain.ErrInvalidTemplate,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestEvaluate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		OrganizationID:  "42",
		Dimension:       "discount_pct",
		Operator:        domain.OperatorGT,
		Threshold:       decimal.NewFromInt(20),
		MessageTemplate: "Discount {discount_pct}% exceeds the sales desk limit",
	})
	require.NoError(t, err)

	fired, err := svc.Evaluate(ctx, "42", domain.RuleContext{
		"discount_pct": decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	require.Len(t, fired, 1)
	assert.Equal(t, "Discount 25% exceeds the sales desk limit", fired[0].Message)

	fired, err = svc.Evaluate(ctx, "42", domain.RuleContext{
		"discount_pct": decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Empty(t, fired)
}

func TestArchive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rule, err := svc.Create(ctx, domain.CreateRequest{
		OrganizationID:  "42",
		Dimension:       "mrr",
		Operator:        domain.OperatorGTE,
		Threshold:       decimal.NewFromInt(5000),
		MessageTemplate: "MRR {mrr} requires finance review",
	})
	require.NoError(t, err)

	err = svc.Archive(ctx, "42", rule.ID.String())
	require.NoError(t, err)

	rules, err := svc.List(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, rules)

	err = svc.Archive(ctx, "42", rule.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Archive(ctx, "42", "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
