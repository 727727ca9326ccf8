package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/analytics/domain"
	movementdomain "github.com/cirrusops/revenue/internal/movement/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	movementSvc movementdomain.Service
}

type Param struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	MovementSvc movementdomain.Service
}

func New(p Param) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("analytics.service"),
		movementSvc: p.MovementSvc,
	}
}

func (s *Service) Forecast(ctx context.Context, organizationID string) (*domain.ForecastResponse, error) {
	orgID, err := parseID(organizationID)
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	var rows []domain.Opportunity
	if err := s.db.WithContext(ctx).
		Where("org_id = ? AND status = ?", orgID, domain.OpportunityOpen).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	var weightRows []domain.StageWeight
	if err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Find(&weightRows).Error; err != nil {
		return nil, err
	}

	weights := make(map[string]decimal.Decimal, len(weightRows))
	for _, row := range weightRows {
		weights[row.Stage] = row.Weight
	}

	return &domain.ForecastResponse{
		WeightedPipeline: domain.WeightedPipeline(rows, weights),
		ByStage:          domain.PipelineByStage(rows),
		ByCategory:       domain.ForecastByCategory(rows),
		Deals:            domain.ForecastDeals(rows, weights),
		OpenCount:        len(rows),
	}, nil
}

func (s *Service) CohortRetention(ctx context.Context, organizationID string, from, to time.Time) (*domain.CohortResponse, error) {
	orgID, err := parseID(organizationID)
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	snapshots, err := s.movementSvc.ListSnapshots(ctx, orgID, from, to)
	if err != nil {
		return nil, err
	}

	table := domain.AggregateCohortRetention(snapshots)
	return &domain.CohortResponse{Cohorts: table, Rows: len(snapshots)}, nil
}

func (s *Service) NetRevenueRetention(ctx context.Context, organizationID string, month time.Time) (*domain.NRRResponse, error) {
	orgID, err := parseID(organizationID)
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}
	if month.IsZero() {
		return nil, domain.ErrInvalidMonth
	}

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	current, err := s.movementSvc.ListSnapshots(ctx, orgID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	// Prior balance per account: latest snapshot strictly before the month.
	var priorRows []movementdomain.RevenueSnapshot
	if err := s.db.WithContext(ctx).
		Where("org_id = ? AND snapshot_date < ?", orgID, monthStart).
		Order("account_id ASC, snapshot_date DESC").
		Find(&priorRows).Error; err != nil {
		return nil, err
	}
	priors := make(map[snowflake.ID]decimal.Decimal, len(priorRows))
	for _, row := range priorRows {
		if _, seen := priors[row.AccountID]; !seen {
			priors[row.AccountID] = row.MRR
		}
	}

	resp := &domain.NRRResponse{Month: monthStart.Format("2006-01")}
	for _, snap := range current {
		resp.CurrentMRR = resp.CurrentMRR.Add(snap.MRR)
		prior := priors[snap.AccountID]

		switch snap.Movement {
		case movementdomain.MovementExpansion:
			resp.Expansion = resp.Expansion.Add(snap.MRR.Sub(prior))
		case movementdomain.MovementContraction:
			resp.Contraction = resp.Contraction.Add(prior.Sub(snap.MRR))
		case movementdomain.MovementChurn:
			resp.Churn = resp.Churn.Add(prior)
		}
	}

	resp.NRR = domain.NetRevenueRetention(resp.CurrentMRR, resp.Expansion, resp.Contraction, resp.Churn)
	return resp, nil
}

func parseID(raw string) (snowflake.ID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ParseInt64(value), nil
}
