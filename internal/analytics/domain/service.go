package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Service interface {
	Forecast(ctx context.Context, organizationID string) (*ForecastResponse, error)
	CohortRetention(ctx context.Context, organizationID string, from, to time.Time) (*CohortResponse, error)
	NetRevenueRetention(ctx context.Context, organizationID string, month time.Time) (*NRRResponse, error)
}

// ForecastResponse carries the weighted pipeline, its rollups, and the
// per-deal lines they were folded from.
type ForecastResponse struct {
	WeightedPipeline decimal.Decimal            `json:"weighted_pipeline"`
	ByStage          map[string]decimal.Decimal `json:"by_stage"`
	ByCategory       map[string]decimal.Decimal `json:"by_category"`
	Deals            []DealForecast             `json:"deals"`
	OpenCount        int                        `json:"open_count"`
}

// DealForecast is one open opportunity's contribution to the forecast,
// including the deal metadata stored alongside it.
type DealForecast struct {
	ID               snowflake.ID    `json:"id"`
	Name             string          `json:"name"`
	Stage            string          `json:"stage"`
	ForecastCategory string          `json:"forecast_category"`
	Amount           decimal.Decimal `json:"amount"`
	WeightedAmount   decimal.Decimal `json:"weighted_amount"`
	Metadata         datatypes.JSON  `json:"metadata,omitempty"`
}

// CohortResponse is the retention-curve table keyed by cohort month.
type CohortResponse struct {
	Cohorts CohortTable `json:"cohorts"`
	Rows    int         `json:"rows"`
}

// NRRResponse reports one month's retention percentage and its inputs.
type NRRResponse struct {
	Month       string          `json:"month"`
	CurrentMRR  decimal.Decimal `json:"current_mrr"`
	Expansion   decimal.Decimal `json:"expansion"`
	Contraction decimal.Decimal `json:"contraction"`
	Churn       decimal.Decimal `json:"churn"`
	NRR         decimal.Decimal `json:"nrr_pct"`
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidMonth        = errors.New("invalid_month")
)
