// Package domain contains revenue snapshot models and the period-over-period
// movement classifier.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// MovementType classifies how an account's recurring revenue changed between
// two observation dates.
type MovementType string

const (
	MovementNew          MovementType = "new"
	MovementExpansion    MovementType = "expansion"
	MovementContraction  MovementType = "contraction"
	MovementChurn        MovementType = "churn"
	MovementReactivation MovementType = "reactivation"
	MovementRenewal      MovementType = "renewal"
)

// RevenueSnapshot is one observation of an account's MRR. Rows are append-only
// and keyed by (org, account, date); a correction is a new dated snapshot,
// never an update.
type RevenueSnapshot struct {
	ID           snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID        snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:ux_snapshots_org_account_date,priority:1"`
	AccountID    snowflake.ID    `json:"account_id" gorm:"column:account_id;not null;uniqueIndex:ux_snapshots_org_account_date,priority:2"`
	SnapshotDate time.Time       `json:"snapshot_date" gorm:"column:snapshot_date;not null;uniqueIndex:ux_snapshots_org_account_date,priority:3"`
	MRR          decimal.Decimal `json:"mrr" gorm:"column:mrr;type:numeric;not null"`
	Movement     MovementType    `json:"movement_type" gorm:"column:movement_type;type:text;not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RevenueSnapshot) TableName() string { return "revenue_snapshots" }

// AccountBalance is the current recurring revenue feed: one row per account
// per effective date, written by the ledger outside this engine.
type AccountBalance struct {
	ID        snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID     snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;index:ix_balances_org_asof,priority:1"`
	AccountID snowflake.ID    `json:"account_id" gorm:"column:account_id;not null;index"`
	MRR       decimal.Decimal `json:"mrr" gorm:"column:mrr;type:numeric;not null"`
	AsOf      time.Time       `json:"as_of" gorm:"column:as_of;not null;index:ix_balances_org_asof,priority:2"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (AccountBalance) TableName() string { return "account_balances" }

// Classify assigns a movement category from the prior recorded MRR (nil when
// the account has no earlier snapshot) and the current aggregate.
//
// A flat balance above zero is a renewal; the upstream system folded those
// into "new", which double-counted renewals as net-new revenue.
func Classify(previous *decimal.Decimal, current decimal.Decimal) MovementType {
	switch {
	case previous == nil:
		return MovementNew
	case previous.IsZero() && current.IsPositive():
		return MovementReactivation
	case previous.GreaterThan(current):
		return MovementContraction
	case previous.LessThan(current):
		return MovementExpansion
	case current.IsPositive():
		return MovementRenewal
	default:
		// Flat at zero: the account stays churned.
		return MovementChurn
	}
}
