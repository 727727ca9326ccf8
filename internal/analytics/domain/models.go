package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OpportunityStatus marks whether a deal still counts toward pipeline.
type OpportunityStatus string

const (
	OpportunityOpen OpportunityStatus = "open"
	OpportunityWon  OpportunityStatus = "won"
	OpportunityLost OpportunityStatus = "lost"
)

// Opportunity is a persisted deal row consumed by the forecast engine.
type Opportunity struct {
	ID               snowflake.ID      `json:"id" gorm:"primaryKey"`
	OrgID            snowflake.ID      `json:"organization_id" gorm:"column:org_id;not null;index"`
	AccountID        snowflake.ID      `json:"account_id" gorm:"column:account_id;not null;index"`
	Name             string            `json:"name" gorm:"type:text;not null"`
	Stage            string            `json:"stage" gorm:"type:text;not null"`
	Amount           decimal.Decimal   `json:"amount" gorm:"type:numeric;not null"`
	ForecastCategory string            `json:"forecast_category" gorm:"type:text"`
	Status           OpportunityStatus `json:"status" gorm:"type:text;not null;default:open"`
	Metadata         datatypes.JSON    `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt        time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Opportunity) TableName() string { return "opportunities" }

// StageWeight is one stage's close probability for weighted pipeline.
type StageWeight struct {
	ID     snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID  snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:ux_stage_weights_org_stage,priority:1"`
	Stage  string          `json:"stage" gorm:"type:text;not null;uniqueIndex:ux_stage_weights_org_stage,priority:2"`
	Weight decimal.Decimal `json:"weight" gorm:"type:numeric;not null"`
}

func (StageWeight) TableName() string { return "stage_weights" }
